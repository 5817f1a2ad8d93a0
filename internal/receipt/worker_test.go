package receipt

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// recordingProcessor is a Processor that records the IDs it sees
type recordingProcessor struct {
	mu      sync.Mutex
	ids     []string
	fail    map[string]bool
	release chan struct{}
}

func (p *recordingProcessor) Process(ctx context.Context, id string) error {
	if p.release != nil {
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
	if p.fail[id] {
		return errors.New("failed")
	}
	return nil
}

func (p *recordingProcessor) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ids...)
}

var _ = Describe("Worker", func() {
	var (
		worker    *Worker
		processor *recordingProcessor
	)

	BeforeEach(func() {
		processor = &recordingProcessor{fail: map[string]bool{}}
	})

	It("processes queued receipts", func() {
		worker = NewWorker(10, 2)
		worker.Start(context.Background(), processor)

		Expect(worker.Enqueue("a")).To(Succeed())
		Expect(worker.Enqueue("b")).To(Succeed())

		Eventually(processor.seen).Should(ConsistOf("a", "b"))
		worker.Stop()
		Expect(worker.Status().Processed).To(Equal(int64(2)))
	})

	It("counts failures", func() {
		processor.fail["bad"] = true
		worker = NewWorker(10, 1)
		worker.Start(context.Background(), processor)

		Expect(worker.Enqueue("bad")).To(Succeed())
		Expect(worker.Enqueue("good")).To(Succeed())
		worker.Stop()

		status := worker.Status()
		Expect(status.Failed).To(Equal(int64(1)))
		Expect(status.Processed).To(Equal(int64(1)))
	})

	It("drains the queue on Stop", func() {
		worker = NewWorker(5, 1)
		for _, id := range []string{"1", "2", "3"} {
			Expect(worker.Enqueue(id)).To(Succeed())
		}
		worker.Start(context.Background(), processor)
		worker.Stop()

		Expect(processor.seen()).To(Equal([]string{"1", "2", "3"}))
	})

	It("rejects work when full", func() {
		worker = NewWorker(1, 1)
		Expect(worker.Enqueue("a")).To(Succeed())
		Expect(worker.Enqueue("b")).To(MatchError(ErrQueueFull))
		Expect(worker.Status().QueueLength).To(Equal(1))
	})

	It("rejects work after Stop", func() {
		worker = NewWorker(1, 1)
		worker.Start(context.Background(), processor)
		worker.Stop()
		Expect(worker.Enqueue("a")).To(MatchError(ErrWorkerStopped))
	})

	It("can be stopped twice", func() {
		worker = NewWorker(1, 1)
		worker.Start(context.Background(), processor)
		worker.Stop()
		worker.Stop()
	})

	It("exits when the context is cancelled", func() {
		processor.release = make(chan struct{})
		ctx, cancel := context.WithCancel(context.Background())
		worker = NewWorker(5, 1)
		worker.Start(ctx, processor)
		Expect(worker.Enqueue("a")).To(Succeed())

		cancel()
		close(processor.release)
		worker.Stop()
	})

	It("reports its configuration", func() {
		worker = NewWorker(0, 0)
		status := worker.Status()
		Expect(status.MaxQueueSize).To(Equal(1))
		Expect(status.Workers).To(Equal(1))
	})
})
