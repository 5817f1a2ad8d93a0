package receipt

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	// ErrQueueFull is returned when the processing queue has no room
	ErrQueueFull = errors.New("receipt queue is full")

	// ErrWorkerStopped is returned when enqueuing after Stop
	ErrWorkerStopped = errors.New("receipt worker is stopped")
)

// Processor handles one queued receipt
type Processor interface {
	Process(ctx context.Context, id string) error
}

// WorkerStatus describes the queue for health checks
type WorkerStatus struct {
	QueueLength  int   `json:"queue_length"`
	MaxQueueSize int   `json:"max_queue_size"`
	Workers      int   `json:"workers"`
	Processed    int64 `json:"processed"`
	Failed       int64 `json:"failed"`
}

// Worker processes queued receipts on a fixed number of goroutines
type Worker struct {
	queue   chan string
	workers int

	processed atomic.Int64
	failed    atomic.Int64

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewWorker creates a Worker with a bounded queue
func NewWorker(queueSize, workers int) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Worker{
		queue:   make(chan string, queueSize),
		workers: workers,
	}
}

// Enqueue adds a receipt ID without blocking
func (w *Worker) Enqueue(id string) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return ErrWorkerStopped
	}
	select {
	case w.queue <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the worker goroutines. They run until Stop is called or ctx
// is cancelled.
func (w *Worker) Start(ctx context.Context, p Processor) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i, p)
	}
	slog.Info("Receipt workers started", "workers", w.workers, "queue_size", cap(w.queue))
}

func (w *Worker) run(ctx context.Context, n int, p Processor) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-w.queue:
			if !ok {
				return
			}
			if err := p.Process(ctx, id); err != nil {
				w.failed.Add(1)
				slog.Warn("Receipt processing failed", "worker", n, "id", id, "error", err)
				continue
			}
			w.processed.Add(1)
		}
	}
}

// Stop refuses new work, lets the workers finish what is queued and waits for
// them to exit
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// Status returns a snapshot of the queue
func (w *Worker) Status() WorkerStatus {
	return WorkerStatus{
		QueueLength:  len(w.queue),
		MaxQueueSize: cap(w.queue),
		Workers:      w.workers,
		Processed:    w.processed.Load(),
		Failed:       w.failed.Load(),
	}
}
