package receipt

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.etcd.io/bbolt"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/database"
)

var _ = Describe("BoltDB", func() {
	var (
		bolt *bbolt.DB
		db   *BoltDB
		now  time.Time
	)

	BeforeEach(func() {
		var err error
		bolt, err = database.Open(filepath.Join(GinkgoT().TempDir(), "test.db"))
		Expect(err).NotTo(HaveOccurred())
		db, err = NewBoltDB(bolt)
		Expect(err).NotTo(HaveOccurred())
		now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		bolt.Close()
	})

	Describe("SaveReceipt and GetReceipt", func() {
		BeforeEach(func() {
			Expect(db.SaveReceipt(&Receipt{
				ID:          "test-id",
				Filename:    "test-id_receipt.jpg",
				ContentType: "image/jpeg",
				Status:      StatusDone,
				Ingredients: []string{"milk", "eggs"},
				CreatedAt:   now,
				UpdatedAt:   now,
			})).To(Succeed())
		})

		It("round-trips every field", func() {
			receipt, err := db.GetReceipt("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Filename).To(Equal("test-id_receipt.jpg"))
			Expect(receipt.Status).To(Equal(StatusDone))
			Expect(receipt.Ingredients).To(Equal([]string{"milk", "eggs"}))
			Expect(receipt.CreatedAt.Equal(now)).To(BeTrue())
		})

		It("overwrites on save", func() {
			Expect(db.SaveReceipt(&Receipt{ID: "test-id", Status: StatusFailed, Error: "bad image"})).To(Succeed())

			receipt, err := db.GetReceipt("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Status).To(Equal(StatusFailed))
			Expect(receipt.Error).To(Equal("bad image"))
		})

		It("returns ErrNotFound for unknown IDs", func() {
			_, err := db.GetReceipt("nope")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("ListReceipts", func() {
		It("returns an empty list", func() {
			receipts, err := db.ListReceipts()
			Expect(err).NotTo(HaveOccurred())
			Expect(receipts).NotTo(BeNil())
			Expect(receipts).To(BeEmpty())
		})

		It("orders newest first", func() {
			Expect(db.SaveReceipt(&Receipt{ID: "a", CreatedAt: now})).To(Succeed())
			Expect(db.SaveReceipt(&Receipt{ID: "b", CreatedAt: now.Add(time.Hour)})).To(Succeed())
			Expect(db.SaveReceipt(&Receipt{ID: "c", CreatedAt: now.Add(-time.Hour)})).To(Succeed())

			receipts, err := db.ListReceipts()
			Expect(err).NotTo(HaveOccurred())
			Expect(receipts).To(HaveLen(3))
			Expect(receipts[0].ID).To(Equal("b"))
			Expect(receipts[1].ID).To(Equal("a"))
			Expect(receipts[2].ID).To(Equal("c"))
		})
	})

	Describe("DeleteReceipt", func() {
		It("removes the receipt", func() {
			Expect(db.SaveReceipt(&Receipt{ID: "a"})).To(Succeed())
			Expect(db.DeleteReceipt("a")).To(Succeed())

			_, err := db.GetReceipt("a")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("returns ErrNotFound for unknown IDs", func() {
			Expect(db.DeleteReceipt("a")).To(MatchError(ErrNotFound))
		})
	})
})
