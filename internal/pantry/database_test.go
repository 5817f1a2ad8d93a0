package pantry

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
		day  time.Time
	)

	BeforeEach(func() {
		var err error
		bolt, err = database.Open(filepath.Join(GinkgoT().TempDir(), "test.db"))
		Expect(err).NotTo(HaveOccurred())
		db, err = NewBoltDB(bolt)
		Expect(err).NotTo(HaveOccurred())
		day = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		bolt.Close()
	})

	Describe("SaveItem and GetItem", func() {
		BeforeEach(func() {
			Expect(db.SaveItem(&Item{Name: "Olive Oil", Quantity: 2, AddedDate: day})).To(Succeed())
		})

		It("finds the item case-insensitively", func() {
			item, err := db.GetItem("  olive OIL")
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Name).To(Equal("Olive Oil"))
			Expect(item.Quantity).To(Equal(2))
			Expect(item.AddedDate.Equal(day)).To(BeTrue())
		})

		It("replaces an item saved under another spelling", func() {
			Expect(db.SaveItem(&Item{Name: "OLIVE OIL", Quantity: 5, AddedDate: day})).To(Succeed())

			n, err := db.CountItems()
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})

		It("returns ErrNotFound for unknown names", func() {
			_, err := db.GetItem("truffle")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("ListItems", func() {
		It("returns an empty list for an empty fridge", func() {
			items, err := db.ListItems()
			Expect(err).NotTo(HaveOccurred())
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
		})

		It("orders by added date, newest first", func() {
			Expect(db.SaveItem(&Item{Name: "apple", Quantity: 1, AddedDate: day})).To(Succeed())
			Expect(db.SaveItem(&Item{Name: "milk", Quantity: 1, AddedDate: day.Add(2 * time.Hour)})).To(Succeed())
			Expect(db.SaveItem(&Item{Name: "bread", Quantity: 1, AddedDate: day.Add(time.Hour)})).To(Succeed())

			items, err := db.ListItems()
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(3))
			Expect(items[0].Name).To(Equal("milk"))
			Expect(items[1].Name).To(Equal("bread"))
			Expect(items[2].Name).To(Equal("apple"))
		})
	})

	Describe("DeleteItem", func() {
		It("removes the item", func() {
			Expect(db.SaveItem(&Item{Name: "Eggs", Quantity: 1, AddedDate: day})).To(Succeed())
			Expect(db.DeleteItem("eggs")).To(Succeed())

			n, err := db.CountItems()
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})

		It("returns ErrNotFound for unknown names", func() {
			Expect(db.DeleteItem("eggs")).To(MatchError(ErrNotFound))
		})
	})

	It("shares the file with other buckets", func() {
		Expect(database.EnsureBucket(bolt, "receipts")).To(Succeed())
		Expect(db.SaveItem(&Item{Name: "rice", Quantity: 1, AddedDate: day})).To(Succeed())

		n, err := db.CountItems()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
	})
})
