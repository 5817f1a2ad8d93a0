package pantry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/database"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/ingredient"
)

const bucketName = "fridge"

// ErrNotFound is returned when no item has the requested name
var ErrNotFound = errors.New("item not found")

// DB defines the interface for pantry storage
type DB interface {
	// ListItems returns all items, most recently added first
	ListItems() ([]*Item, error)

	// GetItem retrieves an item by name, case-insensitively
	GetItem(name string) (*Item, error)

	// SaveItem inserts or replaces an item
	SaveItem(item *Item) error

	// DeleteItem removes an item by name
	DeleteItem(name string) error

	// CountItems returns the number of distinct items
	CountItems() (int, error)
}

// BoltDB implements the DB interface using BoltDB. Items are keyed by their
// normalized name.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates the fridge bucket on an open database
func NewBoltDB(db *bbolt.DB) (*BoltDB, error) {
	if err := database.EnsureBucket(db, bucketName); err != nil {
		return nil, err
	}
	return &BoltDB{db: db}, nil
}

func key(name string) []byte {
	return []byte(ingredient.Normalize(name))
}

// ListItems returns all items, most recently added first
func (b *BoltDB) ListItems() ([]*Item, error) {
	items := make([]*Item, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("unmarshaling item %s: %w", k, err)
			}
			items = append(items, &item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Keys are in name order; ties on date stay that way
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AddedDate.After(items[j].AddedDate)
	})
	return items, nil
}

// GetItem retrieves an item by name, case-insensitively
func (b *BoltDB) GetItem(name string) (*Item, error) {
	var item *Item
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get(key(name))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return json.Unmarshal(data, &item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SaveItem inserts or replaces an item
func (b *BoltDB) SaveItem(item *Item) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshaling item: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put(key(item.Name), data)
	})
}

// DeleteItem removes an item by name
func (b *BoltDB) DeleteItem(name string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket.Get(key(name)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return bucket.Delete(key(name))
	})
}

// CountItems returns the number of distinct items
func (b *BoltDB) CountItems() (int, error) {
	var n int
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			n++
			return nil
		})
	})
	return n, err
}
