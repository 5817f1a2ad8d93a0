// Package database opens the BoltDB file shared by the pantry and receipt
// stores.
package database

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// Open opens (or creates) the BoltDB file at path. bbolt holds an exclusive
// file lock, so a process opens the file once and hands the handle to every
// store.
func Open(path string) (*bbolt.DB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}
	return db, nil
}

// EnsureBucket creates the named bucket if it doesn't exist
func EnsureBucket(db *bbolt.DB, name string) error {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return fmt.Errorf("creating bucket %s: %w", name, err)
	}
	return nil
}
