// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
)

var boltBucket = []byte("knowledge_base")

// Bolt stores the blob under one key of a bolt bucket.
type Bolt struct {
	db       *bolt.DB
	key      []byte
	maxBytes int64
}

// NewBolt opens or creates the bolt database at path.
func NewBolt(path, key string, maxBytes int64) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Bolt{db: db, key: []byte(key), maxBytes: maxBytes}, nil
}

// Load returns a copy of the stored blob.
func (b *Bolt) Load() ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get(b.key)
		if v != nil {
			// Values are only valid for the life of the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", b.key, err)
	}
	return data, nil
}

// Save replaces the stored blob.
func (b *Bolt) Save(data []byte) error {
	if err := checkQuota(data, b.maxBytes); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put(b.key, data)
	})
	if err != nil {
		return fmt.Errorf("saving %s: %w", b.key, err)
	}
	return nil
}

// Close releases the database file lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}
