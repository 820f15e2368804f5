package draft

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const defaultBoltBucket = "drafts"

// BoltBackend keeps blobs in a single bbolt bucket.
type BoltBackend struct {
	db     *bolt.DB
	bucket []byte
}

var _ Backend = (*BoltBackend)(nil)

// OpenBoltBackend opens (or creates) the database file at path.
func OpenBoltBackend(path string) (*BoltBackend, error) {
	if path == "" {
		return nil, errors.New("draft: bolt path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("draft: create bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("draft: open bolt db: %w", err)
	}
	return &BoltBackend{db: db, bucket: []byte(defaultBoltBucket)}, nil
}

func (b *BoltBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return ErrNoBlob
		}
		value := bucket.Get([]byte(key))
		if value == nil {
			return ErrNoBlob
		}
		// bbolt values are only valid inside the transaction.
		out = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BoltBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(b.bucket)
		if err != nil {
			return fmt.Errorf("draft: create bucket: %w", err)
		}
		return bucket.Put([]byte(key), value)
	})
}

// Close releases the database file lock.
func (b *BoltBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
