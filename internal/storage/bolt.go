package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucketPreferences = "preferences" // key: preference name -> raw value

// boltLockTimeout bounds the wait for another process's transaction.
const boltLockTimeout = 5 * time.Second

// BoltBackend stores preferences in one bbolt bucket. The file is opened for
// each operation and closed again, so other processes can use it between
// calls.
type BoltBackend struct {
	path string

	mu     sync.Mutex
	closed bool
}

// OpenBoltBackend creates the bolt file at path if needed and checks that it
// can be opened.
func OpenBoltBackend(path string) (*BoltBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bolt directory: %w", err)
	}
	if err := validateLocalFilesystem(path); err != nil {
		return nil, err
	}

	b := &BoltBackend{path: path}
	err := b.withDB(false, func(db *bbolt.DB) error {
		return db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists([]byte(boltBucketPreferences))
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap bolt: %w", err)
	}
	return b, nil
}

// withDB opens the file, runs fn and closes it. Read-only opens take a
// shared lock.
func (b *BoltBackend) withDB(readOnly bool, fn func(db *bbolt.DB) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}

	db, err := bbolt.Open(b.path, 0o600, &bbolt.Options{Timeout: boltLockTimeout, ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("open bolt: %w", err)
	}
	ferr := fn(db)
	if cerr := db.Close(); cerr != nil && ferr == nil {
		return fmt.Errorf("close bolt: %w", cerr)
	}
	return ferr
}

func (b *BoltBackend) LoadAll(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	err := b.withDB(true, func(db *bbolt.DB) error {
		return db.View(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket([]byte(boltBucketPreferences))
			if bucket == nil {
				return nil
			}
			return bucket.ForEach(func(k, v []byte) error {
				out[string(k)] = string(v)
				return nil
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return out, nil
}

func (b *BoltBackend) Put(ctx context.Context, key, value string) error {
	if err := checkPut(key, value); err != nil {
		return err
	}
	err := b.withDB(false, func(db *bbolt.DB) error {
		return db.Update(func(tx *bbolt.Tx) error {
			bucket, err := tx.CreateBucketIfNotExists([]byte(boltBucketPreferences))
			if err != nil {
				return err
			}
			return bucket.Put([]byte(key), []byte(value))
		})
	})
	if err != nil {
		return fmt.Errorf("put preference %q: %w", key, err)
	}
	return nil
}

func (b *BoltBackend) Delete(ctx context.Context, key string) error {
	err := b.withDB(false, func(db *bbolt.DB) error {
		return db.Update(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket([]byte(boltBucketPreferences))
			if bucket == nil {
				return nil
			}
			return bucket.Delete([]byte(key))
		})
	})
	if err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	return nil
}

// Close marks the backend closed. No file handle is held between calls.
func (b *BoltBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
