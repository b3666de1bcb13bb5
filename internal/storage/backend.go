// Package storage persists preference values. Values are opaque strings keyed
// by preference name; typing and defaults live in the prefs package.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockgen -destination=mocks/mock_backend.go -package=mocks github.com/mattjoyce/ringclock/internal/storage Backend

// Backend is a durable string key-value map.
type Backend interface {
	// LoadAll returns every stored key and value.
	LoadAll(ctx context.Context) (map[string]string, error)
	// Put inserts or replaces a value.
	Put(ctx context.Context, key, value string) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// DefaultMaxValueBytes caps a single stored value.
const DefaultMaxValueBytes = 1 << 20

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrClosed        = errors.New("storage backend is closed")
	ErrValueTooLarge = errors.New("preference value exceeds max size")
	ErrEmptyKey      = errors.New("preference key is empty")
)

// Drivers lists the accepted driver names.
func Drivers() []string {
	return []string{DriverSQLite, DriverBolt, DriverMemory}
}

// Open returns the backend for driver. path is ignored by the memory driver.
func Open(ctx context.Context, driver, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "":
		b, err := OpenSQLiteBackend(ctx, path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case DriverBolt:
		b, err := OpenBoltBackend(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case DriverMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func checkPut(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(value) > DefaultMaxValueBytes {
		return fmt.Errorf("%w: key=%q (%d bytes)", ErrValueTooLarge, key, len(value))
	}
	return nil
}
