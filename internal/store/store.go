// Package store defines the storage backend interface for descriptor
// sets and their manifests.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("store: key not found")

// Store defines the interface for storage backends.
// Implementations handle path formats, compression and storage details
// internally; callers see plain bytes.
type Store interface {
	// Put writes data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads the data stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Close releases any resources held by the store.
	Close() error
}
