// Package diskstore implements a disk-based filesystem storage backend.
package diskstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/discochess/magics/internal/codec"
	"github.com/discochess/magics/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

const lockName = ".lock"

// Store is a disk-based filesystem storage backend.
type Store struct {
	root  string
	codec codec.Codec

	mu   sync.Mutex // flock does not exclude goroutines sharing one handle
	lock *flock.Flock
}

// New creates a new disk store rooted at the given directory, creating it
// if needed. The codec handles compression/decompression.
func New(root string, c codec.Codec) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Store{
		root:  root,
		codec: c,
		lock:  flock.New(filepath.Join(root, lockName)),
	}, nil
}

// Put compresses data and writes it atomically under key. Concurrent
// writers, including other processes, are serialized by a lock file.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	compressed, err := codec.Compress(s.codec, data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", s.root, err)
	}
	defer s.lock.Unlock()

	path := s.path(key)
	tmp, err := os.CreateTemp(s.root, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming %s: %w", key, err)
	}
	return nil
}

// Get reads and decompresses the data stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compressed, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return codec.Decompress(s.codec, compressed)
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return s.lock.Close()
}

// path returns the filesystem path for a key.
func (s *Store) path(key string) string {
	name := key
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return filepath.Join(s.root, name)
}
