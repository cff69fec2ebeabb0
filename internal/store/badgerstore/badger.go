// Package badgerstore implements a storage backend on an embedded
// Badger key-value database, so several runs can share one directory.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/discochess/magics/internal/codec"
	"github.com/discochess/magics/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a Badger-backed storage backend.
type Store struct {
	db    *badger.DB
	codec codec.Codec
}

// Option configures the Badger database.
type Option func(*badger.Options)

// WithInMemory keeps the database in memory only.
func WithInMemory() Option {
	return func(o *badger.Options) {
		*o = o.WithInMemory(true).WithDir("").WithValueDir("")
	}
}

// New opens (or creates) a database in dir.
// The codec handles compression/decompression.
func New(dir string, c codec.Codec, opts ...Option) (*Store, error) {
	o := badger.DefaultOptions(dir)
	o.Logger = nil
	for _, opt := range opts {
		opt(&o)
	}

	db, err := badger.Open(o)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %q: %w", dir, err)
	}
	return &Store{db: db, codec: c}, nil
}

// Put compresses data and stores it under key.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	compressed, err := codec.Compress(s.codec, data)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), compressed)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Get reads and decompresses the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return codec.Decompress(s.codec, compressed)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
