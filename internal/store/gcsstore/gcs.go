// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/discochess/magics/internal/codec"
	"github.com/discochess/magics/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a Google Cloud Storage backend.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
	codec  codec.Codec
}

// New creates a new GCS store.
// The bucket must already exist.
// The codec handles compression/decompression.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client: client,
		bucket: client.Bucket(bucketName),
		codec:  c,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// Put compresses data and uploads it under key.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	compressed, err := codec.Compress(s.codec, data)
	if err != nil {
		return err
	}

	w := s.bucket.Object(s.objectKey(key)).NewWriter(ctx)
	w.ContentType = contentType(s.codec)
	if _, err := w.Write(compressed); err != nil {
		w.Close()
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", key, err)
	}
	return nil
}

// Get downloads and decompresses the object stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := s.bucket.Object(s.objectKey(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	defer reader.Close()

	compressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return codec.Decompress(s.codec, compressed)
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// objectKey returns the full object key for a store key.
func (s *Store) objectKey(key string) string {
	name := s.prefix + key
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return name
}

func contentType(c codec.Codec) string {
	switch c.Extension() {
	case "":
		return "application/json"
	case "gz":
		return "application/gzip"
	default:
		return "application/zstd"
	}
}
