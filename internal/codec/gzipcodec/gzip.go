// Package gzipcodec provides a gzip compression codec for stores that
// are read by tools without zstd support.
package gzipcodec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/discochess/magics/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements gzip compression.
type Codec struct {
	level int
}

// Option configures a Codec.
type Option func(*Codec)

// WithLevel sets the compression level, from gzip.HuffmanOnly to
// gzip.BestCompression. Default is gzip.BestCompression.
func WithLevel(level int) Option {
	return func(c *Codec) {
		c.level = level
	}
}

// New returns a new gzip codec.
func New(opts ...Option) *Codec {
	c := &Codec{level: gzip.BestCompression}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns "gzip".
func (c *Codec) Name() string {
	return "gzip"
}

// Reader wraps r to decompress gzip data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// Writer wraps w to compress data at the configured level.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	zw, err := gzip.NewWriterLevel(w, c.level)
	if err != nil {
		return nil, fmt.Errorf("gzip level %d: %w", c.level, err)
	}
	return zw, nil
}

// Extension returns "gz".
func (c *Codec) Extension() string {
	return "gz"
}
