// Package noopcodec provides a pass-through codec for uncompressed,
// human-readable stores.
package noopcodec

import (
	"io"

	"github.com/discochess/magics/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec stores data as is. Closing its reader or writer never closes
// the stream it wraps, matching the compressing codecs.
type Codec struct{}

// New returns a new no-op codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "none".
func (c *Codec) Name() string {
	return "none"
}

// Reader returns r with a no-op Close.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Writer returns w with a no-op Close.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return passWriter{w}, nil
}

// Extension returns "" so keys map to plain file and object names.
func (c *Codec) Extension() string {
	return ""
}

type passWriter struct {
	io.Writer
}

func (passWriter) Close() error { return nil }
