package noopcodec

import (
	"bytes"
	"testing"

	"github.com/discochess/magics/internal/codec"
)

func TestCodec_PassThrough(t *testing.T) {
	c := New()
	data := []byte("plain")
	got, err := codec.Compress(c, data)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Compress() = %q, want %q", got, data)
	}
	if c.Extension() != "" || c.Name() != "none" {
		t.Errorf("Extension(), Name() = %q, %q", c.Extension(), c.Name())
	}
}

// closeTracker records whether Close was called on it.
type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestCodec_CloseLeavesStreamOpen(t *testing.T) {
	c := New()

	dst := &closeTracker{}
	w, err := c.Writer(dst)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := w.Write([]byte("table")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if dst.closed {
		t.Error("Writer Close() closed the destination")
	}
	if got := dst.String(); got != "table" {
		t.Errorf("destination = %q, want %q", got, "table")
	}

	src := &closeTracker{}
	src.WriteString("table")
	r, err := c.Reader(src)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if src.closed {
		t.Error("Reader Close() closed the source")
	}
}
