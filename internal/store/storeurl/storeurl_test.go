package storeurl

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/discochess/magics/internal/codec/noopcodec"
	"github.com/discochess/magics/internal/store/badgerstore"
	"github.com/discochess/magics/internal/store/diskstore"
	"github.com/discochess/magics/internal/store/memstore"
)

func TestOpen_Local(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		location string
		check    func(any) bool
	}{
		{filepath.Join(dir, "plain"), func(s any) bool { _, ok := s.(*diskstore.Store); return ok }},
		{"file://" + filepath.Join(dir, "file"), func(s any) bool { _, ok := s.(*diskstore.Store); return ok }},
		{"mem://", func(s any) bool { _, ok := s.(*memstore.Store); return ok }},
		{"badger://" + filepath.Join(dir, "db"), func(s any) bool { _, ok := s.(*badgerstore.Store); return ok }},
	}
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			s, err := Open(ctx, tt.location, noopcodec.New())
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer s.Close()
			if !tt.check(s) {
				t.Errorf("Open(%q) = %T", tt.location, s)
			}
			if err := s.Put(ctx, "k", []byte("v")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil || string(got) != "v" {
				t.Errorf("Get() = %q, %v", got, err)
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, "ftp://host/x", noopcodec.New()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Open(ftp) error = %v, want %v", err, ErrUnsupported)
	}
	if _, err := Open(ctx, "gs:///prefix", noopcodec.New()); err == nil {
		t.Error("Open() without bucket should fail")
	}
}

func TestCodec(t *testing.T) {
	for _, name := range Codecs {
		c, err := Codec(name)
		if err != nil {
			t.Fatalf("Codec(%q) error = %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Codec(%q).Name() = %q", name, c.Name())
		}
	}
	if c, _ := Codec(""); c.Name() != "zstd" {
		t.Errorf("Codec(\"\") = %s, want zstd", c.Name())
	}
	if _, err := Codec("lz4"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Codec(lz4) error = %v, want %v", err, ErrUnsupported)
	}
}
