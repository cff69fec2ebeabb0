package badgerstore

import (
	"context"
	"errors"
	"testing"

	"github.com/discochess/magics/internal/codec/zstdcodec"
	"github.com/discochess/magics/internal/store"
)

func TestStore_InMemory(t *testing.T) {
	s, err := New("", zstdcodec.New(), WithInMemory())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Put(ctx, "magics.json", []byte("set")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := s.Get(ctx, "magics.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "set" {
		t.Errorf("Get() = %q, want %q", got, "set")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir, zstdcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Put(ctx, "manifest.json", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = New(dir, zstdcodec.New())
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "manifest.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"version":1}` {
		t.Errorf("Get() = %q", got)
	}
}
