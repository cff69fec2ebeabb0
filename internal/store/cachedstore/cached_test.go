package cachedstore

import (
	"context"
	"errors"
	"testing"

	"github.com/discochess/magics/internal/stats"
	"github.com/discochess/magics/internal/store"
	"github.com/discochess/magics/internal/store/memstore"
)

// countingStore counts reads that reach the underlying store.
type countingStore struct {
	*memstore.Store
	gets int
	fail error
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets++
	return s.Store.Get(ctx, key)
}

func (s *countingStore) Put(ctx context.Context, key string, data []byte) error {
	if s.fail != nil {
		return s.fail
	}
	return s.Store.Put(ctx, key, data)
}

func newCounting(t *testing.T) *countingStore {
	t.Helper()
	return &countingStore{Store: memstore.New()}
}

func TestStore_CacheHit(t *testing.T) {
	underlying := newCounting(t)
	ctx := context.Background()
	if err := underlying.Store.Put(ctx, "magics.json", []byte("set")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	s, err := New(underlying)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		data, err := s.Get(ctx, "magics.json")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(data) != "set" {
			t.Errorf("Get() = %q, want %q", data, "set")
		}
	}

	if underlying.gets != 1 {
		t.Errorf("underlying reads = %d, want 1", underlying.gets)
	}
	st := s.Stats()
	if st.Hits != 2 || st.Misses != 1 || st.Size != 1 {
		t.Errorf("Stats() = %+v, want 2 hits 1 miss size 1", st)
	}
}

func TestStore_PutWritesThrough(t *testing.T) {
	underlying := newCounting(t)
	mem := stats.NewMemory()
	s, err := New(underlying, WithStats(mem))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if underlying.Keys() != 1 {
		t.Errorf("underlying keys = %d, want 1", underlying.Keys())
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if underlying.gets != 0 {
		t.Errorf("underlying reads = %d, want 0", underlying.gets)
	}
	if got := mem.Counter(stats.MetricCacheHits); got != 1 {
		t.Errorf("cache hits = %d, want 1", got)
	}
	if got := mem.Gauge(stats.MetricCacheItems); got != 1 {
		t.Errorf("cache items = %d, want 1", got)
	}
}

func TestStore_PutFailureEvicts(t *testing.T) {
	underlying := newCounting(t)
	s, err := New(underlying)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "k", []byte("old")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	underlying.fail = errors.New("disk full")
	if err := s.Put(ctx, "k", []byte("new")); err == nil {
		t.Fatal("Put() expected error")
	}
	if s.Stats().Size != 0 {
		t.Errorf("Stats().Size = %d, want 0 after failed Put", s.Stats().Size)
	}
}

func TestStore_NotFound(t *testing.T) {
	s, err := New(newCounting(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = s.Get(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Eviction(t *testing.T) {
	s, err := New(newCounting(t), WithCapacity(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Put(ctx, k, []byte(k)); err != nil {
			t.Fatalf("Put(%q) error = %v", k, err)
		}
	}
	if s.Stats().Size != 2 {
		t.Errorf("Stats().Size = %d, want 2", s.Stats().Size)
	}
}

func TestNew_InvalidCapacity(t *testing.T) {
	if _, err := New(memstore.New(), WithCapacity(0)); err == nil {
		t.Error("New() with capacity 0 should return error")
	}
}

func TestStats_HitRate(t *testing.T) {
	tests := []struct {
		name     string
		hits     int64
		misses   int64
		expected float64
	}{
		{"no requests", 0, 0, 0},
		{"all hits", 10, 0, 100},
		{"all misses", 0, 10, 0},
		{"50% hit rate", 5, 5, 50},
		{"75% hit rate", 3, 1, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{Hits: tt.hits, Misses: tt.misses}
			if got := s.HitRate(); got != tt.expected {
				t.Errorf("HitRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}
