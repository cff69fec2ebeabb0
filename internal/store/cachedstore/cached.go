// Package cachedstore provides a read-through LRU cache in front of
// another Store, used for remote artifact locations.
package cachedstore

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/magics/internal/stats"
	"github.com/discochess/magics/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// DefaultCapacity is the number of keys kept when no capacity is given.
const DefaultCapacity = 16

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Store wraps another Store with caching.
type Store struct {
	underlying store.Store
	cache      *lru.Cache[string, []byte]
	collector  stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Store.
type Option func(*options)

type options struct {
	capacity  int
	collector stats.Collector
}

// WithCapacity sets the maximum number of cached keys.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithStats sets the collector for hit, miss and size metrics.
func WithStats(c stats.Collector) Option {
	return func(o *options) {
		o.collector = c
	}
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, opts ...Option) (*Store, error) {
	o := options{capacity: DefaultCapacity, collector: stats.NewNoop()}
	for _, opt := range opts {
		opt(&o)
	}

	c, err := lru.New[string, []byte](o.capacity)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return &Store{
		underlying: underlying,
		cache:      c,
		collector:  o.collector,
	}, nil
}

// Put writes through to the underlying store and caches data on success.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.underlying.Put(ctx, key, data); err != nil {
		s.cache.Remove(key)
		return err
	}
	s.add(key, data)
	return nil
}

// Get reads a key, checking the cache first.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.cache.Get(key); ok {
		s.hits.Add(1)
		s.collector.IncCounter(stats.MetricCacheHits, 1)
		return data, nil
	}
	s.misses.Add(1)
	s.collector.IncCounter(stats.MetricCacheMiss, 1)

	data, err := s.underlying.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	s.add(key, data)
	return data, nil
}

func (s *Store) add(key string, data []byte) {
	copied := make([]byte, len(data))
	copy(copied, data)
	s.cache.Add(key, copied)
	s.collector.SetGauge(stats.MetricCacheItems, int64(s.cache.Len()))
}

// Close closes the underlying store.
func (s *Store) Close() error {
	s.cache.Purge()
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Size:   s.cache.Len(),
	}
}
