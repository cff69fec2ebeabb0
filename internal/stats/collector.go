// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Search metrics.
	MetricCandidates       = "magics_candidates_total"
	MetricPrefilterRejects = "magics_prefilter_rejects_total"
	MetricTableBuilds      = "magics_table_builds_total"
	MetricCollisions       = "magics_collisions_total"
	MetricFound            = "magics_found_total"
	MetricRelaxed          = "magics_relaxed_total"
	MetricExhausted        = "magics_exhausted_total"
	MetricAttempts         = "magics_attempts"
	MetricSearchSeconds    = "magics_search_seconds"

	// Driver metrics.
	MetricSquaresDone = "magics_squares_done"

	// Table metrics.
	MetricLoads      = "magics_loads_total"
	MetricCacheHits  = "magics_cache_hits_total"
	MetricCacheMiss  = "magics_cache_misses_total"
	MetricCacheItems = "magics_cache_items"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
