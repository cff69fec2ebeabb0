// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/magics/internal/stats"
)

// help describes the metrics the library emits. Unknown names fall
// back to using the name as help text.
var help = map[string]string{
	stats.MetricCandidates:       "Magic candidates drawn.",
	stats.MetricPrefilterRejects: "Shifts skipped by the popcount prefilter.",
	stats.MetricTableBuilds:      "Perfect-hash table constructions attempted.",
	stats.MetricCollisions:       "Table constructions rejected by a collision.",
	stats.MetricFound:            "Squares for which a magic was found.",
	stats.MetricRelaxed:          "Magics found only after widening the table by one bit.",
	stats.MetricExhausted:        "Squares whose attempt budget ran out.",
	stats.MetricAttempts:         "Attempts needed to find a magic.",
	stats.MetricSearchSeconds:    "Wall time spent searching one square.",
	stats.MetricSquaresDone:      "Squares finished in the current run.",
	stats.MetricLoads:            "Descriptor sets loaded from a store.",
	stats.MetricCacheHits:        "Artifact cache hits.",
	stats.MetricCacheMiss:        "Artifact cache misses.",
	stats.MetricCacheItems:       "Artifacts held in the cache.",
}

// attemptBuckets spans a few attempts up to the 10^8 default budget.
var attemptBuckets = prometheus.ExponentialBuckets(1, 10, 9)

// Collector implements stats.Collector using Prometheus metrics.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	getOrCreate(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: helpFor(name)})
	}).Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	getOrCreate(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: helpFor(name)})
	}).Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	getOrCreate(c, c.histograms, name, func() prometheus.Histogram {
		buckets := prometheus.DefBuckets
		if name == stats.MetricAttempts {
			buckets = attemptBuckets
		}
		return prometheus.NewHistogram(prometheus.HistogramOpts{Name: name, Help: helpFor(name), Buckets: buckets})
	}).Observe(value)
}

func helpFor(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}

// getOrCreate returns the metric cached under name, registering a new
// one on first use. A metric already registered elsewhere is reused.
func getOrCreate[M prometheus.Collector](c *Collector, cache map[string]M, name string, create func() M) M {
	c.mu.RLock()
	m, ok := cache[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok = cache[name]; ok {
		return m
	}

	m = create()
	if err := c.registry.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				m = existing
			}
		}
	}
	cache[name] = m
	return m
}
