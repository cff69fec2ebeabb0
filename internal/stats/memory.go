package stats

import "sync"

// Memory keeps metric values in memory. It backs the run summary
// printed by the CLI and is handy in tests.
type Memory struct {
	mu         sync.Mutex
	counters   map[string]int64
	gauges     map[string]int64
	histograms map[string][]float64
}

var _ Collector = (*Memory)(nil)

// NewMemory creates an empty in-memory collector.
func NewMemory() *Memory {
	return &Memory{
		counters:   make(map[string]int64),
		gauges:     make(map[string]int64),
		histograms: make(map[string][]float64),
	}
}

func (m *Memory) IncCounter(name string, delta int64) {
	m.mu.Lock()
	m.counters[name] += delta
	m.mu.Unlock()
}

func (m *Memory) SetGauge(name string, value int64) {
	m.mu.Lock()
	m.gauges[name] = value
	m.mu.Unlock()
}

func (m *Memory) ObserveHistogram(name string, value float64) {
	m.mu.Lock()
	m.histograms[name] = append(m.histograms[name], value)
	m.mu.Unlock()
}

// Counter returns the current value of a counter.
func (m *Memory) Counter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// Gauge returns the last value set on a gauge.
func (m *Memory) Gauge(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[name]
}

// Samples returns a copy of the observations recorded for a histogram.
func (m *Memory) Samples(name string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.histograms[name]))
	copy(out, m.histograms[name])
	return out
}

// Tee fans every metric out to several collectors.
type Tee []Collector

var _ Collector = Tee(nil)

func (t Tee) IncCounter(name string, delta int64) {
	for _, c := range t {
		c.IncCounter(name, delta)
	}
}

func (t Tee) SetGauge(name string, value int64) {
	for _, c := range t {
		c.SetGauge(name, value)
	}
}

func (t Tee) ObserveHistogram(name string, value float64) {
	for _, c := range t {
		c.ObserveHistogram(name, value)
	}
}
