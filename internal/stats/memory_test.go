package stats

import "testing"

func TestMemory(t *testing.T) {
	m := NewMemory()
	m.IncCounter(MetricCandidates, 3)
	m.IncCounter(MetricCandidates, 2)
	m.SetGauge(MetricSquaresDone, 7)
	m.ObserveHistogram(MetricAttempts, 1.5)
	m.ObserveHistogram(MetricAttempts, 2.5)

	if got := m.Counter(MetricCandidates); got != 5 {
		t.Errorf("Counter() = %d, want 5", got)
	}
	if got := m.Gauge(MetricSquaresDone); got != 7 {
		t.Errorf("Gauge() = %d, want 7", got)
	}
	if got := m.Samples(MetricAttempts); len(got) != 2 || got[1] != 2.5 {
		t.Errorf("Samples() = %v, want [1.5 2.5]", got)
	}
}

func TestTee(t *testing.T) {
	a, b := NewMemory(), NewMemory()
	tee := Tee{a, b, NewNoop()}
	tee.IncCounter(MetricFound, 1)
	tee.SetGauge(MetricCacheItems, 4)
	tee.ObserveHistogram(MetricSearchSeconds, 0.25)

	for i, m := range []*Memory{a, b} {
		if m.Counter(MetricFound) != 1 || m.Gauge(MetricCacheItems) != 4 || len(m.Samples(MetricSearchSeconds)) != 1 {
			t.Errorf("collector %d did not receive every metric", i)
		}
	}
}
