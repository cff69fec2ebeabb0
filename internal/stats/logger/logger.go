// Package logger provides a zap-based stats collector that logs metrics.
package logger

import (
	"go.uber.org/zap"

	"github.com/discochess/magics/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
// Counters are very hot during a search, so they are logged at debug
// level only when the logger has debug enabled.
type Collector struct {
	logger *zap.Logger
	debug  bool
}

var _ stats.Collector = (*Collector)(nil)

// New creates a new logger-based collector.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		logger: logger,
		debug:  logger.Core().Enabled(zap.DebugLevel),
	}
}

// IncCounter logs a counter increment.
func (c *Collector) IncCounter(name string, delta int64) {
	if !c.debug {
		return
	}
	c.logger.Debug("counter", zap.String("metric", name), zap.Int64("delta", delta))
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name string, value int64) {
	c.logger.Debug("gauge", zap.String("metric", name), zap.Int64("value", value))
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.logger.Debug("histogram", zap.String("metric", name), zap.Float64("value", value))
}
