package search

import (
	"time"

	"github.com/discochess/magics/internal/geometry"
)

// Progress phases.
const (
	PhaseStart     = "start"
	PhaseTick      = "tick"
	PhaseFound     = "found"
	PhaseExhausted = "exhausted"
)

// Event describes the state of one square's search.
type Event struct {
	Phase       string
	Pattern     geometry.Pattern
	Square      geometry.Square
	Attempt     int
	MaxAttempts int
	Relaxed     bool
	Elapsed     time.Duration
}

// Fraction returns the share of the budget consumed, in [0, 1].
func (e Event) Fraction() float64 {
	if e.MaxAttempts <= 0 {
		return 0
	}
	return float64(e.Attempt) / float64(e.MaxAttempts)
}

// ProgressFunc receives search events. It is called from the
// goroutine running the search.
type ProgressFunc func(Event)
