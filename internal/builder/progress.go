package builder

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/discochess/magics/internal/search"
)

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// NewPrinter returns a progress callback writing to w. With one worker
// it prints one line per square that fills with a dot every tenth of
// the budget:
//
//	rook a1......found in 6,015,233 attempts
//
// With several workers the dots would interleave, so only finished
// squares are printed, each on its own line.
func NewPrinter(w io.Writer, workers int) search.ProgressFunc {
	if workers > 1 {
		return func(ev search.Event) {
			switch ev.Phase {
			case search.PhaseFound, search.PhaseExhausted:
				fmt.Fprintf(w, "%s %s: %s (%s)\n", ev.Pattern, ev.Square, outcome(ev), FormatDuration(ev.Elapsed))
			}
		}
	}
	return func(ev search.Event) {
		switch ev.Phase {
		case search.PhaseStart:
			fmt.Fprintf(w, "%s %s..", ev.Pattern, ev.Square)
		case search.PhaseTick:
			fmt.Fprint(w, ".")
		case search.PhaseFound, search.PhaseExhausted:
			fmt.Fprintln(w, outcome(ev))
		}
	}
}

func outcome(ev search.Event) string {
	switch {
	case ev.Phase == search.PhaseExhausted:
		return "failed"
	case ev.Relaxed:
		return fmt.Sprintf("found (+1 bit) in %s attempts", humanize.Comma(int64(ev.Attempt)))
	default:
		return fmt.Sprintf("found in %s attempts", humanize.Comma(int64(ev.Attempt)))
	}
}

// DefaultProgressFunc prints sequential progress to stderr.
var DefaultProgressFunc = NewPrinter(os.Stderr, 1)
