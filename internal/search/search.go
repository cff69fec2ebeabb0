// Package search implements the randomized magic-number search for a
// single square.
package search

import (
	"context"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/occupancy"
	"github.com/discochess/magics/internal/perfecthash"
	"github.com/discochess/magics/internal/stats"
)

const (
	// DefaultMaxAttempts is the per-square budget: 100 million, as the
	// CLI default of 100 (millions).
	DefaultMaxAttempts = 100_000_000

	// cancelCheckInterval is how often, in attempts, ctx is polled.
	cancelCheckInterval = 1 << 14
)

// Source yields uniformly distributed 64-bit values.
// *rand.Rand satisfies it.
type Source interface {
	Uint64() uint64
}

// Candidate draws a sparse magic candidate: the AND of three
// independent draws, so each bit is set with probability 1/8.
func Candidate(src Source) uint64 {
	return src.Uint64() & src.Uint64() & src.Uint64()
}

// NewSource returns a PCG stream for the given seed pair.
func NewSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

type buildFunc func(magic uint64, shift, width uint, occs, attacks []geometry.Bitboard) (perfecthash.Table, bool)

// Searcher finds magics. A Searcher owns its random stream and is not
// safe for concurrent use; run one per worker.
type Searcher struct {
	maxAttempts int
	relax       bool
	src         Source
	stats       stats.Collector
	logger      *zap.Logger
	progress    ProgressFunc

	build buildFunc
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithMaxAttempts sets the number of candidates tried per square.
func WithMaxAttempts(n int) Option {
	return func(s *Searcher) { s.maxAttempts = n }
}

// WithRelaxation enables retrying a promising (magic, shift) pair with
// one extra index bit once half the budget is spent.
func WithRelaxation(enabled bool) Option {
	return func(s *Searcher) { s.relax = enabled }
}

// WithSource sets the random stream candidates are drawn from.
func WithSource(src Source) Option {
	return func(s *Searcher) { s.src = src }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(s *Searcher) { s.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Searcher) { s.logger = l }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Searcher) { s.progress = fn }
}

// New creates a Searcher. Without WithSource it draws from a randomly
// seeded PCG stream.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		maxAttempts: DefaultMaxAttempts,
		relax:       true,
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
		build:       perfecthash.Build,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = NewSource(rand.Uint64(), rand.Uint64())
	}
	return s
}

// counters batches hot-loop metrics between flushes.
type counters struct {
	candidates, rejects, builds, collisions int64
}

func (s *Searcher) flush(c *counters) {
	s.stats.IncCounter(stats.MetricCandidates, c.candidates)
	s.stats.IncCounter(stats.MetricPrefilterRejects, c.rejects)
	s.stats.IncCounter(stats.MetricTableBuilds, c.builds)
	s.stats.IncCounter(stats.MetricCollisions, c.collisions)
	*c = counters{}
}

// Search looks for a magic for p on sq. It returns an *ExhaustedError
// when the budget runs out, or ctx.Err() if ctx is cancelled first.
func (s *Searcher) Search(ctx context.Context, sq geometry.Square, p geometry.Pattern) (*Descriptor, error) {
	start := time.Now()

	mask := geometry.RelevantMask(sq, p)
	occs := occupancy.Enumerate(mask)
	attacks := occupancy.Attacks(sq, p, occs)
	width := occupancy.Bits(mask)

	log := s.logger.With(zap.Stringer("pattern", p), zap.Stringer("square", sq))
	log.Debug("search started",
		zap.Uint("bits", width),
		zap.Int("occupancies", len(occs)),
		zap.Int("maxAttempts", s.maxAttempts),
	)

	ev := Event{Pattern: p, Square: sq, MaxAttempts: s.maxAttempts}
	s.report(ev, PhaseStart, 0, start)

	tick := s.maxAttempts / 10
	if tick == 0 {
		tick = 1
	}

	var c counters
	defer s.flush(&c)

	for i := 0; i < s.maxAttempts; i++ {
		if i%tick == 0 {
			s.report(ev, PhaseTick, i, start)
		}
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s.flush(&c)
		}

		magic := Candidate(s.src)
		c.candidates++
		relaxNow := s.relax && i > s.maxAttempts/2

		for shift := uint(0); shift <= 64-width; shift++ {
			probe := perfecthash.Hash(mask, magic, shift, width)
			if uint(bits.OnesCount64(probe)) < width {
				c.rejects++
				continue
			}

			c.builds++
			if table, ok := s.build(magic, shift, width, occs, attacks); ok {
				return s.found(ev, &Descriptor{
					Pattern: p, Square: sq,
					Magic: magic, Shift: shift, Bits: width, Mask: mask,
					Attacks: table, Attempts: i,
				}, start, log), nil
			}
			c.collisions++

			// A relaxed table still needs 64-shift >= bits.
			if relaxNow && shift+width+1 <= 64 {
				c.builds++
				if table, ok := s.build(magic, shift, width+1, occs, attacks); ok {
					return s.found(ev, &Descriptor{
						Pattern: p, Square: sq,
						Magic: magic, Shift: shift, Bits: width + 1, Mask: mask,
						Attacks: table, Attempts: i, Relaxed: true,
					}, start, log), nil
				}
				c.collisions++
			}
		}
	}

	s.stats.IncCounter(stats.MetricExhausted, 1)
	s.report(ev, PhaseExhausted, s.maxAttempts, start)
	log.Warn("search exhausted", zap.Duration("elapsed", time.Since(start)))

	return nil, &ExhaustedError{Pattern: p, Square: sq, Attempts: s.maxAttempts}
}

func (s *Searcher) found(ev Event, d *Descriptor, start time.Time, log *zap.Logger) *Descriptor {
	elapsed := time.Since(start)

	s.stats.IncCounter(stats.MetricFound, 1)
	if d.Relaxed {
		s.stats.IncCounter(stats.MetricRelaxed, 1)
	}
	s.stats.ObserveHistogram(stats.MetricAttempts, float64(d.Attempts))
	s.stats.ObserveHistogram(stats.MetricSearchSeconds, elapsed.Seconds())

	ev.Relaxed = d.Relaxed
	s.report(ev, PhaseFound, d.Attempts, start)

	log.Debug("magic found",
		zap.String("magic", fmt.Sprintf("0x%016x", d.Magic)),
		zap.Uint("shift", d.Shift),
		zap.Uint("bits", d.Bits),
		zap.Int("attempts", d.Attempts),
		zap.Bool("relaxed", d.Relaxed),
		zap.Duration("elapsed", elapsed),
	)
	return d
}

func (s *Searcher) report(ev Event, phase string, attempt int, start time.Time) {
	if s.progress == nil {
		return
	}
	ev.Phase = phase
	ev.Attempt = attempt
	ev.Elapsed = time.Since(start)
	s.progress(ev)
}
