// Package builder drives the magic search over every square of both
// patterns and collects the resulting descriptors.
package builder

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/search"
	"github.com/discochess/magics/internal/stats"
)

// SourceFactory returns the random stream for one job.
type SourceFactory func(seed uint64, job int) search.Source

// DefaultSourceFactory gives every job its own PCG stream keyed by the
// job index, so results do not depend on scheduling.
func DefaultSourceFactory(seed uint64, job int) search.Source {
	return search.NewSource(seed, uint64(job))
}

// Job is one (pattern, square) search.
type Job struct {
	Index   int
	Pattern geometry.Pattern
	Square  geometry.Square
}

// Builder runs the search for every job.
type Builder struct {
	maxAttempts int
	relax       bool
	seed        uint64
	workers     int
	failFast    bool
	patterns    []geometry.Pattern
	sources     SourceFactory
	progress    search.ProgressFunc
	stats       stats.Collector
	logger      *zap.Logger

	// find runs one job; replaced in tests.
	find func(ctx context.Context, job Job, src search.Source) (*search.Descriptor, error)
}

// Option configures the Builder.
type Option func(*Builder)

// WithMaxAttempts sets the per-square attempt budget.
func WithMaxAttempts(n int) Option {
	return func(b *Builder) { b.maxAttempts = n }
}

// WithRelaxation enables the extra-bit retry past half the budget.
func WithRelaxation(enabled bool) Option {
	return func(b *Builder) { b.relax = enabled }
}

// WithSeed fixes the run seed. Zero picks a random seed, which is
// still reported in the Result.
func WithSeed(seed uint64) Option {
	return func(b *Builder) { b.seed = seed }
}

// WithWorkers sets how many squares are searched concurrently.
func WithWorkers(n int) Option {
	return func(b *Builder) { b.workers = n }
}

// WithFailFast controls whether the first exhausted square aborts the
// run (the default) or every square is attempted and all failures are
// returned together.
func WithFailFast(enabled bool) Option {
	return func(b *Builder) { b.failFast = enabled }
}

// WithPatterns restricts the run to the given patterns.
func WithPatterns(ps ...geometry.Pattern) Option {
	return func(b *Builder) { b.patterns = ps }
}

// WithSourceFactory sets how per-job random streams are created.
func WithSourceFactory(f SourceFactory) Option {
	return func(b *Builder) { b.sources = f }
}

// WithProgress sets the progress callback. Calls are serialized.
func WithProgress(fn search.ProgressFunc) Option {
	return func(b *Builder) { b.progress = fn }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(b *Builder) { b.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a new Builder with the given options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		maxAttempts: search.DefaultMaxAttempts,
		relax:       true,
		workers:     1,
		failFast:    true,
		patterns:    geometry.Patterns[:],
		sources:     DefaultSourceFactory,
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.workers < 1 {
		b.workers = 1
	}
	if b.seed == 0 {
		b.seed = rand.Uint64()
	}
	if fn := b.progress; fn != nil {
		var mu sync.Mutex
		b.progress = func(ev search.Event) {
			mu.Lock()
			defer mu.Unlock()
			fn(ev)
		}
	}
	b.find = b.search
	return b
}

// Seed returns the run seed.
func (b *Builder) Seed() uint64 {
	return b.seed
}

// Jobs lists the jobs in run order: every square of the first pattern,
// then every square of the next.
func (b *Builder) Jobs() []Job {
	jobs := make([]Job, 0, len(b.patterns)*geometry.NumSquares)
	for _, p := range b.patterns {
		for sq := geometry.Square(0); sq < geometry.NumSquares; sq++ {
			jobs = append(jobs, Job{Index: len(jobs), Pattern: p, Square: sq})
		}
	}
	return jobs
}

// Build searches every job. In fail-fast mode the first error cancels
// the remaining jobs and is returned alone. Otherwise the Result holds
// every found descriptor and the error aggregates all failures.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	jobs := b.Jobs()
	descriptors := make([]*search.Descriptor, len(jobs))

	log := b.logger.Named("builder")
	log.Info("build started",
		zap.Uint64("seed", b.seed),
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", b.workers),
		zap.Int("maxAttempts", b.maxAttempts),
		zap.Bool("relaxation", b.relax),
	)

	var g *errgroup.Group
	gctx := ctx
	if b.failFast {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}
	g.SetLimit(b.workers)

	var (
		mu       sync.Mutex
		done     int64
		failures error
	)
	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			d, err := b.find(gctx, job, b.sources(b.seed, job.Index))

			mu.Lock()
			defer mu.Unlock()
			done++
			b.stats.SetGauge(stats.MetricSquaresDone, done)
			if err != nil {
				if b.failFast || !errors.Is(err, search.ErrExhausted) {
					return fmt.Errorf("%s %s: %w", job.Pattern, job.Square, err)
				}
				failures = multierr.Append(failures, err)
				return nil
			}
			descriptors[job.Index] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("build failed", zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &Result{
		Descriptors: descriptors,
		Manifest: artifact.Manifest{
			Version:     artifact.FormatVersion,
			RunID:       uuid.NewString(),
			Seed:        b.seed,
			MaxAttempts: b.maxAttempts,
			Relaxation:  b.relax,
			Workers:     b.workers,
			BuiltAt:     start.UTC(),
			ElapsedMS:   time.Since(start).Milliseconds(),
		},
	}
	for _, d := range descriptors {
		if d == nil {
			continue
		}
		r.Manifest.Squares++
		r.Manifest.TableEntries += len(d.Attacks)
		if d.Relaxed {
			r.Manifest.Relaxed++
		}
	}

	log.Info("build finished",
		zap.Int("found", r.Manifest.Squares),
		zap.Int("relaxed", r.Manifest.Relaxed),
		zap.Duration("elapsed", r.Manifest.Elapsed()),
	)
	return r, failures
}

func (b *Builder) search(ctx context.Context, job Job, src search.Source) (*search.Descriptor, error) {
	s := search.New(
		search.WithMaxAttempts(b.maxAttempts),
		search.WithRelaxation(b.relax),
		search.WithSource(src),
		search.WithStats(b.stats),
		search.WithLogger(b.logger.Named("search")),
		search.WithProgress(b.progress),
	)
	return s.Search(ctx, job.Square, job.Pattern)
}
