// Package magics provides attack lookups for sliding pieces through
// pre-computed magic bitboard tables.
//
// Example usage:
//
//	dataDir, err := magics.WithDataDir("/path/to/data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, err := magics.Open(ctx, dataDir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer table.Close()
//
//	d4, _ := magics.ParseSquare("d4")
//	attacks := table.RookAttacks(d4, occupied)
package magics

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/fen"
	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/search"
	"github.com/discochess/magics/internal/stats"
	"github.com/discochess/magics/internal/store"
	"github.com/discochess/magics/internal/verify"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNotFound indicates the store holds no descriptor set.
	ErrNotFound = errors.New("magics: descriptor set not found")

	// ErrClosed indicates the table has been closed.
	ErrClosed = errors.New("magics: table closed")

	// ErrNoStore indicates no store was provided.
	ErrNoStore = errors.New("magics: no store provided")
)

type (
	// Square is a board square, 0 = a1 through 63 = h8.
	Square = geometry.Square
	// Bitboard is a set of squares, bit i for square i.
	Bitboard = geometry.Bitboard
	// Pattern is a sliding movement pattern.
	Pattern = geometry.Pattern
	// Manifest describes how a descriptor set was produced.
	Manifest = artifact.Manifest
)

// Sliding patterns.
const (
	Rook   = geometry.Rook
	Bishop = geometry.Bishop
)

// ParseSquare parses algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	return geometry.ParseSquare(s)
}

// OccupancyFromFEN returns the occupied squares of a FEN position.
func OccupancyFromFEN(s string) (Bitboard, error) {
	return fen.Occupancy(s)
}

// Magic describes the hash of one square, without its table.
type Magic struct {
	Pattern Pattern
	Square  Square
	Magic   uint64
	Shift   uint
	Bits    uint
	Mask    Bitboard
	// Entries is the table length, 2^Bits.
	Entries int
	// Attempts is the attempt at which the magic was found.
	Attempts int
}

// Table answers attack queries from a loaded descriptor set.
// A Table is safe for concurrent use by multiple goroutines.
type Table struct {
	store       store.Store
	manifest    Manifest
	descriptors [2][geometry.NumSquares]*search.Descriptor
	stats       stats.Collector
	logger      *zap.Logger
	closed      atomic.Bool
}

// Open loads the descriptor set from the configured store.
func Open(ctx context.Context, opts ...Option) (*Table, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.store == nil {
		return nil, ErrNoStore
	}

	set, err := artifact.Load(ctx, cfg.store, cfg.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, err
	}
	cfg.stats.IncCounter(stats.MetricLoads, 1)

	t := &Table{
		store:    cfg.store,
		manifest: set.Manifest,
		stats:    cfg.stats,
		logger:   cfg.logger,
	}
	for _, d := range set.Descriptors() {
		t.descriptors[d.Pattern][d.Square] = d
	}

	t.logger.Debug("table loaded",
		zap.String("runID", t.manifest.RunID),
		zap.Uint64("seed", t.manifest.Seed),
		zap.Int("entries", set.TableEntries()),
	)
	return t, nil
}

// Attacks returns the squares attacked by p from sq given the board
// occupancy. Blockers are included; squares behind them are not.
func (t *Table) Attacks(p Pattern, sq Square, occ Bitboard) Bitboard {
	return t.descriptors[p][sq].Lookup(occ)
}

// RookAttacks returns the orthogonal attacks from sq.
func (t *Table) RookAttacks(sq Square, occ Bitboard) Bitboard {
	return t.descriptors[Rook][sq].Lookup(occ)
}

// BishopAttacks returns the diagonal attacks from sq.
func (t *Table) BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return t.descriptors[Bishop][sq].Lookup(occ)
}

// QueenAttacks returns the union of rook and bishop attacks from sq.
func (t *Table) QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return t.RookAttacks(sq, occ) | t.BishopAttacks(sq, occ)
}

// Magic returns the hash parameters for p on sq.
func (t *Table) Magic(p Pattern, sq Square) Magic {
	d := t.descriptors[p][sq]
	return Magic{
		Pattern:  d.Pattern,
		Square:   d.Square,
		Magic:    d.Magic,
		Shift:    d.Shift,
		Bits:     d.Bits,
		Mask:     d.Mask,
		Entries:  len(d.Attacks),
		Attempts: d.Attempts,
	}
}

// Manifest returns the manifest of the loaded set.
func (t *Table) Manifest() Manifest {
	return t.manifest
}

// Verify checks every table against the ray-cast attacks over its full
// occupancy space.
func (t *Table) Verify(ctx context.Context) error {
	if t.closed.Load() {
		return ErrClosed
	}
	ds := make([]*search.Descriptor, 0, 2*geometry.NumSquares)
	for _, p := range geometry.Patterns {
		ds = append(ds, t.descriptors[p][:]...)
	}
	return verify.New(verify.WithLogger(t.logger)).All(ctx, ds)
}

// Close releases the underlying store. Lookups keep working on the
// loaded tables.
func (t *Table) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if err := t.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// Store returns the storage backend the table was loaded from.
func (t *Table) Store() store.Store {
	return t.store
}
