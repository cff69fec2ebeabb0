// Package verify checks descriptors against the ray-cast ground truth
// over their full occupancy space, and optionally against an
// independent move generator on random full-board occupancies.
package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/dylhunn/dragontoothmg"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/occupancy"
	"github.com/discochess/magics/internal/search"
)

var (
	// ErrMismatch indicates a lookup disagreed with the expected attacks.
	ErrMismatch = errors.New("verify: attack mismatch")

	// ErrShape indicates a descriptor whose mask or table size is wrong.
	ErrShape = errors.New("verify: malformed descriptor")
)

// MismatchError reports the first occupancy a descriptor got wrong.
type MismatchError struct {
	Pattern   geometry.Pattern
	Square    geometry.Square
	Occupancy geometry.Bitboard
	Got       geometry.Bitboard
	Want      geometry.Bitboard
	Oracle    bool
}

func (e *MismatchError) Error() string {
	src := "ray cast"
	if e.Oracle {
		src = "dragontoothmg"
	}
	return fmt.Sprintf("verify: %s %s occupancy %#x: got %#x, %s says %#x",
		e.Pattern, e.Square, uint64(e.Occupancy), uint64(e.Got), src, uint64(e.Want))
}

// Unwrap lets errors.Is match ErrMismatch.
func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// Verifier checks descriptors.
type Verifier struct {
	oracleSamples int
	src           search.Source
	logger        *zap.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithOracle sets how many random full-board occupancies per descriptor
// are compared against dragontoothmg. Zero disables the cross-check.
func WithOracle(samples int) Option {
	return func(v *Verifier) { v.oracleSamples = samples }
}

// WithSource sets the random stream for oracle samples.
func WithSource(src search.Source) Option {
	return func(v *Verifier) { v.src = src }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Verifier) { v.logger = l }
}

// New creates a Verifier.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		src:    search.NewSource(0x766572696679, 0),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Descriptor checks that d reproduces the attack set of every subset of
// its mask, and that its shape matches the board geometry.
func (v *Verifier) Descriptor(d *search.Descriptor) error {
	mask := geometry.RelevantMask(d.Square, d.Pattern)
	if d.Mask != mask {
		return fmt.Errorf("%w: %s %s mask %#x, want %#x", ErrShape, d.Pattern, d.Square, uint64(d.Mask), uint64(mask))
	}
	if d.Bits >= 64 || len(d.Attacks) != 1<<d.Bits {
		return fmt.Errorf("%w: %s %s has %d slots for %d bits", ErrShape, d.Pattern, d.Square, len(d.Attacks), d.Bits)
	}

	for _, occ := range occupancy.Enumerate(mask) {
		want := geometry.AttackSet(d.Square, d.Pattern, occ)
		if got := d.Lookup(occ); got != want {
			return &MismatchError{Pattern: d.Pattern, Square: d.Square, Occupancy: occ, Got: got, Want: want}
		}
	}

	for i := 0; i < v.oracleSamples; i++ {
		occ := geometry.Bitboard(search.Candidate(v.src) | search.Candidate(v.src))
		want := oracle(d.Pattern, d.Square, occ)
		if got := d.Lookup(occ); got != want {
			return &MismatchError{Pattern: d.Pattern, Square: d.Square, Occupancy: occ, Got: got, Want: want, Oracle: true}
		}
	}
	return nil
}

// All checks every descriptor and returns all failures combined.
func (v *Verifier) All(ctx context.Context, ds []*search.Descriptor) error {
	var errs error
	for _, d := range ds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.Descriptor(d); err != nil {
			v.logger.Warn("descriptor failed verification",
				zap.Stringer("pattern", d.Pattern),
				zap.Stringer("square", d.Square),
				zap.Error(err),
			)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func oracle(p geometry.Pattern, sq geometry.Square, occ geometry.Bitboard) geometry.Bitboard {
	if p == geometry.Bishop {
		return geometry.Bitboard(dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), uint64(occ)))
	}
	return geometry.Bitboard(dragontoothmg.CalculateRookMoveBitboard(uint8(sq), uint64(occ)))
}
