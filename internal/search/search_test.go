package search

import (
	"context"
	"errors"
	"math/bits"
	"testing"

	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/occupancy"
	"github.com/discochess/magics/internal/perfecthash"
	"github.com/discochess/magics/internal/stats"
)

// a1BishopMagic moves each of the six a1-h8 diagonal mask bits onto
// bits 58..63 without any carries, so it is a perfect hash at shift 58.
const a1BishopMagic = 0x0002020202020200

// a1BishopMagicLow lands the same bits on 57..62, leaving room for a
// one-bit wider table at shift 57.
const a1BishopMagicLow = a1BishopMagic >> 1

// fixedSource always returns the same value, so Candidate returns it too.
type fixedSource uint64

func (f fixedSource) Uint64() uint64 { return uint64(f) }

func assertRoundTrip(t *testing.T, d *Descriptor) {
	t.Helper()
	for _, occ := range occupancy.Enumerate(d.Mask) {
		if got, want := d.Lookup(occ), geometry.AttackSet(d.Square, d.Pattern, occ); got != want {
			t.Fatalf("Lookup(%#x) = %#x, want %#x", uint64(occ), uint64(got), uint64(want))
		}
	}
}

func TestSearch_FindsConstructedMagic(t *testing.T) {
	s := New(
		WithSource(fixedSource(a1BishopMagic)),
		WithMaxAttempts(10),
		WithRelaxation(false),
	)

	d, err := s.Search(context.Background(), 0, geometry.Bishop)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if d.Magic != a1BishopMagic {
		t.Errorf("Magic = %#x, want %#x", d.Magic, uint64(a1BishopMagic))
	}
	if d.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", d.Attempts)
	}
	if d.Mask != geometry.RelevantMask(0, geometry.Bishop) {
		t.Errorf("Mask = %#x, want the relevant mask", uint64(d.Mask))
	}
	if d.Bits != 6 || len(d.Attacks) != 64 {
		t.Errorf("Bits = %d, len(Attacks) = %d; want 6 and 64", d.Bits, len(d.Attacks))
	}
	if d.Relaxed {
		t.Error("Relaxed = true with relaxation disabled")
	}
	if d.Shift > 64-d.Bits {
		t.Errorf("Shift = %d exceeds %d", d.Shift, 64-d.Bits)
	}
	assertRoundTrip(t, d)
}

func TestSearch_Exhausted(t *testing.T) {
	mem := stats.NewMemory()
	s := New(
		WithSource(fixedSource(0)),
		WithMaxAttempts(25),
		WithStats(mem),
	)

	_, err := s.Search(context.Background(), 0, geometry.Rook)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Search() error = %v, want ErrExhausted", err)
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Search() error = %T, want *ExhaustedError", err)
	}
	if exhausted.Square != 0 || exhausted.Pattern != geometry.Rook || exhausted.Attempts != 25 {
		t.Errorf("ExhaustedError = %+v", exhausted)
	}

	if got := mem.Counter(stats.MetricCandidates); got != 25 {
		t.Errorf("candidates = %d, want 25", got)
	}
	if got := mem.Counter(stats.MetricTableBuilds); got != 0 {
		t.Errorf("table builds = %d, want 0 (magic 0 never passes the prefilter)", got)
	}
	if got := mem.Counter(stats.MetricExhausted); got != 1 {
		t.Errorf("exhausted = %d, want 1", got)
	}
}

// relaxOnly fails every exact-width build and accepts the widened one.
func relaxOnly(exact uint, calls *[]uint) buildFunc {
	return func(magic uint64, shift, width uint, occs, attacks []geometry.Bitboard) (perfecthash.Table, bool) {
		*calls = append(*calls, width)
		if width == exact {
			return nil, false
		}
		return perfecthash.Table(make([]geometry.Bitboard, 1<<width)), true
	}
}

func TestSearch_RelaxationAfterHalfBudget(t *testing.T) {
	var calls []uint
	s := New(
		WithSource(fixedSource(a1BishopMagicLow)),
		WithMaxAttempts(10),
		WithRelaxation(true),
	)
	s.build = relaxOnly(6, &calls)

	d, err := s.Search(context.Background(), 0, geometry.Bishop)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !d.Relaxed {
		t.Error("Relaxed = false, want true")
	}
	if d.Attempts != 6 {
		t.Errorf("Attempts = %d, want 6 (first attempt past half of 10)", d.Attempts)
	}
	if d.Bits != 7 || len(d.Attacks) != 128 {
		t.Errorf("Bits = %d, len(Attacks) = %d; want 7 and 128", d.Bits, len(d.Attacks))
	}
	if d.Shift != 57 {
		t.Errorf("Shift = %d, want 57", d.Shift)
	}
	if d.Shift+d.Bits > 64 {
		t.Errorf("Shift = %d leaves fewer than %d product bits", d.Shift, d.Bits)
	}
	for i, w := range calls[:len(calls)-1] {
		if w != 6 {
			t.Fatalf("call %d used width %d before the relaxed success", i, w)
		}
	}
}

func TestSearch_RelaxationWithRealBuild(t *testing.T) {
	s := New(
		WithSource(fixedSource(a1BishopMagicLow)),
		WithMaxAttempts(4),
		WithRelaxation(true),
	)
	d, err := s.Search(context.Background(), 0, geometry.Bishop)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// The exact-width table is already perfect at shift 57.
	if d.Relaxed || d.Bits != 6 || len(d.Attacks) != 64 {
		t.Errorf("Relaxed = %v, Bits = %d, len(Attacks) = %d; want exact 6-bit table", d.Relaxed, d.Bits, len(d.Attacks))
	}
	assertRoundTrip(t, d)
}

func TestSearch_NoRelaxationAtTopShift(t *testing.T) {
	var calls []uint
	s := New(
		WithSource(fixedSource(a1BishopMagic)),
		WithMaxAttempts(10),
		WithRelaxation(true),
	)
	s.build = relaxOnly(6, &calls)

	if _, err := s.Search(context.Background(), 0, geometry.Bishop); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Search() error = %v, want ErrExhausted", err)
	}
	if len(calls) != 10 {
		t.Errorf("build calls = %d, want 10 exact-width builds at shift 58", len(calls))
	}
	for _, w := range calls {
		if w != 6 {
			t.Fatalf("build called with width %d at shift 58", w)
		}
	}
}

func TestSearch_NoRelaxationWhenDisabled(t *testing.T) {
	var calls []uint
	s := New(
		WithSource(fixedSource(a1BishopMagicLow)),
		WithMaxAttempts(10),
		WithRelaxation(false),
	)
	s.build = relaxOnly(6, &calls)

	if _, err := s.Search(context.Background(), 0, geometry.Bishop); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Search() error = %v, want ErrExhausted", err)
	}
	if len(calls) == 0 {
		t.Fatal("build never called, want exact-width attempts")
	}
	for _, w := range calls {
		if w != 6 {
			t.Fatalf("build called with width %d while relaxation is disabled", w)
		}
	}
}

func TestSearch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(WithSource(fixedSource(0)), WithMaxAttempts(1000))
	if _, err := s.Search(ctx, 0, geometry.Rook); !errors.Is(err, context.Canceled) {
		t.Errorf("Search() error = %v, want context.Canceled", err)
	}
}

func TestSearch_Progress(t *testing.T) {
	var events []Event
	s := New(
		WithSource(fixedSource(0)),
		WithMaxAttempts(20),
		WithProgress(func(e Event) { events = append(events, e) }),
	)
	_, _ = s.Search(context.Background(), 9, geometry.Bishop)

	if len(events) < 3 {
		t.Fatalf("got %d events, want start, ticks and exhausted", len(events))
	}
	if events[0].Phase != PhaseStart {
		t.Errorf("first phase = %q, want %q", events[0].Phase, PhaseStart)
	}
	last := events[len(events)-1]
	if last.Phase != PhaseExhausted || last.Fraction() != 1 {
		t.Errorf("last event = %+v, want exhausted at fraction 1", last)
	}

	ticks := 0
	for _, e := range events {
		if e.Phase == PhaseTick {
			ticks++
			if e.Square != 9 || e.Pattern != geometry.Bishop {
				t.Errorf("tick for %v %v, want b2 bishop", e.Pattern, e.Square)
			}
		}
	}
	if ticks != 10 {
		t.Errorf("ticks = %d, want 10", ticks)
	}
}

func TestCandidate_Sparse(t *testing.T) {
	src := NewSource(1, 2)
	const n = 10000
	total := 0
	for i := 0; i < n; i++ {
		total += bits.OnesCount64(Candidate(src))
	}
	// Each bit is set with probability 1/8, so 8 bits on average.
	if avg := float64(total) / n; avg < 7 || avg > 9 {
		t.Errorf("average popcount = %.2f, want about 8", avg)
	}
}

func TestNewSource_Deterministic(t *testing.T) {
	a, b := NewSource(42, 7), NewSource(42, 7)
	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatal("same seed produced different streams")
		}
	}
}

func TestDescriptor_LookupIgnoresIrrelevantSquares(t *testing.T) {
	s := New(WithSource(fixedSource(a1BishopMagic)), WithMaxAttempts(1), WithRelaxation(false))
	d, err := s.Search(context.Background(), 0, geometry.Bishop)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// h8 is on the diagonal but outside the mask; a8 is off the diagonal.
	noise := geometry.SquareBB(63) | geometry.SquareBB(56)
	if got, want := d.Lookup(noise), geometry.AttackSet(0, geometry.Bishop, 0); got != want {
		t.Errorf("Lookup(noise) = %#x, want %#x", uint64(got), uint64(want))
	}
}
