package verify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/multierr"

	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/magictest"
	"github.com/discochess/magics/internal/perfecthash"
	"github.com/discochess/magics/internal/search"
)

// clone copies a fixture descriptor so tests can corrupt it.
func clone(p geometry.Pattern, sq geometry.Square) *search.Descriptor {
	d := *magictest.Get(p, sq)
	d.Attacks = append(perfecthash.Table(nil), d.Attacks...)
	return &d
}

func TestVerifier_AllFixtures(t *testing.T) {
	v := New(WithOracle(64))
	if err := v.All(context.Background(), magictest.Descriptors()); err != nil {
		t.Fatalf("All() error = %v", err)
	}
}

func TestVerifier_Corrupted(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(*search.Descriptor)
		want    error
	}{
		{"flipped attack", func(d *search.Descriptor) {
			for i := range d.Attacks {
				d.Attacks[i] ^= 1
			}
		}, ErrMismatch},
		{"wrong magic", func(d *search.Descriptor) { d.Magic = 0 }, ErrMismatch},
		{"wrong mask", func(d *search.Descriptor) { d.Mask = 0 }, ErrShape},
		{"short table", func(d *search.Descriptor) { d.Attacks = d.Attacks[:1] }, ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := clone(geometry.Rook, 27)
			tt.corrupt(d)
			if err := New().Descriptor(d); !errors.Is(err, tt.want) {
				t.Errorf("Descriptor() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestVerifier_MismatchDetails(t *testing.T) {
	d := clone(geometry.Bishop, 0)
	for i := range d.Attacks {
		d.Attacks[i] = 0
	}
	var mm *MismatchError
	if err := New().Descriptor(d); !errors.As(err, &mm) {
		t.Fatalf("Descriptor() error = %v, want *MismatchError", err)
	}
	if mm.Square != 0 || mm.Pattern != geometry.Bishop || mm.Oracle {
		t.Errorf("MismatchError = %+v", mm)
	}
	if mm.Want != geometry.AttackSet(0, geometry.Bishop, mm.Occupancy) {
		t.Errorf("Want = %#x, not the ray-cast attack set", uint64(mm.Want))
	}
}

func TestVerifier_AggregatesFailures(t *testing.T) {
	ds := []*search.Descriptor{clone(geometry.Rook, 0), clone(geometry.Rook, 1), clone(geometry.Bishop, 2)}
	ds[0].Magic = 0
	ds[2].Mask = 0

	err := New().All(context.Background(), ds)
	if n := len(multierr.Errors(err)); n != 2 {
		t.Fatalf("All() aggregated %d errors, want 2: %v", n, err)
	}
	if !errors.Is(err, ErrMismatch) || !errors.Is(err, ErrShape) {
		t.Errorf("All() error = %v, want both ErrMismatch and ErrShape", err)
	}
}

func TestVerifier_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().All(ctx, magictest.Descriptors()); !errors.Is(err, context.Canceled) {
		t.Errorf("All() error = %v, want %v", err, context.Canceled)
	}
}
