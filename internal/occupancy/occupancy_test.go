package occupancy

import (
	"testing"

	"github.com/discochess/magics/internal/geometry"
)

func TestEnumerate_PowerSet(t *testing.T) {
	for _, p := range geometry.Patterns {
		for sq := geometry.Square(0); sq < geometry.NumSquares; sq++ {
			mask := geometry.RelevantMask(sq, p)
			occs := Enumerate(mask)

			if want := 1 << mask.PopCount(); len(occs) != want {
				t.Fatalf("%v %v: len(Enumerate) = %d, want %d", p, sq, len(occs), want)
			}

			seen := make(map[geometry.Bitboard]struct{}, len(occs))
			for _, occ := range occs {
				if occ&^mask != 0 {
					t.Fatalf("%v %v: occupancy %#x is not a subset of %#x", p, sq, uint64(occ), uint64(mask))
				}
				if _, dup := seen[occ]; dup {
					t.Fatalf("%v %v: duplicate occupancy %#x", p, sq, uint64(occ))
				}
				seen[occ] = struct{}{}
			}

			// Every subset built directly from the mask's bit positions is present.
			squares := mask.Squares()
			for i := 0; i < len(occs); i++ {
				var subset geometry.Bitboard
				for j, s := range squares {
					if i&(1<<j) != 0 {
						subset |= geometry.SquareBB(s)
					}
				}
				if _, ok := seen[subset]; !ok {
					t.Fatalf("%v %v: subset %#x missing", p, sq, uint64(subset))
				}
			}
		}
	}
}

func TestEnumerate_MatchesSubset(t *testing.T) {
	mask := geometry.RelevantMask(0, geometry.Rook) // 12 bits, the worst case.
	occs := Enumerate(mask)
	for i, occ := range occs {
		if got := Subset(i, mask); got != occ {
			t.Fatalf("Subset(%d) = %#x, Enumerate()[%d] = %#x", i, uint64(got), i, uint64(occ))
		}
	}
	if occs[0] != 0 {
		t.Errorf("first occupancy = %#x, want 0", uint64(occs[0]))
	}
	if occs[len(occs)-1] != mask {
		t.Errorf("last occupancy = %#x, want the full mask %#x", uint64(occs[len(occs)-1]), uint64(mask))
	}
}

func TestEnumerate_EmptyMask(t *testing.T) {
	occs := Enumerate(0)
	if len(occs) != 1 || occs[0] != 0 {
		t.Errorf("Enumerate(0) = %v, want [0]", occs)
	}
}

func TestEnumerate_Stable(t *testing.T) {
	mask := geometry.RelevantMask(27, geometry.Bishop)
	a, b := Enumerate(mask), Enumerate(mask)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Enumerate() not stable at %d: %#x vs %#x", i, uint64(a[i]), uint64(b[i]))
		}
	}
}

func TestAttacks_IndexAligned(t *testing.T) {
	sq := geometry.Square(27)
	mask := geometry.RelevantMask(sq, geometry.Rook)
	occs := Enumerate(mask)
	attacks := Attacks(sq, geometry.Rook, occs)

	if len(attacks) != len(occs) {
		t.Fatalf("len(Attacks) = %d, want %d", len(attacks), len(occs))
	}
	for i := range occs {
		if want := geometry.AttackSet(sq, geometry.Rook, occs[i]); attacks[i] != want {
			t.Errorf("Attacks()[%d] = %#x, want %#x", i, uint64(attacks[i]), uint64(want))
		}
	}
}

func TestCountAndBits(t *testing.T) {
	mask := geometry.RelevantMask(0, geometry.Rook)
	if got := Count(mask); got != 4096 {
		t.Errorf("Count() = %d, want 4096", got)
	}
	if got := Bits(mask); got != 12 {
		t.Errorf("Bits() = %d, want 12", got)
	}
}
