// Package occupancy enumerates every blocker placement restricted to a
// relevant-occupancy mask.
package occupancy

import (
	"math/bits"

	"github.com/discochess/magics/internal/geometry"
)

// Count returns the number of subsets of mask.
func Count(mask geometry.Bitboard) int {
	return 1 << mask.PopCount()
}

// Subset returns the index-th subset of mask: bit j of index selects
// the j-th lowest set bit of mask.
func Subset(index int, mask geometry.Bitboard) geometry.Bitboard {
	var occ geometry.Bitboard
	for j := 0; mask != 0; j++ {
		lsb := mask & -mask
		if index&(1<<j) != 0 {
			occ |= lsb
		}
		mask &^= lsb
	}
	return occ
}

// Enumerate returns all 2^popcount(mask) subsets of mask, ordered so
// that element i equals Subset(i, mask).
func Enumerate(mask geometry.Bitboard) []geometry.Bitboard {
	n := Count(mask)
	occs := make([]geometry.Bitboard, n)

	// Carry-rippler: walks subsets in the same order as Subset.
	var occ geometry.Bitboard
	for i := 0; i < n; i++ {
		occs[i] = occ
		occ = (occ - mask) & mask
	}
	return occs
}

// Attacks returns the ground-truth attack set for each occupancy,
// index-aligned with occs.
func Attacks(sq geometry.Square, p geometry.Pattern, occs []geometry.Bitboard) []geometry.Bitboard {
	attacks := make([]geometry.Bitboard, len(occs))
	for i, occ := range occs {
		attacks[i] = geometry.AttackSet(sq, p, occ)
	}
	return attacks
}

// Bits returns popcount(mask) as an unsigned width.
func Bits(mask geometry.Bitboard) uint {
	return uint(bits.OnesCount64(uint64(mask)))
}
