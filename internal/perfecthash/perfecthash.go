// Package perfecthash builds collision-checked multiplicative hash
// tables mapping occupancies to attack sets.
package perfecthash

import (
	"github.com/discochess/magics/internal/geometry"
)

// Table is a verified lookup table addressed by Hash.
type Table []geometry.Bitboard

// IndexMask returns 2^bits - 1.
func IndexMask(bits uint) uint64 {
	return (uint64(1) << bits) - 1
}

// Hash maps an occupancy to a table slot. The multiplication wraps
// modulo 2^64.
func Hash(occ geometry.Bitboard, magic uint64, shift, bits uint) uint64 {
	return ((uint64(occ) * magic) >> shift) & IndexMask(bits)
}

// Build places every attack set at the slot of its occupancy. Two
// occupancies may share a slot only when their attack sets are equal;
// any other collision rejects the candidate and Build returns false.
// occs and attacks are index-aligned.
func Build(magic uint64, shift, bits uint, occs, attacks []geometry.Bitboard) (Table, bool) {
	size := 1 << bits
	table := make(Table, size)
	used := make([]bool, size)

	for i, occ := range occs {
		slot := Hash(occ, magic, shift, bits)
		switch {
		case !used[slot]:
			table[slot] = attacks[i]
			used[slot] = true
		case table[slot] == attacks[i]:
		default:
			return nil, false
		}
	}
	return table, true
}

// Lookup returns the attack set stored for occ.
func (t Table) Lookup(occ geometry.Bitboard, magic uint64, shift, bits uint) geometry.Bitboard {
	return t[Hash(occ, magic, shift, bits)]
}
