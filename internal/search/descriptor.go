package search

import (
	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/perfecthash"
)

// Descriptor is a finished magic for one square and pattern.
type Descriptor struct {
	Pattern geometry.Pattern
	Square  geometry.Square

	Magic uint64
	Shift uint
	Bits  uint
	Mask  geometry.Bitboard

	// Attacks is indexed by perfecthash.Hash(occ&Mask, Magic, Shift, Bits).
	Attacks perfecthash.Table

	// Attempts is the zero-based attempt at which the magic was found.
	Attempts int
	// Relaxed is set when the table needed one bit more than the mask.
	Relaxed bool
}

// Index returns the table slot for a board occupancy.
func (d *Descriptor) Index(occ geometry.Bitboard) uint64 {
	return perfecthash.Hash(occ&d.Mask, d.Magic, d.Shift, d.Bits)
}

// Lookup returns the attack set for a board occupancy.
func (d *Descriptor) Lookup(occ geometry.Bitboard) geometry.Bitboard {
	return d.Attacks[d.Index(occ)]
}

// IndexMask returns 2^Bits - 1, the mask applied after the shift.
func (d *Descriptor) IndexMask() uint64 {
	return perfecthash.IndexMask(d.Bits)
}
