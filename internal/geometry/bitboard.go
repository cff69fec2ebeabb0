// Package geometry computes sliding-piece geometry on an 8x8 board:
// relevant-occupancy masks and ray-cast attack sets.
package geometry

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares; bit i is square i (a1 = 0, h8 = 63).
type Bitboard uint64

// SquareBB returns the bitboard holding only sq.
func SquareBB(sq Square) Bitboard {
	return Bitboard(1) << sq
}

// PopCount returns the number of squares in b.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// Has reports whether sq is a member of b.
func (b Bitboard) Has(sq Square) bool {
	return b&SquareBB(sq) != 0
}

// Squares returns the members of b in ascending order.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, Square(bits.TrailingZeros64(uint64(b))))
		b &= b - 1
	}
	return squares
}

// String renders b as an 8x8 diagram, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if b.Has(NewSquare(file, rank)) {
				sb.WriteString(" x")
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	return sb.String()
}
