package geometry

// direction is a single ray step.
type direction struct {
	dRank, dFile int
}

var directions = [...][4]direction{
	Rook:   {{1, 0}, {0, 1}, {-1, 0}, {0, -1}},
	Bishop: {{1, 1}, {1, -1}, {-1, 1}, {-1, -1}},
}

// bound decides whether the walk may visit (rank, file).
type bound func(rank, file int) bool

// onBoard admits every square of the board.
func onBoard(rank, file int) bool {
	return rank >= 0 && rank < 8 && file >= 0 && file < 8
}

// innerFor returns a bound that stops one square short of the board
// edge the ray is heading towards. Rank and file are checked
// independently so a diagonal stops at whichever edge comes first.
func innerFor(d direction) bound {
	return func(rank, file int) bool {
		if !onBoard(rank, file) {
			return false
		}
		if (d.dRank > 0 && rank == 7) || (d.dRank < 0 && rank == 0) {
			return false
		}
		if (d.dFile > 0 && file == 7) || (d.dFile < 0 && file == 0) {
			return false
		}
		return true
	}
}

// walk marks squares from sq along d while within admits them. The
// walk stops after marking a square present in blockers.
func walk(sq Square, d direction, within bound, blockers Bitboard) Bitboard {
	var result Bitboard
	rank, file := sq.Rank()+d.dRank, sq.File()+d.dFile
	for within(rank, file) {
		s := NewSquare(file, rank)
		result |= SquareBB(s)
		if blockers.Has(s) {
			break
		}
		rank, file = rank+d.dRank, file+d.dFile
	}
	return result
}

// RelevantMask returns the squares whose occupancy can change the
// attack set of p on sq. It never contains sq or the edge square at
// the end of a ray.
func RelevantMask(sq Square, p Pattern) Bitboard {
	var mask Bitboard
	for _, d := range directions[p] {
		mask |= walk(sq, d, innerFor(d), 0)
	}
	return mask
}

// AttackSet returns the squares reached by p from sq given the
// blockers in occ. The first blocker on each ray is included.
func AttackSet(sq Square, p Pattern, occ Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range directions[p] {
		attacks |= walk(sq, d, onBoard, occ)
	}
	return attacks
}
