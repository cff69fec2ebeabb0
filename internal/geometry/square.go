package geometry

import (
	"errors"
	"strings"

	"github.com/notnil/chess"
)

// ErrInvalidSquare indicates a square name could not be parsed.
var ErrInvalidSquare = errors.New("geometry: invalid square")

// NumSquares is the number of squares on the board.
const NumSquares = 64

// Square is a board position in [0, 64): rank*8 + file.
type Square uint8

// NewSquare returns the square at the given file and rank (both 0-7).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// Rank returns the zero-based rank (0 = rank 1).
func (sq Square) Rank() int { return int(sq) / 8 }

// File returns the zero-based file (0 = file a).
func (sq Square) File() int { return int(sq) % 8 }

// String returns the algebraic name, e.g. "d4".
func (sq Square) String() string {
	if sq >= NumSquares {
		return "-"
	}
	return chess.Square(sq).String()
}

// Upper returns the algebraic name in upper case, e.g. "D4".
func (sq Square) Upper() string {
	return strings.ToUpper(sq.String())
}

// ParseSquare parses an algebraic square name such as "d4" or "H8".
func ParseSquare(name string) (Square, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) != 2 {
		return 0, ErrInvalidSquare
	}
	file, rank := int(name[0]-'a'), int(name[1]-'1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, ErrInvalidSquare
	}
	return NewSquare(file, rank), nil
}
