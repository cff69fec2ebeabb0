package geometry

import (
	"errors"
	"strings"
)

// ErrInvalidPattern indicates an unknown sliding pattern name.
var ErrInvalidPattern = errors.New("geometry: invalid pattern")

// Pattern is a sliding movement rule.
type Pattern uint8

const (
	// Rook slides along ranks and files.
	Rook Pattern = iota
	// Bishop slides along diagonals.
	Bishop
)

// Patterns lists every pattern in search order.
var Patterns = [...]Pattern{Rook, Bishop}

// String returns "rook" or "bishop".
func (p Pattern) String() string {
	switch p {
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	default:
		return "unknown"
	}
}

// Title returns the capitalised name used in progress output.
func (p Pattern) Title() string {
	switch p {
	case Rook:
		return "Rook"
	case Bishop:
		return "Bishop"
	default:
		return "Unknown"
	}
}

// ParsePattern parses "rook" or "bishop" (case-insensitive, "r"/"b" accepted).
func ParsePattern(s string) (Pattern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rook", "r":
		return Rook, nil
	case "bishop", "b":
		return Bishop, nil
	default:
		return 0, ErrInvalidPattern
	}
}
