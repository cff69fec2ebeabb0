// Package fen reads board occupancy from FEN (Forsyth-Edwards Notation)
// piece placement, so lookups can be driven by real positions.
package fen

import (
	"errors"
	"strings"

	"github.com/discochess/magics/internal/geometry"
)

// ErrInvalidFEN indicates the FEN string is malformed.
var ErrInvalidFEN = errors.New("invalid FEN notation")

// Placement returns the validated piece-placement field of a FEN. A bare
// placement field without the remaining fields is accepted too.
func Placement(fen string) (string, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return "", ErrInvalidFEN
	}
	if len(parts) > 1 && parts[1] != "w" && parts[1] != "b" {
		return "", ErrInvalidFEN
	}
	if !isValidPiecePlacement(parts[0]) {
		return "", ErrInvalidFEN
	}
	return parts[0], nil
}

// Pieces returns the piece letter on every occupied square.
func Pieces(fen string) (map[geometry.Square]rune, error) {
	placement, err := Placement(fen)
	if err != nil {
		return nil, err
	}

	pieces := make(map[geometry.Square]rune, 32)
	// FEN lists rank 8 first.
	for i, rank := range strings.Split(placement, "/") {
		r, file := 7-i, 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pieces[geometry.NewSquare(file, r)] = ch
			file++
		}
	}
	return pieces, nil
}

// Occupancy returns the set of occupied squares.
func Occupancy(fen string) (geometry.Bitboard, error) {
	pieces, err := Pieces(fen)
	if err != nil {
		return 0, err
	}
	var occ geometry.Bitboard
	for sq := range pieces {
		occ |= geometry.SquareBB(sq)
	}
	return occ, nil
}

// isValidPiecePlacement validates the piece placement part of a FEN.
func isValidPiecePlacement(placement string) bool {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return false
	}

	for _, rank := range ranks {
		squares := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				squares += int(ch - '0')
			case strings.ContainsRune("PNBRQKpnbrqk", ch):
				squares++
			default:
				return false
			}
			if squares > 8 {
				return false
			}
		}
		if squares != 8 {
			return false
		}
	}

	return true
}
