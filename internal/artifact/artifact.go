// Package artifact serializes a complete descriptor set so that
// emission, verification and lookups can run without a new search.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/perfecthash"
	"github.com/discochess/magics/internal/search"
)

// DefaultKey is the store key the descriptor set is saved under.
const DefaultKey = "magics.json"

// ErrCorrupt indicates an encoded set is structurally invalid.
var ErrCorrupt = errors.New("artifact: corrupt descriptor set")

// Entry is the encoded form of one descriptor.
type Entry struct {
	Square   uint8    `json:"square"`
	Name     string   `json:"name"`
	Magic    uint64   `json:"magic"`
	Shift    uint     `json:"shift"`
	Bits     uint     `json:"bits"`
	Mask     uint64   `json:"mask"`
	Attempts int      `json:"attempts"`
	Relaxed  bool     `json:"relaxed,omitempty"`
	Attacks  []uint64 `json:"attacks"`
}

// Set holds the descriptors of both patterns, each in square order.
type Set struct {
	Manifest Manifest `json:"manifest"`
	Rook     []Entry  `json:"rook"`
	Bishop   []Entry  `json:"bishop"`
}

// FromDescriptors builds a set from finished descriptors in any order.
func FromDescriptors(m Manifest, ds []*search.Descriptor) *Set {
	s := &Set{
		Manifest: m,
		Rook:     make([]Entry, geometry.NumSquares),
		Bishop:   make([]Entry, geometry.NumSquares),
	}
	for _, d := range ds {
		attacks := make([]uint64, len(d.Attacks))
		for i, a := range d.Attacks {
			attacks[i] = uint64(a)
		}
		s.entries(d.Pattern)[d.Square] = Entry{
			Square:   uint8(d.Square),
			Name:     d.Square.String(),
			Magic:    d.Magic,
			Shift:    d.Shift,
			Bits:     d.Bits,
			Mask:     uint64(d.Mask),
			Attempts: d.Attempts,
			Relaxed:  d.Relaxed,
			Attacks:  attacks,
		}
	}
	return s
}

func (s *Set) entries(p geometry.Pattern) []Entry {
	if p == geometry.Bishop {
		return s.Bishop
	}
	return s.Rook
}

// Entries returns the entries of one pattern in square order.
func (s *Set) Entries(p geometry.Pattern) []Entry {
	return s.entries(p)
}

// Descriptor decodes the entry for p on sq.
func (s *Set) Descriptor(p geometry.Pattern, sq geometry.Square) *search.Descriptor {
	e := s.entries(p)[sq]
	table := make(perfecthash.Table, len(e.Attacks))
	for i, a := range e.Attacks {
		table[i] = geometry.Bitboard(a)
	}
	return &search.Descriptor{
		Pattern:  p,
		Square:   sq,
		Magic:    e.Magic,
		Shift:    e.Shift,
		Bits:     e.Bits,
		Mask:     geometry.Bitboard(e.Mask),
		Attacks:  table,
		Attempts: e.Attempts,
		Relaxed:  e.Relaxed,
	}
}

// Descriptors decodes every entry, rook squares first.
func (s *Set) Descriptors() []*search.Descriptor {
	ds := make([]*search.Descriptor, 0, 2*geometry.NumSquares)
	for _, p := range geometry.Patterns {
		for sq := geometry.Square(0); sq < geometry.NumSquares; sq++ {
			ds = append(ds, s.Descriptor(p, sq))
		}
	}
	return ds
}

// TableEntries returns the total number of table slots.
func (s *Set) TableEntries() int {
	n := 0
	for _, p := range geometry.Patterns {
		for _, e := range s.entries(p) {
			n += len(e.Attacks)
		}
	}
	return n
}

// Validate checks the structure of the set: 64 entries per pattern,
// masks matching the board geometry and tables sized 2^bits. It does
// not check table contents; see package verify for that.
func (s *Set) Validate() error {
	for _, p := range geometry.Patterns {
		entries := s.entries(p)
		if len(entries) != geometry.NumSquares {
			return fmt.Errorf("%w: %d %s entries", ErrCorrupt, len(entries), p)
		}
		for i, e := range entries {
			sq := geometry.Square(i)
			if e.Square != uint8(sq) {
				return fmt.Errorf("%w: %s entry %d is labelled square %d", ErrCorrupt, p, i, e.Square)
			}
			mask := geometry.RelevantMask(sq, p)
			if geometry.Bitboard(e.Mask) != mask {
				return fmt.Errorf("%w: %s %s mask %#x, want %#x", ErrCorrupt, p, sq, e.Mask, uint64(mask))
			}
			if e.Bits < uint(mask.PopCount()) || e.Bits > 63 || e.Shift > 64-e.Bits {
				return fmt.Errorf("%w: %s %s has bits %d shift %d", ErrCorrupt, p, sq, e.Bits, e.Shift)
			}
			if len(e.Attacks) != 1<<e.Bits {
				return fmt.Errorf("%w: %s %s table has %d slots, want %d", ErrCorrupt, p, sq, len(e.Attacks), 1<<e.Bits)
			}
		}
	}
	return nil
}

// Encode writes s as JSON.
func Encode(w io.Writer, s *Set) error {
	if err := json.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encoding descriptor set: %w", err)
	}
	return nil
}

// Decode reads and validates a set written by Encode.
func Decode(r io.Reader) (*Set, error) {
	var s Set
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
