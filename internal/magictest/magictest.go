// Package magictest provides a complete, deterministic descriptor set
// for tests of packages that consume descriptors. It uses the fixed
// shift 64-bits with a top-byte density filter instead of the windowed
// search, which settles every square within a fraction of a second.
package magictest

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/occupancy"
	"github.com/discochess/magics/internal/perfecthash"
	"github.com/discochess/magics/internal/search"
)

// Seed is the fixed stream seed of the fixture.
const Seed = 0x6d61676963

var (
	once        sync.Once
	descriptors []*search.Descriptor
)

// Descriptors returns rook then bishop descriptors for all 64 squares.
// The slice is shared; callers must not modify it.
func Descriptors() []*search.Descriptor {
	once.Do(func() {
		for _, p := range geometry.Patterns {
			for sq := geometry.Square(0); sq < geometry.NumSquares; sq++ {
				descriptors = append(descriptors, Find(sq, p))
			}
		}
	})
	return descriptors
}

// Get returns the fixture descriptor for p on sq.
func Get(p geometry.Pattern, sq geometry.Square) *search.Descriptor {
	i := int(sq)
	if p == geometry.Bishop {
		i += geometry.NumSquares
	}
	return Descriptors()[i]
}

// Find runs the fixed-shift search for one square.
func Find(sq geometry.Square, p geometry.Pattern) *search.Descriptor {
	mask := geometry.RelevantMask(sq, p)
	occs := occupancy.Enumerate(mask)
	attacks := occupancy.Attacks(sq, p, occs)
	n := occupancy.Bits(mask)
	shift := 64 - n

	src := search.NewSource(Seed, uint64(p)<<8|uint64(sq))
	for attempt := 0; attempt < 100_000_000; attempt++ {
		magic := search.Candidate(src)
		if bits.OnesCount64((uint64(mask)*magic)&0xFF00000000000000) < 6 {
			continue
		}
		table, ok := perfecthash.Build(magic, shift, n, occs, attacks)
		if !ok {
			continue
		}
		return &search.Descriptor{
			Pattern:  p,
			Square:   sq,
			Magic:    magic,
			Shift:    shift,
			Bits:     n,
			Mask:     mask,
			Attacks:  table,
			Attempts: attempt,
		}
	}
	panic(fmt.Sprintf("magictest: no magic for %s %s", p, sq))
}
