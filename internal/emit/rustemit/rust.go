// Package rustemit writes descriptor sets as Rust statics.
package rustemit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/emit"
	"github.com/discochess/magics/internal/geometry"
	"github.com/discochess/magics/internal/perfecthash"
)

// Compile-time check that Emitter implements emit.Emitter.
var _ emit.Emitter = (*Emitter)(nil)

// Emitter writes `pub static` arrays: per pattern the magics, shifts,
// index masks (2^bits-1), relevant-occupancy masks and a reference
// table, followed by one attack table per square named after it
// (ROOK_A1, BISHOP_H8, ...). A lookup is
// ATTACKS[sq][((occ & OCCUPANCY_MASKS[sq]) * MAGICS[sq] >> SHIFTS[sq]) & MASKS[sq]].
type Emitter struct{}

// New returns a Rust emitter.
func New() *Emitter {
	return &Emitter{}
}

// Name returns "rust".
func (e *Emitter) Name() string {
	return "rust"
}

// Emit writes s to w.
func (e *Emitter) Emit(w io.Writer, s *artifact.Set) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "// auto-generated")
	fmt.Fprintln(bw)

	for _, p := range geometry.Patterns {
		name := strings.ToUpper(p.String())
		entries := s.Entries(p)

		fmt.Fprintf(bw, "pub static %s_MAGICS: [u64; 64] = [\n", name)
		for _, en := range entries {
			fmt.Fprintf(bw, "    0x%x,\n", en.Magic)
		}
		fmt.Fprint(bw, "];\n\n")

		fmt.Fprintf(bw, "pub static %s_SHIFTS: [u64; 64] = [\n", name)
		for _, en := range entries {
			fmt.Fprintf(bw, "    %d,\n", en.Shift)
		}
		fmt.Fprint(bw, "];\n\n")

		fmt.Fprintf(bw, "pub static %s_MASKS: [u64; 64] = [\n", name)
		for _, en := range entries {
			fmt.Fprintf(bw, "    0x%x,\n", perfecthash.IndexMask(en.Bits))
		}
		fmt.Fprint(bw, "];\n\n")

		fmt.Fprintf(bw, "pub static %s_OCCUPANCY_MASKS: [u64; 64] = [\n", name)
		for _, en := range entries {
			fmt.Fprintf(bw, "    0x%x,\n", en.Mask)
		}
		fmt.Fprint(bw, "];\n\n")

		fmt.Fprintf(bw, "pub static %s_ATTACKS: [&'static [u64]; 64] = [\n", name)
		for sq := geometry.Square(0); sq < geometry.NumSquares; sq++ {
			fmt.Fprintf(bw, "    &%s_%s,\n", name, sq.Upper())
		}
		fmt.Fprint(bw, "];\n\n")
	}

	for _, p := range geometry.Patterns {
		for i, en := range s.Entries(p) {
			fmt.Fprintf(bw, "pub static %s_%s: [u64; %d] = [\n", strings.ToUpper(p.String()), geometry.Square(i).Upper(), len(en.Attacks))
			for _, a := range en.Attacks {
				fmt.Fprintf(bw, "    0x%x,\n", a)
			}
			fmt.Fprintln(bw, "];")
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
