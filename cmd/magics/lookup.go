package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/magics"
	"github.com/discochess/magics/internal/stats"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up the attacks of a sliding piece",
	Long: `Look up the attack set of a rook or bishop from the saved tables.

The occupancy is given as a hex bitboard (bit 0 = a1, bit 63 = h8) or
derived from the piece placement of a FEN position. Without either the
board is empty.

Examples:
  # Rook on d4, empty board
  magics lookup --pattern rook --square d4

  # Bishop on c1 in the starting position
  magics lookup -p bishop -s c1 --fen "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"`,
	RunE: runLookup,
}

var (
	lookupBoard boardFlags
	showTiming  bool
)

func init() {
	lookupBoard.register(lookupCmd)
	lookupCmd.Flags().BoolVar(&showTiming, "timing", false, "show lookup timing")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	p, sq, occ, err := lookupBoard.parse()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	st, err := openStore(ctx, "", stats.NewNoop())
	if err != nil {
		return err
	}
	table, err := magics.Open(ctx, magics.WithStore(st))
	if err != nil {
		st.Close()
		return fmt.Errorf("%w; run 'magics search' first", err)
	}
	defer table.Close()

	start := time.Now()
	attacks := table.Attacks(p, sq, occ)
	elapsed := time.Since(start)

	m := table.Magic(p, sq)
	fmt.Printf("%s %s\n", p.Title(), sq)
	fmt.Printf("  Magic:     %#016x\n", m.Magic)
	fmt.Printf("  Shift:     %d\n", m.Shift)
	fmt.Printf("  Bits:      %d\n", m.Bits)
	fmt.Printf("  Occupancy: %#016x\n", uint64(occ))
	fmt.Printf("  Attacks:   %#016x (%d squares)\n", uint64(attacks), attacks.PopCount())
	if showTiming {
		fmt.Printf("  Time:      %v\n", elapsed)
	}
	fmt.Println()
	fmt.Println(attacks)
	return nil
}
