package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/magics/internal/fen"
	"github.com/discochess/magics/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw the mask and attacks of a square",
	Long: `Draw a board diagram showing the relevant occupancy mask, the
blockers and the attack set of a rook or bishop.

Examples:
  # SVG of a bishop on e4
  magics render -p bishop -s e4 --out e4.svg

  # PNG of a rook on a1 in a FEN position
  magics render -s a1 --fen "4k3/8/8/8/P7/8/8/R3K3 w - -" --format png --out a1.png`,
	RunE: runRender,
}

var (
	renderBoard  boardFlags
	renderFormat string
	renderOut    string
	renderCell   int
)

func init() {
	renderBoard.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "svg", "image format: svg, png")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default stdout)")
	renderCmd.Flags().IntVar(&renderCell, "cell", render.DefaultCell, "square size in pixels")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	p, sq, occ, err := renderBoard.parse()
	if err != nil {
		return err
	}
	d := render.NewDiagram(sq, p, occ)
	if renderBoard.fen != "" {
		if d.Pieces, err = fen.Pieces(renderBoard.fen); err != nil {
			return err
		}
	}

	var w io.Writer = os.Stdout
	if renderOut != "" {
		f, err := os.Create(renderOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", renderOut, err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)

	switch renderFormat {
	case "svg":
		render.SVG(bw, d, renderCell)
	case "png":
		if err := render.PNG(bw, d, renderCell); err != nil {
			return fmt.Errorf("rendering png: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", renderFormat)
	}
	return bw.Flush()
}
