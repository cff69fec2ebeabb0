// Package render draws a square's relevant mask and attack set as an
// SVG board diagram, optionally rasterised to PNG.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/discochess/magics/internal/geometry"
)

// Square fill colours.
const (
	ColorLight   = "#f0d9b5"
	ColorDark    = "#b58863"
	ColorMask    = "#7fa7d9"
	ColorAttack  = "#e8857a"
	ColorCapture = "#c0392b"
	ColorOrigin  = "#f2c230"
	colorPiece   = "#222222"
)

// DefaultCell is the side of one board square in pixels.
const DefaultCell = 48

// Diagram describes what to draw.
type Diagram struct {
	Pattern   geometry.Pattern
	Square    geometry.Square
	Mask      geometry.Bitboard
	Occupancy geometry.Bitboard
	Attacks   geometry.Bitboard
	// Pieces labels occupied squares in SVG output; optional.
	Pieces map[geometry.Square]rune
}

// NewDiagram computes the mask and attack set of p on sq for occ.
func NewDiagram(sq geometry.Square, p geometry.Pattern, occ geometry.Bitboard) Diagram {
	return Diagram{
		Pattern:   p,
		Square:    sq,
		Mask:      geometry.RelevantMask(sq, p),
		Occupancy: occ,
		Attacks:   geometry.AttackSet(sq, p, occ),
	}
}

// Fill returns the colour of sq in the diagram.
func (d Diagram) Fill(sq geometry.Square) string {
	switch {
	case sq == d.Square:
		return ColorOrigin
	case d.Attacks.Has(sq) && d.Occupancy.Has(sq):
		return ColorCapture
	case d.Attacks.Has(sq):
		return ColorAttack
	case d.Mask.Has(sq):
		return ColorMask
	case (sq.Rank()+sq.File())%2 == 0:
		return ColorDark
	default:
		return ColorLight
	}
}

// SVG writes the diagram with cell-pixel squares, rank 8 at the top.
func SVG(w io.Writer, d Diagram, cell int) {
	if cell <= 0 {
		cell = DefaultCell
	}
	side := 8 * cell
	canvas := svg.New(w)
	canvas.Startview(side, side, 0, 0, side, side)
	canvas.Title(fmt.Sprintf("%s %s", d.Pattern, d.Square))

	for sq := geometry.Square(0); sq < geometry.NumSquares; sq++ {
		x, y := sq.File()*cell, (7-sq.Rank())*cell
		canvas.Rect(x, y, cell, cell, "fill:"+d.Fill(sq))
		if !d.Occupancy.Has(sq) || sq == d.Square {
			continue
		}
		if r, ok := d.Pieces[sq]; ok {
			canvas.Text(x+cell/2, y+cell*2/3, string(r),
				fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:%s", cell/2, colorPiece))
			continue
		}
		canvas.Circle(x+cell/2, y+cell/2, cell/6, "fill:"+colorPiece)
	}
	canvas.End()
}

// PNG rasterises the SVG diagram. Text labels are not rendered.
func PNG(w io.Writer, d Diagram, cell int) error {
	if cell <= 0 {
		cell = DefaultCell
	}
	var buf bytes.Buffer
	SVG(&buf, d, cell)

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return fmt.Errorf("parsing diagram: %w", err)
	}
	side := 8 * cell
	icon.SetTarget(0, 0, float64(side), float64(side))

	rgba := image.NewRGBA(image.Rect(0, 0, side, side))
	scanner := rasterx.NewScannerGV(side, side, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(side, side, scanner)
	icon.Draw(raster, 1.0)

	if err := png.Encode(w, rgba); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
