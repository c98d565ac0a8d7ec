package render

import (
	"image"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/image/draw"
)

// halfBlock paints the upper half of a cell in the foreground colour and
// the lower half in the background colour.
const halfBlock = "▀"

// Cell is one terminal cell holding two vertically stacked pixels.
type Cell struct {
	Top    color.RGBA
	Bottom color.RGBA
}

// Cells downsamples img to cols×(rows*2) pixels and pairs them into cells.
func Cells(img image.Image, cols, rows int) [][]Cell {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	out := make([][]Cell, rows)
	for r := range rows {
		line := make([]Cell, cols)
		for c := range cols {
			line[c] = Cell{
				Top:    dst.RGBAAt(c, r*2),
				Bottom: dst.RGBAAt(c, r*2+1),
			}
		}
		out[r] = line
	}
	return out
}

// RenderCells turns cells into lines of styled half blocks. Runs of
// identical cells share one style sequence.
func RenderCells(cells [][]Cell) string {
	lines := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for j := 0; j < len(row); {
			k := j + 1
			for k < len(row) && row[k] == row[j] {
				k++
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(row[j].Top).
				Background(row[j].Bottom).
				Render(strings.Repeat(halfBlock, k-j)))
			j = k
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Terminal renders the canvas into a cols×rows block of half-block cells.
func (c *Canvas) Terminal(cols, rows int) string {
	return RenderCells(Cells(c.Image(), cols, rows))
}
