// Package render draws stroke segments as glowing gradient curves.
package render

import (
	"fmt"
	"image"
	"io"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"github.com/abhisek/circlez/internal/stroke"
)

// Config controls the look and the pixel geometry of the canvas.
type Config struct {
	// CellWidth and CellHeight give the device pixels covered by one
	// terminal cell.
	CellWidth  int
	CellHeight int

	Background string  // hex colour
	GlowExtra  float64 // added to the segment width for the glow pass
	GlowAlpha  float64
	Saturation float64
	Lightness  float64
}

// DefaultConfig returns the stock canvas configuration.
func DefaultConfig() Config {
	return Config{
		CellWidth:  8,
		CellHeight: 16,
		Background: "#0a0a0a",
		GlowExtra:  6,
		GlowAlpha:  0.4,
		Saturation: 1,
		Lightness:  0.6,
	}
}

// CellToPoint maps a terminal cell, relative to the canvas origin, to the
// device pixel at its centre.
func (c Config) CellToPoint(col, row int) stroke.Point {
	return stroke.Point{
		X: (float64(col) + 0.5) * float64(c.CellWidth),
		Y: (float64(row) + 0.5) * float64(c.CellHeight),
	}
}

// PixelSize returns the canvas size in device pixels for a cell area.
func (c Config) PixelSize(cols, rows int) (int, int) {
	return cols * c.CellWidth, rows * c.CellHeight
}

// Canvas is an RGBA drawing surface for strokes.
type Canvas struct {
	cfg    Config
	dc     *gg.Context
	bg     gg.RGBA
	styler *stroke.Styler
}

// NewCanvas creates a cleared canvas of w×h device pixels.
func NewCanvas(cfg Config, w, h int) *Canvas {
	c := &Canvas{
		cfg:    cfg,
		dc:     gg.NewContext(max(w, 1), max(h, 1)),
		bg:     gg.Hex(cfg.Background),
		styler: stroke.NewStyler(nil),
	}
	c.Clear()
	return c
}

// WithRand replaces the particle random source, for reproducible output.
func (c *Canvas) WithRand(src rand.Source) *Canvas {
	c.styler = stroke.NewStyler(src)
	return c
}

// Size returns the canvas size in device pixels.
func (c *Canvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

// Clear paints the background.
func (c *Canvas) Clear() {
	c.dc.ClearWithColor(c.bg)
}

// Draw renders seg with a freshly derived style, particles included.
func (c *Canvas) Draw(seg stroke.Segment) error {
	return c.DrawSegment(seg, c.styler.Style(seg))
}

// DrawSegment renders one segment: a translucent glow pass, then the
// gradient body, then the particle if the style carries one.
func (c *Canvas) DrawSegment(seg stroke.Segment, st stroke.Style) error {
	dc := c.dc
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	start := gg.HSL(st.Hue, c.cfg.Saturation, c.cfg.Lightness)
	end := gg.HSL(st.HueEnd, c.cfg.Saturation, c.cfg.Lightness)

	glow := start
	glow.A = c.cfg.GlowAlpha
	dc.SetStrokeBrush(gg.Solid(glow))
	dc.SetLineWidth(st.Width + c.cfg.GlowExtra)
	tracePath(dc, seg)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke glow: %w", err)
	}

	if from, to, ok := gradientAxis(seg); ok {
		dc.SetStrokeBrush(gg.NewLinearGradientBrush(from.X, from.Y, to.X, to.Y).
			AddColorStop(0, start).
			AddColorStop(1, end))
	} else {
		dc.SetStrokeBrush(gg.Solid(start))
	}
	dc.SetLineWidth(st.Width)
	tracePath(dc, seg)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke body: %w", err)
	}

	if p := st.Particle; p != nil {
		dc.SetFillBrush(gg.Solid(gg.HSL(p.Hue, c.cfg.Saturation, c.cfg.Lightness)))
		dc.DrawCircle(p.At.X, p.At.Y, p.Size)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill particle: %w", err)
		}
	}
	return nil
}

// gradientAxis returns the line the body gradient runs along: from the
// control point to the newest point. Line segments and degenerate axes get
// no gradient.
func gradientAxis(seg stroke.Segment) (from, to stroke.Point, ok bool) {
	if seg.Kind != stroke.Quad || seg.Ctrl == seg.Head {
		return stroke.Point{}, stroke.Point{}, false
	}
	return seg.Ctrl, seg.Head, true
}

func tracePath(dc *gg.Context, seg stroke.Segment) {
	dc.MoveTo(seg.From.X, seg.From.Y)
	if seg.Kind == stroke.Quad {
		dc.QuadraticTo(seg.Ctrl.X, seg.Ctrl.Y, seg.To.X, seg.To.Y)
		return
	}
	dc.LineTo(seg.To.X, seg.To.Y)
}

// DrawStroke replays a finished stroke without particles.
func (c *Canvas) DrawStroke(s stroke.Stroke) error {
	for _, seg := range stroke.Replay(s) {
		if err := c.DrawSegment(seg, stroke.BaseStyle(seg)); err != nil {
			return err
		}
	}
	return nil
}

// Redraw clears the canvas and replays history in order.
func (c *Canvas) Redraw(history []stroke.Stroke) error {
	c.Clear()
	for i, s := range history {
		if err := c.DrawStroke(s); err != nil {
			return fmt.Errorf("redraw stroke %d: %w", i, err)
		}
	}
	return nil
}

// Resize swaps in a surface of w×h pixels and replays history onto it.
func (c *Canvas) Resize(w, h int, history []stroke.Stroke) error {
	if cw, ch := c.Size(); cw == w && ch == h {
		return nil
	}
	old := c.dc
	c.dc = gg.NewContext(max(w, 1), max(h, 1))
	if err := old.Close(); err != nil {
		return fmt.Errorf("close old surface: %w", err)
	}
	return c.Redraw(history)
}

// Image returns the current pixels.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// Close releases the drawing context.
func (c *Canvas) Close() error {
	return c.dc.Close()
}
