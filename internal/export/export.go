// Package export writes a session's drawing history to image files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"github.com/abhisek/circlez/internal/render"
	"github.com/abhisek/circlez/internal/stroke"
)

// ErrUnknownFormat is returned by File for extensions other than .png and .pdf.
var ErrUnknownFormat = errors.New("unknown export format (use .png or .pdf)")

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("nothing drawn yet")

// PNG renders history onto a fresh width×height canvas and encodes it.
func PNG(w io.Writer, history []stroke.Stroke, cfg render.Config, width, height int) error {
	c := render.NewCanvas(cfg, width, height)
	defer c.Close()
	if err := c.Redraw(history); err != nil {
		return err
	}
	if err := c.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PDF writes history as a single vector page of width×height points with
// the canvas background. Every segment is stroked in its base style colour.
func PDF(w io.Writer, history []stroke.Stroke, cfg render.Config, width, height int) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("circlez drawing", true)
	pdf.SetCreator("circlez", true)
	pdf.AddPage()

	bg := gg.Hex(cfg.Background)
	pdf.SetFillColor(channel(bg.R), channel(bg.G), channel(bg.B))
	pdf.Rect(0, 0, float64(width), float64(height), "F")

	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	for _, s := range history {
		for _, seg := range stroke.Replay(s) {
			st := stroke.BaseStyle(seg)
			c := gg.HSL(st.Hue, cfg.Saturation, cfg.Lightness)
			pdf.SetDrawColor(channel(c.R), channel(c.G), channel(c.B))
			pdf.SetLineWidth(st.Width)

			pdf.MoveTo(seg.From.X, seg.From.Y)
			if seg.Kind == stroke.Quad {
				pdf.CurveTo(seg.Ctrl.X, seg.Ctrl.Y, seg.To.X, seg.To.Y)
			} else {
				pdf.LineTo(seg.To.X, seg.To.Y)
			}
			pdf.DrawPath("D")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// File exports history to path, picking the format from its extension.
func File(path string, history []stroke.Stroke, cfg render.Config, width, height int) error {
	if len(history) == 0 {
		return ErrEmpty
	}

	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		write = func(w io.Writer) error { return PNG(w, history, cfg, width, height) }
	case ".pdf":
		write = func(w io.Writer) error { return PDF(w, history, cfg, width, height) }
	default:
		return ErrUnknownFormat
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func channel(v float64) int {
	return int(max(0, min(255, v*255+0.5)))
}
