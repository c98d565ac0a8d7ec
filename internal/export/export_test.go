package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/circlez/internal/render"
	"github.com/abhisek/circlez/internal/stroke"
)

func circleStroke(cx, cy, r float64, n int) stroke.Stroke {
	pts := make([]stroke.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = stroke.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return stroke.FromPoints(pts)
}

func pixel(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	history := []stroke.Stroke{circleStroke(80, 60, 40, 60)}
	if err := PNG(&buf, history, render.DefaultConfig(), 160, 120); err != nil {
		t.Fatalf("PNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("size = %dx%d, want 160x120", b.Dx(), b.Dy())
	}

	// A point on the circle is painted; the centre is background.
	bg := pixel(img, 80, 60)
	if on := pixel(img, 120, 60); on == bg {
		t.Errorf("pixel on the stroke %v matches background %v", on, bg)
	}
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	history := []stroke.Stroke{
		circleStroke(100, 100, 50, 40),
		stroke.FromPoints([]stroke.Point{{X: 10, Y: 10}, {X: 30, Y: 10}}),
	}
	if err := PDF(&buf, history, render.DefaultConfig(), 200, 200); err != nil {
		t.Fatalf("PDF: %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Error("output has no EOF marker")
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	history := []stroke.Stroke{circleStroke(50, 50, 30, 30)}
	cfg := render.DefaultConfig()

	for _, name := range []string{"out.png", "OUT.PDF"} {
		path := filepath.Join(dir, name)
		if err := File(path, history, cfg, 100, 100); err != nil {
			t.Fatalf("File(%s): %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	history := []stroke.Stroke{circleStroke(50, 50, 30, 30)}
	cfg := render.DefaultConfig()

	if err := File(filepath.Join(dir, "x.svg"), history, cfg, 10, 10); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("svg: err = %v, want ErrUnknownFormat", err)
	}
	if err := File(filepath.Join(dir, "x.png"), nil, cfg, 10, 10); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty: err = %v, want ErrEmpty", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "x.png")); !os.IsNotExist(err) {
		t.Error("empty export left a file behind")
	}
}

func TestChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0}, {1, 255}, {0.5, 128}, {-0.2, 0}, {1.7, 255},
	}
	for _, tt := range tests {
		if got := channel(tt.in); got != tt.want {
			t.Errorf("channel(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
