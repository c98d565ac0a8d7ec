package pointsfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/circlez/internal/stroke"
)

func TestLoadLayouts(t *testing.T) {
	want := []stroke.Point{{X: 1, Y: 2}, {X: 3.5, Y: -4}}
	tests := []struct {
		name  string
		input string
	}{
		{"wrapped pairs", `{"points": [[1, 2], [3.5, -4]]}`},
		{"object list", `[{"x": 1, "y": 2}, {"x": 3.5, "y": -4}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("len = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `points`},
		{"string coordinate", `{"points": [["1", 2], [3, 4]]}`},
		{"triple", `{"points": [[1, 2, 3], [3, 4]]}`},
		{"missing y", `[{"x": 1}, {"x": 2, "y": 3}]`},
		{"no points key", `{"pts": [[1, 2]]}`},
		{"scalar", `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Load(%s) succeeded, want error", tt.input)
			}
		})
	}
}

func TestLoadTooFew(t *testing.T) {
	for _, input := range []string{`{"points": []}`, `[{"x": 1, "y": 1}]`} {
		if _, err := Load(strings.NewReader(input)); !errors.Is(err, ErrTooFewPoints) {
			t.Errorf("Load(%s) err = %v, want ErrTooFewPoints", input, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pts.json")
	if err := os.WriteFile(path, []byte(`[{"x":0,"y":0},{"x":10,"y":0}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	pts, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(pts) != 2 {
		t.Errorf("len = %d, want 2", len(pts))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v, want not-exist", err)
	}
}

func TestSample(t *testing.T) {
	pts := []stroke.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 5, Y: 0}, {X: 6, Y: 0}, {X: 10, Y: 0}}

	if got := Sample(pts, false).Len(); got != 3 {
		t.Errorf("filtered Len = %d, want 3", got)
	}
	if got := Sample(pts, true).Len(); got != len(pts) {
		t.Errorf("raw Len = %d, want %d", got, len(pts))
	}
	if !Sample(nil, false).Empty() {
		t.Error("Sample(nil) is not empty")
	}
}
