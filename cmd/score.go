package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/circlez/internal/export"
	"github.com/abhisek/circlez/internal/pointsfile"
	"github.com/abhisek/circlez/internal/render"
	"github.com/abhisek/circlez/internal/scoring"
	"github.com/abhisek/circlez/internal/stroke"
)

// pngMargin pads the rendered points on every side, in pixels.
const pngMargin = 24

// maxPNGSide bounds either side of a rendered PNG. Larger strokes are
// scaled down to fit.
const maxPNGSide = 8192

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a recorded stroke from a JSON points file",
	Long: `Score a stroke without the TUI.

The file is either {"points": [[x, y], ...]} or [{"x": .., "y": ..}, ...],
in pixels. Points go through the same jitter filter as mouse input unless
--raw is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		pngPath, _ := cmd.Flags().GetString("png")
		raw, _ := cmd.Flags().GetBool("raw")
		asJSON, _ := cmd.Flags().GetBool("json")

		pts, err := pointsfile.LoadFile(input)
		if err != nil {
			return fmt.Errorf("load points: %w", err)
		}
		s := pointsfile.Sample(pts, raw)
		b, ok := scoring.Analyze(s)

		if pngPath != "" {
			if err := writeStrokePNG(pngPath, s); err != nil {
				return err
			}
		}

		if asJSON {
			return printScoreJSON(cmd.OutOrStdout(), b, ok)
		}
		printBreakdown(cmd.OutOrStdout(), b, ok)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringP("input", "i", "", "Points file (JSON), or - for stdin")
	scoreCmd.Flags().String("png", "", "Also render the stroke to this PNG file")
	scoreCmd.Flags().Bool("raw", false, "Skip jitter filtering")
	scoreCmd.Flags().Bool("json", false, "Print the breakdown as JSON")
	_ = scoreCmd.MarkFlagRequired("input")
}

type scoreOutput struct {
	Scored bool   `json:"scored"`
	Grade  string `json:"grade,omitempty"`
	scoring.Breakdown
}

func printScoreJSON(w io.Writer, b scoring.Breakdown, ok bool) error {
	out := scoreOutput{Scored: ok, Breakdown: b}
	if ok {
		out.Grade = scoring.GradeFor(b.Score).Label
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printBreakdown(w io.Writer, b scoring.Breakdown, ok bool) {
	if !ok {
		fmt.Fprintf(w, "Too short to score: %d points, need at least %d.\n", b.PointCount, scoring.MinPoints)
		return
	}
	g := scoring.GradeFor(b.Score)
	fmt.Fprintf(w, "Score       %d  %s\n", b.Score, g.Label)
	fmt.Fprintf(w, "            %s\n\n", g.Message)
	fmt.Fprintf(w, "Regularity  %6.1f   (radius %.1f ± %.1f px)\n", b.Regularity, b.AvgRadius, b.StdDev)
	fmt.Fprintf(w, "Closure     %6.1f   (gap %.1f px)\n", b.Closure, b.ClosureDistance)
	fmt.Fprintf(w, "Points      %6.1f   (%d points)\n", b.PointScore, b.PointCount)
	fmt.Fprintf(w, "Center      %.1f, %.1f\n", b.Center.X, b.Center.Y)
}

// writeStrokePNG renders s on a canvas just large enough to hold it.
func writeStrokePNG(path string, s stroke.Stroke) error {
	pts := s.Points()
	if len(pts) == 0 {
		return fmt.Errorf("render png: no points")
	}
	shifted, w, h, err := fitPoints(pts, pngMargin, maxPNGSide)
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := export.PNG(f, []stroke.Stroke{stroke.FromPoints(shifted)}, render.DefaultConfig(), w, h); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("render png: %w", err)
	}
	return f.Close()
}

// fitPoints translates pts so their bounding box starts at margin and
// returns the canvas size that holds them. Strokes wider or taller than
// limit are scaled down uniformly so neither side exceeds it.
func fitPoints(pts []stroke.Point, margin float64, limit int) ([]stroke.Point, int, int, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	if math.IsInf(spanX, 0) || math.IsInf(spanY, 0) || math.IsNaN(spanX) || math.IsNaN(spanY) {
		return nil, 0, 0, fmt.Errorf("stroke spans %vx%v px, too large", spanX, spanY)
	}

	scale := 1.0
	if room := float64(limit-1) - 2*margin; math.Max(spanX, spanY) > room {
		scale = room / math.Max(spanX, spanY)
	}

	out := make([]stroke.Point, len(pts))
	for i, p := range pts {
		out[i] = stroke.Point{X: (p.X-minX)*scale + margin, Y: (p.Y-minY)*scale + margin}
	}
	w := min(int(math.Ceil(spanX*scale+2*margin))+1, limit)
	h := min(int(math.Ceil(spanY*scale+2*margin))+1, limit)
	return out, w, h, nil
}
