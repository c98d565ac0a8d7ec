// Package scoring rates how circular a finished stroke is.
package scoring

import (
	"math"

	"github.com/abhisek/circlez/internal/stroke"
)

const (
	// MinPoints is the fewest points a stroke needs before it is scored.
	MinPoints = 10

	// MinScore and MaxScore bound every computed score.
	MinScore = 1
	MaxScore = 100

	// Weights of the composite score.
	RegularityWeight = 0.5
	ClosureWeight    = 0.3
	PointCountWeight = 0.2

	// Point counts strictly inside (PointBandLow, PointBandHigh) score 100.
	PointBandLow  = 50
	PointBandHigh = 200
	// PointTarget is the count the out-of-band penalty is measured from.
	PointTarget = 100
)

// Breakdown holds every intermediate of a score computation.
type Breakdown struct {
	Center          stroke.Point `json:"center"`
	AvgRadius       float64      `json:"avg_radius"`
	StdDev          float64      `json:"std_dev"`
	ClosureDistance float64      `json:"closure_distance"`
	PointCount      int          `json:"point_count"`

	Regularity float64 `json:"regularity"`
	Closure    float64 `json:"closure"`
	PointScore float64 `json:"point_score"`

	// Composite is the weighted sum before clamping and rounding.
	Composite float64 `json:"composite"`
	Score     int     `json:"score"`
}

// Score returns the 1–100 circularity score of s. ok is false when s has
// fewer than MinPoints points.
func Score(s stroke.Stroke) (score int, ok bool) {
	b, ok := Analyze(s)
	if !ok {
		return 0, false
	}
	return b.Score, true
}

// Analyze scores s and reports the components that went into it.
func Analyze(s stroke.Stroke) (Breakdown, bool) {
	n := s.Len()
	if n < MinPoints {
		return Breakdown{PointCount: n}, false
	}

	var cx, cy float64
	for i := range n {
		p := s.At(i)
		cx += p.X
		cy += p.Y
	}
	center := stroke.Point{X: cx / float64(n), Y: cy / float64(n)}

	radii := make([]float64, n)
	var sum float64
	for i := range n {
		radii[i] = s.At(i).Dist(center)
		sum += radii[i]
	}
	avg := sum / float64(n)

	var sq float64
	for _, r := range radii {
		sq += (r - avg) * (r - avg)
	}
	stddev := math.Sqrt(sq / float64(n))

	b := Breakdown{
		Center:          center,
		AvgRadius:       avg,
		StdDev:          stddev,
		ClosureDistance: s.First().Dist(s.Last()),
		PointCount:      n,
		PointScore:      PointCountScore(n),
	}

	// Every point coincides with the center; ratios below are undefined.
	if avg == 0 {
		b.Score = MinScore
		b.Composite = MinScore
		return b, true
	}

	b.Regularity = math.Max(0, 100-(stddev/avg)*200)
	b.Closure = math.Max(0, 100-(b.ClosureDistance/avg)*100)
	b.Composite = RegularityWeight*b.Regularity + ClosureWeight*b.Closure + PointCountWeight*b.PointScore
	b.Score = int(math.Round(clamp(b.Composite, MinScore, MaxScore)))
	return b, true
}

// PointCountScore rewards sample counts inside the (50, 200) band and
// penalises counts outside it linearly by their distance from 100.
func PointCountScore(n int) float64 {
	if n > PointBandLow && n < PointBandHigh {
		return 100
	}
	return math.Max(0, 100-math.Abs(float64(n-PointTarget))*2)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
