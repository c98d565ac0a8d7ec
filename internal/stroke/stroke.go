// Package stroke samples pointer positions into a jitter-filtered point
// sequence and derives the smoothed curve segments used for rendering.
package stroke

import "math"

// JitterThreshold is the minimum distance, in device pixels, between two
// consecutive accepted points.
const JitterThreshold = 3.0

// Point is a position in canvas-local device pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Stroke is the filtered point sequence of one gesture. It behaves like a
// value: Append never modifies points a previously returned Stroke can see.
type Stroke struct {
	points []Point
}

// Reset starts a new stroke containing only seed.
func Reset(seed Point) Stroke {
	return Stroke{points: []Point{seed}}
}

// FromPoints builds a stroke from already-filtered points, e.g. when
// replaying a finished stroke. The slice is copied.
func FromPoints(pts []Point) Stroke {
	return Stroke{points: append([]Point(nil), pts...)}
}

// Append returns s extended by candidate, or s unchanged and false when
// candidate lies closer than JitterThreshold to the last accepted point.
func (s Stroke) Append(candidate Point) (Stroke, bool) {
	if n := len(s.points); n > 0 && s.points[n-1].Dist(candidate) < JitterThreshold {
		return s, false
	}
	// Full slice expression forces a copy once the backing array is shared.
	pts := append(s.points[:len(s.points):len(s.points)], candidate)
	return Stroke{points: pts}, true
}

// Len returns the number of accepted points.
func (s Stroke) Len() int { return len(s.points) }

// Empty reports whether the stroke has no points.
func (s Stroke) Empty() bool { return len(s.points) == 0 }

// At returns the i-th point.
func (s Stroke) At(i int) Point { return s.points[i] }

// First returns the seed point. It panics on an empty stroke.
func (s Stroke) First() Point { return s.points[0] }

// Last returns the most recently accepted point. It panics on an empty stroke.
func (s Stroke) Last() Point { return s.points[len(s.points)-1] }

// Points returns a copy of the accepted points in drawing order.
func (s Stroke) Points() []Point {
	return append([]Point(nil), s.points...)
}

// Length returns the polyline length of the stroke.
func (s Stroke) Length() float64 {
	var d float64
	for i := 1; i < len(s.points); i++ {
		d += s.points[i-1].Dist(s.points[i])
	}
	return d
}
