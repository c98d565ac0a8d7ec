package stroke

// SegmentKind distinguishes straight from curved segments.
type SegmentKind int

const (
	// Line is a straight segment from From to To.
	Line SegmentKind = iota
	// Quad is a quadratic Bézier from From through Ctrl to To.
	Quad
)

func (k SegmentKind) String() string {
	if k == Quad {
		return "quad"
	}
	return "line"
}

// Segment is one incremental piece of the smoothed curve.
type Segment struct {
	Kind SegmentKind
	From Point
	Ctrl Point // unused for Line
	To   Point
	// Head is the newest stroke point. Colour gradients run from Ctrl to
	// Head.
	Head Point

	// Index is the number of points the stroke held when the segment was
	// produced.
	Index int
	// Step is the distance between the two most recent points.
	Step float64
}

// Smooth derives the segment contributed by the most recent point.
//
// With three or more points p1, p2, p3 at the tail, the curve runs from
// mid(p1,p2) to mid(p2,p3) with p2 as control point, so each new point
// rounds off the corner at its predecessor. Two points yield a straight
// line. Fewer yield nothing.
func (s Stroke) Smooth() (Segment, bool) {
	n := len(s.points)
	switch {
	case n >= 3:
		p1, p2, p3 := s.points[n-3], s.points[n-2], s.points[n-1]
		return Segment{
			Kind:  Quad,
			From:  p1.Mid(p2),
			Ctrl:  p2,
			To:    p2.Mid(p3),
			Head:  p3,
			Index: n,
			Step:  p2.Dist(p3),
		}, true
	case n == 2:
		p1, p2 := s.points[0], s.points[1]
		return Segment{
			Kind:  Line,
			From:  p1,
			To:    p2,
			Head:  p2,
			Index: n,
			Step:  p1.Dist(p2),
		}, true
	default:
		return Segment{}, false
	}
}

// Replay returns every segment the stroke produced while it was drawn, in
// order. Renderers use it to redraw finished strokes.
func Replay(s Stroke) []Segment {
	if len(s.points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(s.points)-1)
	for n := 2; n <= len(s.points); n++ {
		seg, _ := Stroke{points: s.points[:n]}.Smooth()
		segs = append(segs, seg)
	}
	return segs
}
