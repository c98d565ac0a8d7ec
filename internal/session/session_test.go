package session

import (
	"math"
	"testing"
	"time"

	"github.com/abhisek/circlez/internal/scoring"
	"github.com/abhisek/circlez/internal/stroke"
)

func circle(n int, r float64) []stroke.Point {
	pts := make([]stroke.Point, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = stroke.Point{X: 200 + r*math.Cos(a), Y: 200 + r*math.Sin(a)}
	}
	return append(pts, pts[0])
}

func draw(s *Session, pts []stroke.Point) (Result, int) {
	h := s.OnGestureStart(pts[0])
	segs := 0
	for _, p := range pts[1:] {
		var seg *stroke.Segment
		h, seg = s.OnGestureMove(h, p)
		if seg != nil {
			segs++
		}
	}
	return s.OnGestureEnd(h), segs
}

func TestGesture_ScoresCircle(t *testing.T) {
	s := New(0)
	res, segs := draw(s, circle(100, 120))

	if !res.Scored {
		t.Fatal("Scored = false, want true")
	}
	if res.Score < 95 {
		t.Errorf("Score = %d, want >= 95", res.Score)
	}
	if !res.NewBest {
		t.Error("NewBest = false on first scored attempt")
	}
	if res.Attempt != 1 {
		t.Errorf("Attempt = %d, want 1", res.Attempt)
	}
	if segs != res.Stroke.Len()-1 {
		t.Errorf("segments = %d, want %d", segs, res.Stroke.Len()-1)
	}
	if s.Best() != res.Score {
		t.Errorf("Best() = %d, want %d", s.Best(), res.Score)
	}
	if s.Drawing() {
		t.Error("Drawing() = true after gesture end")
	}
}

func TestGesture_MoveEmitsSegments(t *testing.T) {
	s := New(0)
	h := s.OnGestureStart(stroke.Point{X: 0, Y: 0})

	h, seg := s.OnGestureMove(h, stroke.Point{X: 1, Y: 1})
	if seg != nil {
		t.Fatalf("jittered move returned segment %+v", seg)
	}

	h, seg = s.OnGestureMove(h, stroke.Point{X: 10, Y: 0})
	if seg == nil || seg.Kind != stroke.Line {
		t.Fatalf("second point segment = %+v, want line", seg)
	}

	_, seg = s.OnGestureMove(h, stroke.Point{X: 10, Y: 10})
	if seg == nil || seg.Kind != stroke.Quad {
		t.Fatalf("third point segment = %+v, want quad", seg)
	}
	if got := s.Active().Len(); got != 3 {
		t.Errorf("Active().Len() = %d, want 3", got)
	}
}

func TestGesture_ShortStrokeNotScored(t *testing.T) {
	s := New(40)
	res, _ := draw(s, circle(5, 50))

	if res.Scored {
		t.Errorf("Scored = true for %d points", res.Stroke.Len())
	}
	if res.Score != 0 {
		t.Errorf("Score = %d, want 0 when unscored", res.Score)
	}
	if s.Best() != 40 {
		t.Errorf("Best() = %d, want 40", s.Best())
	}
	if len(s.History()) != 1 {
		t.Errorf("len(History()) = %d, want 1", len(s.History()))
	}
}

func TestGesture_BestOnlyImproves(t *testing.T) {
	s := New(0)
	first, _ := draw(s, circle(100, 100))

	// An open arc scores far lower.
	arc := make([]stroke.Point, 120)
	for i := range arc {
		a := math.Pi * float64(i) / float64(len(arc)-1)
		arc[i] = stroke.Point{X: 300 + 100*math.Cos(a), Y: 300 + 100*math.Sin(a)}
	}
	second, _ := draw(s, arc)

	if second.NewBest {
		t.Error("NewBest = true for a worse attempt")
	}
	if s.Best() != first.Score {
		t.Errorf("Best() = %d, want %d", s.Best(), first.Score)
	}
	if second.Attempt != 2 {
		t.Errorf("Attempt = %d, want 2", second.Attempt)
	}
}

func TestGesture_StaleHandleIgnored(t *testing.T) {
	s := New(0)
	old := s.OnGestureStart(stroke.Point{X: 0, Y: 0})
	cur := s.OnGestureStart(stroke.Point{X: 100, Y: 100})

	if _, seg := s.OnGestureMove(old, stroke.Point{X: 50, Y: 50}); seg != nil {
		t.Error("stale handle produced a segment")
	}
	if res := s.OnGestureEnd(old); res.Attempt != 0 {
		t.Errorf("stale end Attempt = %d, want 0", res.Attempt)
	}
	if !s.Drawing() {
		t.Fatal("current gesture ended by stale handle")
	}
	if res := s.OnGestureEnd(cur); res.Attempt != 1 {
		t.Errorf("Attempt = %d, want 1", res.Attempt)
	}
	// Ending twice is a no-op.
	if res := s.OnGestureEnd(cur); res.Attempt != 0 {
		t.Errorf("second end Attempt = %d, want 0", res.Attempt)
	}
}

func TestGesture_ZeroHandle(t *testing.T) {
	s := New(0)
	var h Handle
	if h.Valid() {
		t.Fatal("zero Handle is valid")
	}
	if _, seg := s.OnGestureMove(h, stroke.Point{X: 1, Y: 1}); seg != nil {
		t.Error("zero handle produced a segment")
	}
}

func TestClearKeepsBest(t *testing.T) {
	s := New(0)
	draw(s, circle(80, 90))
	best := s.Best()

	s.Clear()
	if len(s.History()) != 0 {
		t.Errorf("len(History()) = %d after Clear, want 0", len(s.History()))
	}
	if s.Best() != best {
		t.Errorf("Best() = %d after Clear, want %d", s.Best(), best)
	}
	if s.Attempts() != 1 {
		t.Errorf("Attempts() = %d after Clear, want 1", s.Attempts())
	}
}

func TestHistoryIsCopy(t *testing.T) {
	s := New(0)
	draw(s, circle(30, 60))
	h := s.History()
	h[0] = stroke.Stroke{}
	if s.History()[0].Empty() {
		t.Error("mutating History() result changed the session")
	}
}

func TestBuildSummary(t *testing.T) {
	s := New(0)
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s.StartedAt = start
	s.now = func() time.Time { return start.Add(90 * time.Second) }

	a, _ := draw(s, circle(100, 100))
	draw(s, circle(4, 100))
	b, _ := draw(s, circle(60, 50))

	sum := BuildSummary(s)
	if sum.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", sum.Attempts)
	}
	if sum.Scored != 2 {
		t.Errorf("Scored = %d, want 2", sum.Scored)
	}
	wantAvg := float64(a.Score+b.Score) / 2
	if math.Abs(sum.Average-wantAvg) > 1e-9 {
		t.Errorf("Average = %f, want %f", sum.Average, wantAvg)
	}
	if sum.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 1m30s", sum.Duration)
	}
	if !sum.NewBest {
		t.Error("NewBest = false, want true")
	}
	total := 0
	for _, tier := range scoring.Tiers() {
		total += sum.Tiers[tier]
	}
	if total != 2 {
		t.Errorf("tier counts sum to %d, want 2", total)
	}
}

func TestBuildSummary_SeededBestNotBeaten(t *testing.T) {
	s := New(100)
	draw(s, circle(100, 100))
	sum := BuildSummary(s)
	if sum.NewBest {
		t.Error("NewBest = true although seeded best was 100")
	}
	if sum.Best != 100 {
		t.Errorf("Best = %d, want 100", sum.Best)
	}
	if sum.SessionBest == 0 {
		t.Error("SessionBest = 0, want the attempt's score")
	}
}
