// Package session tracks one player's drawing session: the gesture in
// progress, the finished strokes and the best score so far.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/circlez/internal/scoring"
	"github.com/abhisek/circlez/internal/stroke"
)

// Handle identifies one gesture. Calls with a handle from an earlier
// gesture are ignored.
type Handle struct {
	gen uint64
}

// Valid reports whether the handle came from OnGestureStart.
func (h Handle) Valid() bool { return h.gen != 0 }

// Result describes a finished gesture.
type Result struct {
	Stroke    stroke.Stroke
	Score     int
	Scored    bool
	Breakdown scoring.Breakdown
	Grade     scoring.Grade
	NewBest   bool
	// Attempt is the 1-based count of finished gestures in this session.
	Attempt int
	EndedAt time.Time
}

// Session owns the gesture in progress and the drawing history.
type Session struct {
	ID        string
	StartedAt time.Time

	gen     uint64
	active  stroke.Stroke
	drawing bool

	history  []stroke.Stroke
	results  []Result
	best     int
	attempts int

	now func() time.Time
}

// New creates an empty session. best seeds the best score, e.g. from a
// previous run.
func New(best int) *Session {
	return &Session{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		best:      best,
		now:       time.Now,
	}
}

// OnGestureStart begins a gesture at p. A gesture still in progress is
// abandoned without being scored.
func (s *Session) OnGestureStart(p stroke.Point) Handle {
	s.gen++
	s.active = stroke.Reset(p)
	s.drawing = true
	return Handle{gen: s.gen}
}

// OnGestureMove feeds p into the active gesture. It returns the curve
// segment the point contributes, or nil when the point was filtered out or
// no segment can be formed yet.
func (s *Session) OnGestureMove(h Handle, p stroke.Point) (Handle, *stroke.Segment) {
	if !s.owns(h) {
		return h, nil
	}
	next, ok := s.active.Append(p)
	if !ok {
		return h, nil
	}
	s.active = next
	seg, ok := next.Smooth()
	if !ok {
		return h, nil
	}
	return h, &seg
}

// OnGestureEnd finalizes the gesture, records it in the history and scores
// it. Pointer-up and pointer-leave both end up here. A stale handle yields
// a zero Result.
func (s *Session) OnGestureEnd(h Handle) Result {
	if !s.owns(h) {
		return Result{}
	}
	s.drawing = false
	final := s.active
	s.active = stroke.Stroke{}

	s.history = append(s.history, final)
	s.attempts++

	res := Result{
		Stroke:  final,
		Attempt: s.attempts,
		EndedAt: s.now(),
	}
	if b, ok := scoring.Analyze(final); ok {
		res.Scored = true
		res.Score = b.Score
		res.Breakdown = b
		res.Grade = scoring.GradeFor(b.Score)
		if b.Score > s.best {
			s.best = b.Score
			res.NewBest = true
		}
	} else {
		res.Breakdown = b
	}
	s.results = append(s.results, res)
	return res
}

func (s *Session) owns(h Handle) bool {
	return s.drawing && h.gen == s.gen && h.Valid()
}

// Drawing reports whether a gesture is in progress.
func (s *Session) Drawing() bool { return s.drawing }

// Active returns the stroke of the gesture in progress.
func (s *Session) Active() stroke.Stroke { return s.active }

// History returns the finished strokes in drawing order.
func (s *Session) History() []stroke.Stroke {
	return append([]stroke.Stroke(nil), s.history...)
}

// Results returns the results of every finished gesture.
func (s *Session) Results() []Result {
	return append([]Result(nil), s.results...)
}

// Best returns the best score seen, including the seed passed to New.
func (s *Session) Best() int { return s.best }

// Attempts returns the number of finished gestures.
func (s *Session) Attempts() int { return s.attempts }

// Clear wipes the drawing history. Scores and the best are kept.
func (s *Session) Clear() {
	s.history = nil
}
