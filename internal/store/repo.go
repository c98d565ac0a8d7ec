package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AttemptEventData captures the metrics of one finished gesture. Point
// coordinates are never stored.
type AttemptEventData struct {
	SessionID       string
	Scored          bool
	Score           int
	Regularity      float64
	Closure         float64
	PointScore      float64
	PointCount      int
	AvgRadius       float64
	StdDev          float64
	ClosureDistance float64
	Grade           string
	NewBest         bool
}

// Attempt is a stored attempt event.
type Attempt struct {
	AttemptEventData
	ID        string
	Sequence  int64
	CreatedAt time.Time
}

// SessionEventData captures the start or end of a drawing session.
type SessionEventData struct {
	SessionID    string
	Action       string // "start" or "end"
	Attempts     int
	Best         int
	DurationSecs int
}

// CoachRequestEventData captures the data for a single coach LLM request.
type CoachRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// Stats aggregates all stored attempts.
type Stats struct {
	Attempts int
	Scored   int
	Best     int
	Average  float64
	Sessions int
	// Grades counts scored attempts per grade label.
	Grades map[string]int
	Last   time.Time
}

// CoachUsage aggregates coach requests per model.
type CoachUsage struct {
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAttempt records a finished gesture and returns the stored event.
	AppendAttempt(ctx context.Context, data AttemptEventData) (*Attempt, error)

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendCoachRequest records a coach LLM call.
	AppendCoachRequest(ctx context.Context, data CoachRequestEventData) error

	// RecentAttempts returns attempts newest first, filtered by opts.
	RecentAttempts(ctx context.Context, opts QueryOpts) ([]Attempt, error)

	// AttemptsAfter returns attempts with sequence > after, oldest first.
	AttemptsAfter(ctx context.Context, after int64, limit int) ([]Attempt, error)

	// Attempt looks up one attempt by id. Returns ErrNotFound if absent.
	Attempt(ctx context.Context, id string) (*Attempt, error)

	// BestScore returns the highest stored score, 0 when none exist.
	BestScore(ctx context.Context) (int, error)

	// Stats aggregates every stored attempt.
	Stats(ctx context.Context) (Stats, error)

	// CoachUsage aggregates coach requests per model.
	CoachUsage(ctx context.Context) ([]CoachUsage, error)

	// Reset deletes every event and rewinds the sequence.
	Reset(ctx context.Context) error
}
