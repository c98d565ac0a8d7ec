// Package feed shares finished attempts with other machines: an in-process
// hub, an HTTP/WebSocket server, a client, and mDNS discovery.
package feed

import (
	"time"

	"github.com/abhisek/circlez/internal/store"
)

// AttemptEvent is the wire form of one finished gesture.
type AttemptEvent struct {
	Sequence   int64     `json:"sequence"`
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Source     string    `json:"source,omitempty"`
	Scored     bool      `json:"scored"`
	Score      int       `json:"score"`
	Grade      string    `json:"grade,omitempty"`
	Regularity float64   `json:"regularity"`
	Closure    float64   `json:"closure"`
	PointScore float64   `json:"point_score"`
	PointCount int       `json:"point_count"`
	NewBest    bool      `json:"new_best"`
	At         time.Time `json:"at"`
}

// FromAttempt converts a stored attempt. source names the publishing
// instance.
func FromAttempt(a store.Attempt, source string) AttemptEvent {
	return AttemptEvent{
		Sequence:   a.Sequence,
		ID:         a.ID,
		SessionID:  a.SessionID,
		Source:     source,
		Scored:     a.Scored,
		Score:      a.Score,
		Grade:      a.Grade,
		Regularity: a.Regularity,
		Closure:    a.Closure,
		PointScore: a.PointScore,
		PointCount: a.PointCount,
		NewBest:    a.NewBest,
		At:         a.CreatedAt,
	}
}
