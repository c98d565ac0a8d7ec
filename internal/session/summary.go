package session

import (
	"time"

	"github.com/abhisek/circlez/internal/scoring"
)

// Summary holds the data displayed on the summary screen.
type Summary struct {
	SessionID string
	Duration  time.Duration
	Attempts  int
	Scored    int
	Best      int
	// SessionBest is the best score reached in this session alone.
	SessionBest int
	Average     float64
	NewBest     bool
	Tiers       map[scoring.Tier]int
}

// BuildSummary aggregates the session's results.
func BuildSummary(s *Session) *Summary {
	sum := &Summary{
		SessionID: s.ID,
		Duration:  s.now().Sub(s.StartedAt),
		Attempts:  s.attempts,
		Best:      s.best,
		Tiers:     make(map[scoring.Tier]int),
	}

	var total int
	for _, r := range s.results {
		if !r.Scored {
			continue
		}
		sum.Scored++
		total += r.Score
		sum.Tiers[r.Grade.Tier]++
		if r.Score > sum.SessionBest {
			sum.SessionBest = r.Score
		}
		if r.NewBest {
			sum.NewBest = true
		}
	}
	if sum.Scored > 0 {
		sum.Average = float64(total) / float64(sum.Scored)
	}
	return sum
}
