package store

import (
	"context"
	"fmt"
)

// Session lifecycle actions.
const (
	SessionStart = "start"
	SessionEnd   = "end"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := builder.Insert("session_events").
		Columns("sequence", "session_id", "action", "attempts", "best", "duration_secs", "created_at").
		Values(seqNum, data.SessionID, data.Action, data.Attempts, data.Best, data.DurationSecs, r.clock().UnixMilli()).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}
