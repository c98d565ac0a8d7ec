package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendCoachRequest(ctx context.Context, data CoachRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := builder.Insert("coach_request_events").
		Columns(
			"sequence", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "created_at",
		).
		Values(
			seqNum, data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, r.clock().UnixMilli(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save coach request event: %w", err)
	}
	return nil
}

type coachUsageRow struct {
	Model        string `sql:"model"`
	Requests     int    `sql:"requests"`
	Failures     int    `sql:"failures"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
}

func (r *eventRepo) CoachUsage(ctx context.Context) ([]CoachUsage, error) {
	q, args := builder.Select(
		"model",
		entsql.As(entsql.Count("*"), "requests"),
		"SUM(CASE WHEN `success` = 0 THEN 1 ELSE 0 END) AS `failures`",
		"SUM(`input_tokens`) AS `input_tokens`",
		"SUM(`output_tokens`) AS `output_tokens`",
	).
		From(builder.Table("coach_request_events")).
		GroupBy("model").
		OrderBy("model").
		Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query coach usage: %w", err)
	}
	defer rows.Close()

	var raw []coachUsageRow
	if err := entsql.ScanSlice(rows, &raw); err != nil {
		return nil, fmt.Errorf("scan coach usage: %w", err)
	}
	out := make([]CoachUsage, len(raw))
	for i, row := range raw {
		out[i] = CoachUsage(row)
	}
	return out, nil
}
