package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const attemptTable = "attempt_events"

var attemptColumns = []string{
	"id", "sequence", "session_id", "scored", "score", "regularity",
	"closure", "point_score", "point_count", "avg_radius", "std_dev",
	"closure_distance", "grade", "new_best", "created_at",
}

// attemptRow mirrors one attempt_events row for entsql.ScanSlice.
type attemptRow struct {
	ID              string  `sql:"id"`
	Sequence        int64   `sql:"sequence"`
	SessionID       string  `sql:"session_id"`
	Scored          bool    `sql:"scored"`
	Score           int     `sql:"score"`
	Regularity      float64 `sql:"regularity"`
	Closure         float64 `sql:"closure"`
	PointScore      float64 `sql:"point_score"`
	PointCount      int     `sql:"point_count"`
	AvgRadius       float64 `sql:"avg_radius"`
	StdDev          float64 `sql:"std_dev"`
	ClosureDistance float64 `sql:"closure_distance"`
	Grade           string  `sql:"grade"`
	NewBest         bool    `sql:"new_best"`
	CreatedAt       int64   `sql:"created_at"`
}

func (r attemptRow) attempt() Attempt {
	return Attempt{
		ID:        r.ID,
		Sequence:  r.Sequence,
		CreatedAt: time.UnixMilli(r.CreatedAt),
		AttemptEventData: AttemptEventData{
			SessionID:       r.SessionID,
			Scored:          r.Scored,
			Score:           r.Score,
			Regularity:      r.Regularity,
			Closure:         r.Closure,
			PointScore:      r.PointScore,
			PointCount:      r.PointCount,
			AvgRadius:       r.AvgRadius,
			StdDev:          r.StdDev,
			ClosureDistance: r.ClosureDistance,
			Grade:           r.Grade,
			NewBest:         r.NewBest,
		},
	}
}

// eventRepo implements EventRepo on top of database/sql, with statements
// built by ent's SQL builder.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) (*Attempt, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("next sequence: %w", err)
	}

	a := &Attempt{
		AttemptEventData: data,
		ID:               uuid.New().String(),
		Sequence:         seqNum,
		CreatedAt:        r.clock().Truncate(time.Millisecond),
	}

	q, args := builder.Insert(attemptTable).
		Columns(attemptColumns...).
		Values(
			a.ID, a.Sequence, data.SessionID, data.Scored, data.Score, data.Regularity,
			data.Closure, data.PointScore, data.PointCount, data.AvgRadius, data.StdDev,
			data.ClosureDistance, data.Grade, data.NewBest, a.CreatedAt.UnixMilli(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("save attempt event: %w", err)
	}
	return a, nil
}

func (r *eventRepo) RecentAttempts(ctx context.Context, opts QueryOpts) ([]Attempt, error) {
	sel := builder.Select(attemptColumns...).
		From(builder.Table(attemptTable)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)
	return r.queryAttempts(ctx, sel)
}

func (r *eventRepo) AttemptsAfter(ctx context.Context, after int64, limit int) ([]Attempt, error) {
	sel := builder.Select(attemptColumns...).
		From(builder.Table(attemptTable)).
		Where(entsql.GT("sequence", after)).
		OrderBy("sequence")
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.queryAttempts(ctx, sel)
}

func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func (r *eventRepo) queryAttempts(ctx context.Context, sel *entsql.Selector) ([]Attempt, error) {
	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var raw []attemptRow
	if err := entsql.ScanSlice(rows, &raw); err != nil {
		return nil, fmt.Errorf("scan attempts: %w", err)
	}
	out := make([]Attempt, len(raw))
	for i, row := range raw {
		out[i] = row.attempt()
	}
	return out, nil
}

func (r *eventRepo) BestScore(ctx context.Context) (int, error) {
	q, args := builder.Select("COALESCE(MAX(`score`), 0)").
		From(builder.Table(attemptTable)).
		Where(entsql.EQ("scored", true)).
		Query()

	var best int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&best); err != nil {
		return 0, fmt.Errorf("query best score: %w", err)
	}
	return best, nil
}

func (r *eventRepo) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Grades: make(map[string]int)}

	q, args := builder.Select(
		entsql.As(entsql.Count("*"), "attempts"),
		"COALESCE(SUM(`scored`), 0) AS `scored`",
		"COUNT(DISTINCT `session_id`) AS `sessions`",
		"COALESCE(MAX(`created_at`), 0) AS `last`",
	).From(builder.Table(attemptTable)).Query()

	var last int64
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&st.Attempts, &st.Scored, &st.Sessions, &last)
	if err != nil {
		return Stats{}, fmt.Errorf("query attempt totals: %w", err)
	}
	if last > 0 {
		st.Last = time.UnixMilli(last)
	}
	if st.Scored == 0 {
		return st, nil
	}

	q, args = builder.Select(
		"COALESCE(MAX(`score`), 0) AS `best`",
		"COALESCE(AVG(`score`), 0) AS `average`",
	).From(builder.Table(attemptTable)).Where(entsql.EQ("scored", true)).Query()
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&st.Best, &st.Average); err != nil {
		return Stats{}, fmt.Errorf("query score totals: %w", err)
	}

	q, args = builder.Select("grade", entsql.As(entsql.Count("*"), "n")).
		From(builder.Table(attemptTable)).
		Where(entsql.EQ("scored", true)).
		GroupBy("grade").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("query grades: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var grade string
		var n int
		if err := rows.Scan(&grade, &n); err != nil {
			return Stats{}, fmt.Errorf("scan grade: %w", err)
		}
		st.Grades[grade] = n
	}
	return st, rows.Err()
}

// Attempt returns the attempt with the given id.
func (r *eventRepo) Attempt(ctx context.Context, id string) (*Attempt, error) {
	sel := builder.Select(attemptColumns...).
		From(builder.Table(attemptTable)).
		Where(entsql.EQ("id", id))
	got, err := r.queryAttempts(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}
	return &got[0], nil
}

func (r *eventRepo) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range eventTables {
		q, args := builder.Delete(table).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := r.seq.reset(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
