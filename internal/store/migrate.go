package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the tables in creation order. Statements are idempotent so
// they run on every Open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS attempt_events (
		id               TEXT PRIMARY KEY,
		sequence         INTEGER NOT NULL UNIQUE,
		session_id       TEXT NOT NULL,
		scored           INTEGER NOT NULL DEFAULT 0,
		score            INTEGER NOT NULL DEFAULT 0,
		regularity       REAL NOT NULL DEFAULT 0,
		closure          REAL NOT NULL DEFAULT 0,
		point_score      REAL NOT NULL DEFAULT 0,
		point_count      INTEGER NOT NULL DEFAULT 0,
		avg_radius       REAL NOT NULL DEFAULT 0,
		std_dev          REAL NOT NULL DEFAULT 0,
		closure_distance REAL NOT NULL DEFAULT 0,
		grade            TEXT NOT NULL DEFAULT '',
		new_best         INTEGER NOT NULL DEFAULT 0,
		created_at       INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempt_events_session ON attempt_events(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attempt_events_created ON attempt_events(created_at)`,
	`CREATE TABLE IF NOT EXISTS session_events (
		sequence      INTEGER PRIMARY KEY,
		session_id    TEXT NOT NULL,
		action        TEXT NOT NULL,
		attempts      INTEGER NOT NULL DEFAULT 0,
		best          INTEGER NOT NULL DEFAULT 0,
		duration_secs INTEGER NOT NULL DEFAULT 0,
		created_at    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS coach_request_events (
		sequence      INTEGER PRIMARY KEY,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		created_at    INTEGER NOT NULL
	)`,
}

// eventTables are the tables wiped by Reset.
var eventTables = []string{"attempt_events", "session_events", "coach_request_events"}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
