// Package history records query executions in the metadata store and prunes
// old entries on a schedule.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Entry is one recorded query execution.
type Entry struct {
	ID         int64
	QueryID    string
	SQL        string
	Status     string
	JobID      string
	Error      *string
	DurationMs int64
	CreatedAt  time.Time
}

// Repo reads and writes query_history rows.
type Repo struct {
	pool *sql.DB
}

// NewRepo wraps an already-open, migrated metadata database.
func NewRepo(pool *sql.DB) *Repo {
	return &Repo{pool: pool}
}

// Insert records one execution.
func (r *Repo) Insert(ctx context.Context, e *Entry) error {
	res, err := r.pool.ExecContext(ctx,
		`INSERT INTO query_history (query_id, sql_text, status, job_id, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.QueryID, e.SQL, e.Status, e.JobID, e.Error, e.DurationMs,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert query history: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

// List returns the most recent entries, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.QueryContext(ctx,
		`SELECT id, query_id, sql_text, status, job_id, error, duration_ms, created_at
		 FROM query_history
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.QueryID, &e.SQL, &e.Status, &e.JobID,
			&e.Error, &e.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan query history: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes entries created before cutoff and reports how many
// were removed.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.pool.ExecContext(ctx,
		`DELETE FROM query_history WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune query history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
