package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores or updates a run record.
func (s *runStore) Save(ctx context.Context, run domain.Run) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, template, topic, status, stage, failure, reason, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			stage = excluded.stage,
			failure = excluded.failure,
			reason = excluded.reason,
			ended_at = excluded.ended_at
	`, run.ID, run.Template, run.Topic, string(run.Status), string(run.Stage),
		string(run.Failure), run.Reason,
		run.StartedAt.UTC().Format(time.RFC3339), formatNullableTime(run.EndedAt))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.Run, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, template, topic, status, stage, failure, reason, started_at, ended_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs, newest first.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, template, topic, status, stage, failure, reason, started_at, ended_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// scanRun reads one run row through the given scan function.
func scanRun(scan func(...any) error) (*domain.Run, error) {
	var run domain.Run
	var status, stage, failure, startedAt string
	var endedAt sql.NullString

	err := scan(&run.ID, &run.Template, &run.Topic, &status, &stage,
		&failure, &run.Reason, &startedAt, &endedAt)
	if err != nil {
		return nil, err
	}

	run.Status = domain.RunStatus(status)
	run.Stage = domain.Stage(stage)
	run.Failure = domain.FailureKind(failure)
	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = t
	}
	run.EndedAt = parseNullableTime(endedAt)
	return &run, nil
}

// formatNullableTime formats a time to RFC3339, or nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
