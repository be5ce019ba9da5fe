package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// artifactStore implements driven.ArtifactStore.
type artifactStore struct {
	store *Store
}

var _ driven.ArtifactStore = (*artifactStore)(nil)

// Save stores one stage artifact for a run.
func (s *artifactStore) Save(ctx context.Context, artifact domain.StoredArtifact) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO artifacts (run_id, stage, content, created_at)
		VALUES (?, ?, ?, ?)
	`, artifact.RunID, string(artifact.Stage), artifact.Content,
		artifact.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving artifact: %w", err)
	}
	return nil
}

// ListByRun returns a run's artifacts in stage order.
func (s *artifactStore) ListByRun(ctx context.Context, runID string) ([]domain.StoredArtifact, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id, stage, content, created_at
		FROM artifacts WHERE run_id = ? ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []domain.StoredArtifact
	for rows.Next() {
		var a domain.StoredArtifact
		var stage, createdAt string
		if err := rows.Scan(&a.RunID, &stage, &a.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		a.Stage = domain.Stage(stage)
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			a.CreatedAt = t
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artifacts: %w", err)
	}
	return artifacts, nil
}
