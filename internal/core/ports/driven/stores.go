package driven

import (
	"context"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

// EmbeddingStore persists topic embeddings for the novelty filter. The
// store must be durable before it is queried: Insert returns only after the
// record is committed. Callers serialise admission themselves; the store
// only guarantees each call is individually atomic.
type EmbeddingStore interface {
	// Insert appends a record. Records are never updated.
	Insert(ctx context.Context, rec domain.EmbeddingRecord) error

	// QueryNearest returns the k stored vectors nearest to vec by cosine
	// similarity, most similar first.
	QueryNearest(ctx context.Context, vec []float32, k int) ([]domain.Neighbor, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Prune evicts records per the retention policy and returns how many
	// were removed. Runs out-of-band, never during an admission.
	Prune(ctx context.Context, policy domain.RetentionPolicy) (int, error)
}

// RunStore persists run records for audit.
type RunStore interface {
	// Save stores or updates a run record.
	Save(ctx context.Context, run domain.Run) error

	// Get retrieves a run by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.Run, error)
}

// ArtifactStore persists per-stage artifacts. Artifacts from aborted runs
// are retained for diagnostics.
type ArtifactStore interface {
	// Save stores one stage artifact for a run.
	Save(ctx context.Context, artifact domain.StoredArtifact) error

	// ListByRun returns a run's artifacts in stage order.
	ListByRun(ctx context.Context, runID string) ([]domain.StoredArtifact, error)
}

// ConfigStore provides typed access to persisted configuration values.
type ConfigStore interface {
	// Get retrieves a raw value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when absent.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false when absent.
	GetBool(key string) bool

	// Set stores a value and persists it.
	Set(key string, value any) error
}

// TemplateStore loads template definitions.
type TemplateStore interface {
	// Load returns all template definitions keyed by name.
	Load() (map[string]domain.TemplateConfig, error)
}
