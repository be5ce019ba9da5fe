package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is an in-memory implementation of driven.ArtifactStore for
// testing.
type ArtifactStore struct {
	mu        sync.RWMutex
	artifacts map[string][]domain.StoredArtifact
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{artifacts: make(map[string][]domain.StoredArtifact)}
}

// Save stores one stage artifact for a run.
func (s *ArtifactStore) Save(_ context.Context, artifact domain.StoredArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content := make([]byte, len(artifact.Content))
	copy(content, artifact.Content)
	artifact.Content = content
	s.artifacts[artifact.RunID] = append(s.artifacts[artifact.RunID], artifact)
	return nil
}

// ListByRun returns a run's artifacts in stage order.
func (s *ArtifactStore) ListByRun(_ context.Context, runID string) ([]domain.StoredArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifacts := make([]domain.StoredArtifact, len(s.artifacts[runID]))
	copy(artifacts, s.artifacts[runID])
	sort.SliceStable(artifacts, func(i, j int) bool {
		return artifacts[i].Stage.Index() < artifacts[j].Stage.Index()
	})
	return artifacts, nil
}
