package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Ensure EmbeddingStore implements the interface.
var _ driven.EmbeddingStore = (*EmbeddingStore)(nil)

// EmbeddingStore is an in-memory implementation of driven.EmbeddingStore
// for testing. Nearest-neighbour queries scan all records, same as the
// sqlite store.
type EmbeddingStore struct {
	mu      sync.RWMutex
	records []domain.EmbeddingRecord
}

// NewEmbeddingStore creates a new in-memory embedding store.
func NewEmbeddingStore() *EmbeddingStore {
	return &EmbeddingStore{}
}

// Insert appends a record.
func (s *EmbeddingStore) Insert(_ context.Context, rec domain.EmbeddingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vec := make([]float32, len(rec.Vector))
	copy(vec, rec.Vector)
	rec.Vector = vec
	s.records = append(s.records, rec)
	return nil
}

// QueryNearest returns the k stored vectors nearest to vec by cosine
// similarity, most similar first.
func (s *EmbeddingStore) QueryNearest(_ context.Context, vec []float32, k int) ([]domain.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	neighbours := make([]domain.Neighbor, 0, len(s.records))
	for _, rec := range s.records {
		neighbours = append(neighbours, domain.Neighbor{
			Fingerprint: rec.Fingerprint,
			Similarity:  Cosine(vec, rec.Vector),
		})
	}
	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].Similarity > neighbours[j].Similarity
	})
	if k < len(neighbours) {
		neighbours = neighbours[:k]
	}
	return neighbours, nil
}

// Count returns the number of stored records.
func (s *EmbeddingStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Prune evicts records past the retention policy: first by age, then the
// oldest beyond the record cap.
func (s *EmbeddingStore) Prune(_ context.Context, policy domain.RetentionPolicy) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.records)
	cutoff := time.Now().Add(-policy.MaxAge)

	kept := s.records[:0]
	for _, rec := range s.records {
		if policy.MaxAge > 0 && rec.CreatedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept

	if policy.MaxRecords > 0 && len(s.records) > policy.MaxRecords {
		sort.SliceStable(s.records, func(i, j int) bool {
			return s.records[i].CreatedAt.Before(s.records[j].CreatedAt)
		})
		s.records = s.records[len(s.records)-policy.MaxRecords:]
	}

	return before - len(s.records), nil
}

// Cosine returns the cosine similarity of two vectors, 0 for mismatched
// or zero-magnitude input.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
