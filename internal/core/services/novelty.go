package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
	"github.com/hunterworks/hunter-factory/internal/logger"
)

// Default novelty filter tuning. All of these are configuration, not
// constants of the domain.
const (
	DefaultSimilarityThreshold = 0.85
	DefaultNeighbours          = 5
	DefaultMaxRecords          = 10000
	DefaultMaxAge              = 180 * 24 * time.Hour
)

// Admission is the outcome of a novelty decision.
type Admission struct {
	// Accepted reports whether the candidate was admitted as novel.
	Accepted bool

	// NearestSimilarity is the highest cosine similarity found among the
	// queried neighbours. Zero when the store was empty.
	NearestSimilarity float64

	// Fingerprint is the candidate's content-derived identifier. Set on
	// acceptance, when the record was inserted under it.
	Fingerprint string
}

// NoveltyFilterConfig tunes the filter.
type NoveltyFilterConfig struct {
	// Threshold is the cosine similarity at or above which a candidate is
	// rejected. Zero selects DefaultSimilarityThreshold.
	Threshold float64

	// Neighbours is the k for nearest-neighbour queries. Zero selects
	// DefaultNeighbours.
	Neighbours int

	// Retention caps the store's growth. Zero values select the defaults.
	Retention domain.RetentionPolicy
}

// NoveltyFilter decides whether a candidate topic is novel enough to run.
// The admission decision and the record insertion are a single atomic unit
// under the filter's mutex: two concurrent candidates that are mutually
// similar above threshold can never both be admitted.
type NoveltyFilter struct {
	embedder  driven.EmbeddingService
	store     driven.EmbeddingStore
	threshold float64
	k         int
	retention domain.RetentionPolicy

	// mu serialises the query-and-insert pair across all concurrent runs.
	mu sync.Mutex
}

// NewNoveltyFilter creates a filter over an embedding service and a
// durable embedding store.
func NewNoveltyFilter(embedder driven.EmbeddingService, store driven.EmbeddingStore, cfg NoveltyFilterConfig) *NoveltyFilter {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultSimilarityThreshold
	}
	if cfg.Neighbours == 0 {
		cfg.Neighbours = DefaultNeighbours
	}
	if cfg.Retention.MaxRecords == 0 {
		cfg.Retention.MaxRecords = DefaultMaxRecords
	}
	if cfg.Retention.MaxAge == 0 {
		cfg.Retention.MaxAge = DefaultMaxAge
	}
	return &NoveltyFilter{
		embedder:  embedder,
		store:     store,
		threshold: cfg.Threshold,
		k:         cfg.Neighbours,
		retention: cfg.Retention,
	}
}

// Admit embeds the candidate's topic text, queries the k nearest stored
// vectors, and either rejects (similarity at or above threshold, store
// untouched) or accepts and inserts the new record before returning.
func (f *NoveltyFilter) Admit(ctx context.Context, candidate domain.CandidateTopic) (Admission, error) {
	if candidate.Text == "" {
		return Admission{}, fmt.Errorf("%w: empty candidate topic", domain.ErrValidation)
	}

	// Embedding is a pure function of the text; it can run outside the
	// admission critical section.
	vector, err := f.embedder.Embed(ctx, candidate.Text)
	if err != nil {
		return Admission{}, fmt.Errorf("embed candidate: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	neighbours, err := f.store.QueryNearest(ctx, vector, f.k)
	if err != nil {
		return Admission{}, fmt.Errorf("query neighbours: %w", err)
	}

	var nearest float64
	for _, n := range neighbours {
		if n.Similarity > nearest {
			nearest = n.Similarity
		}
	}

	if nearest >= f.threshold {
		logger.Debug("candidate rejected: similarity %.3f >= %.2f", nearest, f.threshold)
		return Admission{Accepted: false, NearestSimilarity: nearest}, nil
	}

	rec := domain.EmbeddingRecord{
		Fingerprint: domain.Fingerprint(candidate.Text),
		Vector:      vector,
		CreatedAt:   time.Now().UTC(),
		TopicRef:    candidate.Text,
	}
	if err := f.store.Insert(ctx, rec); err != nil {
		return Admission{}, fmt.Errorf("insert embedding: %w", err)
	}

	logger.Debug("candidate admitted: nearest similarity %.3f", nearest)
	return Admission{Accepted: true, NearestSimilarity: nearest, Fingerprint: rec.Fingerprint}, nil
}

// Prune applies the retention policy to the store. It takes the same
// mutex as Admit so eviction never interleaves with an admission.
func (f *NoveltyFilter) Prune(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.Prune(ctx, f.retention)
}

// Threshold returns the configured rejection threshold.
func (f *NoveltyFilter) Threshold() float64 {
	return f.threshold
}
