package domain

import (
	"fmt"
	"time"
)

// RawItem is a single fetched signal from one source, before scoring.
// Items are immutable once created and are produced only by connectors.
type RawItem struct {
	// Source is the connector name that produced the item (e.g. "github").
	Source string

	// SourceID is the item's identifier within its source. The pair
	// (Source, SourceID) is the item's uniqueness key.
	SourceID string

	// Title is the human-readable headline of the signal.
	Title string

	// URL is the original location of the signal.
	URL string

	// FetchedAt is when the connector observed the item.
	FetchedAt time.Time

	// Payload carries source-specific fields (stars, points, upvotes,
	// summary text). Connectors populate it; scoring reads it.
	Payload map[string]any
}

// Key returns the (source, source_id) uniqueness key.
func (i RawItem) Key() string {
	return i.Source + "/" + i.SourceID
}

// Popularity extracts the source-specific popularity signal from the
// payload. Connectors store it under "popularity" as a float64 or int.
// Missing or malformed values count as zero.
func (i RawItem) Popularity() float64 {
	v, ok := i.Payload["popularity"]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// CandidateTopic is a scored unit derived from one or more raw items,
// subject to novelty admission. Consumed once: either discarded on
// rejection or promoted to a pipeline run.
type CandidateTopic struct {
	// Text is the topic statement fed to the novelty filter and the
	// pipeline's first stage.
	Text string

	// Supporting holds the raw items the topic was derived from.
	Supporting []RawItem

	// Score ranks the candidate against its peers. Deterministic for
	// identical inputs.
	Score float64
}

// ScoreWeights are a template's weighting of the scoring inputs.
type ScoreWeights struct {
	// Recency weights the age decay of an item.
	Recency float64 `yaml:"recency"`

	// Popularity weights the source-specific popularity signal.
	Popularity float64 `yaml:"popularity"`
}

// Validate checks the weights are usable.
func (w ScoreWeights) Validate() error {
	if w.Recency < 0 || w.Popularity < 0 {
		return fmt.Errorf("%w: score weights must be non-negative", ErrConfiguration)
	}
	if w.Recency == 0 && w.Popularity == 0 {
		return fmt.Errorf("%w: at least one score weight must be positive", ErrConfiguration)
	}
	return nil
}
