package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
	"github.com/hunterworks/hunter-factory/internal/logger"
)

// DefaultSourceTimeout bounds each connector fetch independently.
const DefaultSourceTimeout = 30 * time.Second

// recencyHalfLife is the age at which an item's recency contribution
// halves.
const recencyHalfLife = 24 * time.Hour

// Aggregator runs source connectors concurrently and merges their items.
// A connector failure is isolated and recorded; only the loss of every
// requested source fails a collection.
type Aggregator struct {
	connectors    map[string]driven.Connector
	sourceTimeout time.Duration
}

// NewAggregator creates an aggregator over the given connectors.
// sourceTimeout zero selects DefaultSourceTimeout.
func NewAggregator(connectors []driven.Connector, sourceTimeout time.Duration) *Aggregator {
	if sourceTimeout == 0 {
		sourceTimeout = DefaultSourceTimeout
	}
	byName := make(map[string]driven.Connector, len(connectors))
	for _, c := range connectors {
		byName[c.Name()] = c
	}
	return &Aggregator{connectors: byName, sourceTimeout: sourceTimeout}
}

// Sources returns the names of all registered connectors.
func (a *Aggregator) Sources() []string {
	names := make([]string, 0, len(a.connectors))
	for name := range a.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Collect fetches from every requested source concurrently, each with its
// own timeout. Failures are recorded per source and never abort the call;
// the error is non-nil only when zero sources succeed. Items are
// deduplicated by (source, source_id), first occurrence wins, and ordered
// by requested source then connector order.
func (a *Aggregator) Collect(ctx context.Context, sources []string) ([]domain.RawItem, map[string]error, error) {
	sources = dedupeSources(sources)
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("%w: no sources requested", domain.ErrAllSourcesUnavailable)
	}

	type result struct {
		items []domain.RawItem
		err   error
	}
	results := make([]result, len(sources))

	var wg sync.WaitGroup
	for i, name := range sources {
		conn, ok := a.connectors[name]
		if !ok {
			results[i].err = fmt.Errorf("%w: unknown source %q", domain.ErrSourceUnavailable, name)
			continue
		}

		wg.Add(1)
		go func(i int, conn driven.Connector) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
			defer cancel()

			items, err := conn.Fetch(fetchCtx, driven.SourceParams{})
			if err != nil {
				results[i].err = err
				return
			}
			results[i].items = items
		}(i, conn)
	}
	wg.Wait()

	failures := make(map[string]error)
	seen := make(map[string]struct{})
	var merged []domain.RawItem

	for i, name := range sources {
		if results[i].err != nil {
			logger.Warn("source %s failed: %v", name, results[i].err)
			failures[name] = results[i].err
			continue
		}
		for _, item := range results[i].items {
			if _, dup := seen[item.Key()]; dup {
				continue
			}
			seen[item.Key()] = struct{}{}
			merged = append(merged, item)
		}
	}

	if len(failures) == len(sources) {
		return nil, failures, fmt.Errorf("%w: %d sources requested, none succeeded",
			domain.ErrAllSourcesUnavailable, len(sources))
	}

	logger.Debug("collected %d items from %d/%d sources",
		len(merged), len(sources)-len(failures), len(sources))
	return merged, failures, nil
}

// dedupeSources drops repeated source names, keeping first-occurrence
// order. A repeated name must count once, or the failures map shrinks
// below the request count and masks the all-failed condition.
func dedupeSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	unique := sources[:0:0]
	for _, name := range sources {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}

// Score turns raw items into ranked candidate topics. It is a pure
// function of the items, the template's weights, and the reference time:
// identical inputs produce identical output, ties break on item key.
func Score(items []domain.RawItem, weights domain.ScoreWeights, now time.Time) []domain.CandidateTopic {
	candidates := make([]domain.CandidateTopic, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, domain.CandidateTopic{
			Text:       item.Title,
			Supporting: []domain.RawItem{item},
			Score:      scoreItem(item, weights, now),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Supporting[0].Key() < candidates[j].Supporting[0].Key()
	})
	return candidates
}

// scoreItem combines exponential recency decay with a log-damped
// popularity signal under the template's weights.
func scoreItem(item domain.RawItem, weights domain.ScoreWeights, now time.Time) float64 {
	age := now.Sub(item.FetchedAt)
	if age < 0 {
		age = 0
	}
	recency := math.Exp2(-age.Hours() / recencyHalfLife.Hours())
	popularity := math.Log1p(item.Popularity())
	return weights.Recency*recency + weights.Popularity*popularity
}
