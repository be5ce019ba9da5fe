package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterworks/hunter-factory/internal/adapters/driven/storage/memory"
	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

func noveltyFixture(t *testing.T) (*NoveltyFilter, *memory.EmbeddingStore) {
	t.Helper()
	store := memory.NewEmbeddingStore()
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"Vector databases in production":  {1, 0, 0},
		"Vector databases in production!": {0.99, 0.14, 0},
		"Why Go won the cloud":            {0, 1, 0},
	}}
	filter := NewNoveltyFilter(embedder, store, NoveltyFilterConfig{})
	return filter, store
}

func candidate(text string) domain.CandidateTopic {
	return domain.CandidateTopic{Text: text, Score: 1}
}

func TestNoveltyFilter_AdmitsNovelThenRejectsNearDuplicate(t *testing.T) {
	ctx := context.Background()
	filter, store := noveltyFixture(t)

	first, err := filter.Admit(ctx, candidate("Vector databases in production"))
	require.NoError(t, err)
	assert.True(t, first.Accepted)
	assert.NotEmpty(t, first.Fingerprint)

	// Near-identical phrasing embeds almost parallel and must be rejected.
	second, err := filter.Admit(ctx, candidate("Vector databases in production!"))
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.GreaterOrEqual(t, second.NearestSimilarity, DefaultSimilarityThreshold)

	// Rejection leaves the store untouched.
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNoveltyFilter_AdmitsDistinctTopic(t *testing.T) {
	ctx := context.Background()
	filter, store := noveltyFixture(t)

	_, err := filter.Admit(ctx, candidate("Vector databases in production"))
	require.NoError(t, err)

	admission, err := filter.Admit(ctx, candidate("Why Go won the cloud"))
	require.NoError(t, err)
	assert.True(t, admission.Accepted)
	assert.Less(t, admission.NearestSimilarity, DefaultSimilarityThreshold)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNoveltyFilter_RejectsReadmission(t *testing.T) {
	ctx := context.Background()
	filter, _ := noveltyFixture(t)

	first, err := filter.Admit(ctx, candidate("Vector databases in production"))
	require.NoError(t, err)
	require.True(t, first.Accepted)

	again, err := filter.Admit(ctx, candidate("Vector databases in production"))
	require.NoError(t, err)
	assert.False(t, again.Accepted)
	assert.InDelta(t, 1.0, again.NearestSimilarity, 1e-6)
}

func TestNoveltyFilter_ConcurrentSimilarCandidates(t *testing.T) {
	ctx := context.Background()
	filter, store := noveltyFixture(t)

	// Two mutually similar candidates race: exactly one may win.
	texts := []string{
		"Vector databases in production",
		"Vector databases in production!",
	}

	var wg sync.WaitGroup
	accepted := make([]bool, len(texts))
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			admission, err := filter.Admit(ctx, candidate(text))
			assert.NoError(t, err)
			accepted[i] = admission.Accepted
		}(i, text)
	}
	wg.Wait()

	wins := 0
	for _, ok := range accepted {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNoveltyFilter_EmptyCandidate(t *testing.T) {
	filter, _ := noveltyFixture(t)

	_, err := filter.Admit(context.Background(), candidate(""))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNoveltyFilter_EmbedFailure(t *testing.T) {
	store := memory.NewEmbeddingStore()
	embedder := &mockEmbedder{embedErr: errors.New("embedding api down")}
	filter := NewNoveltyFilter(embedder, store, NoveltyFilterConfig{})

	_, err := filter.Admit(context.Background(), candidate("anything"))
	require.Error(t, err)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNoveltyFilter_ConfigDefaults(t *testing.T) {
	filter := NewNoveltyFilter(&mockEmbedder{}, memory.NewEmbeddingStore(), NoveltyFilterConfig{})
	assert.Equal(t, DefaultSimilarityThreshold, filter.Threshold())

	custom := NewNoveltyFilter(&mockEmbedder{}, memory.NewEmbeddingStore(),
		NoveltyFilterConfig{Threshold: 0.7})
	assert.Equal(t, 0.7, custom.Threshold())
}
