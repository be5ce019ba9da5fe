package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterworks/hunter-factory/internal/adapters/driven/storage/memory"
	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

// mockRunService implements driving.RunService for scheduler testing.
type mockRunService struct {
	mu     sync.Mutex
	runs   []string
	runErr error
}

func (m *mockRunService) Run(_ context.Context, template string, _ bool) (*domain.RunResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, template)
	if m.runErr != nil {
		return nil, m.runErr
	}
	return &domain.RunResult{Run: domain.Run{ID: "run-" + template, Status: domain.RunCompleted}}, nil
}

func (m *mockRunService) ranTemplates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.runs))
	copy(out, m.runs)
	return out
}

func TestScheduler_RunsDueTemplatesOnStart(t *testing.T) {
	runner := &mockRunService{}
	sched := NewScheduler(SchedulerConfig{
		Templates:   []string{"news", "github"},
		RunInterval: time.Hour,
	}, runner, nil)

	done := make(chan error, 1)
	go func() { done <- sched.Start(context.Background()) }()

	// The first cycle fires immediately on startup.
	require.Eventually(t, func() bool {
		return len(runner.ranTemplates()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sched.Stop())
	assert.NoError(t, <-done)
	assert.Equal(t, []string{"news", "github"}, runner.ranTemplates())
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	sched := NewScheduler(SchedulerConfig{}, &mockRunService{}, nil)
	assert.NoError(t, sched.Stop())
}

func TestScheduler_StartTwice(t *testing.T) {
	runner := &mockRunService{}
	sched := NewScheduler(SchedulerConfig{
		Templates:   []string{"news"},
		RunInterval: time.Hour,
	}, runner, nil)

	done := make(chan error, 1)
	go func() { done <- sched.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		return len(runner.ranTemplates()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Second Start returns immediately without a second loop.
	assert.NoError(t, sched.Start(context.Background()))

	require.NoError(t, sched.Stop())
	assert.NoError(t, <-done)
}

func TestScheduler_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sched := NewScheduler(SchedulerConfig{RunInterval: time.Hour}, &mockRunService{}, nil)

	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
}

func TestScheduler_DefaultIntervals(t *testing.T) {
	sched := NewScheduler(SchedulerConfig{}, &mockRunService{}, nil)
	assert.Equal(t, DefaultRunInterval, sched.config.RunInterval)
	assert.Equal(t, DefaultPruneInterval, sched.config.PruneInterval)
}

func TestScheduler_PruneOnInterval(t *testing.T) {
	store := memory.NewEmbeddingStore()
	require.NoError(t, store.Insert(context.Background(), domain.EmbeddingRecord{
		Fingerprint: "stale",
		Vector:      []float32{1, 0},
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	}))
	novelty := NewNoveltyFilter(&mockEmbedder{}, store, NoveltyFilterConfig{
		Retention: domain.RetentionPolicy{MaxRecords: 100, MaxAge: 24 * time.Hour},
	})

	sched := NewScheduler(SchedulerConfig{
		RunInterval:   time.Hour,
		PruneInterval: time.Hour,
	}, &mockRunService{}, novelty)

	// Force the sweep due and trigger a check directly.
	sched.stopCh = make(chan struct{})
	sched.nextPrune = time.Now().Add(-time.Minute)
	sched.nextRun = time.Now().Add(time.Hour)
	sched.checkDue(context.Background())
	sched.wg.Wait()

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
