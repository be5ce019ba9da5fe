package services

import (
	"context"
	"sync"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockConnector implements driven.Connector for testing.
type mockConnector struct {
	name     string
	items    []domain.RawItem
	fetchErr error
	delay    time.Duration

	mu    sync.Mutex
	calls int
}

func (m *mockConnector) Name() string { return m.name }

func (m *mockConnector) Fetch(ctx context.Context, _ driven.SourceParams) ([]domain.RawItem, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.items, nil
}

func (m *mockConnector) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockEmbedder implements driven.EmbeddingService for testing. Vectors are
// looked up by text so tests control similarity exactly.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	embedErr error

	mu    sync.Mutex
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) Dimensions() int            { return 3 }
func (m *mockEmbedder) ModelName() string          { return "mock-embedder" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

// mockModel implements driven.ModelService for testing. Responses are
// consumed in order; each entry is one Complete call.
type mockModel struct {
	mu        sync.Mutex
	responses []modelResponse
	prompts   []string
}

type modelResponse struct {
	out string
	err error
}

func (m *mockModel) Complete(_ context.Context, prompt, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp.out, resp.err
}

func (m *mockModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockModel) ModelName() string          { return "mock-model" }
func (m *mockModel) Ping(context.Context) error { return nil }
func (m *mockModel) Close() error               { return nil }

// mockOutputStore implements driven.OutputStore for testing.
type mockOutputStore struct {
	location string
	writeErr error

	mu      sync.Mutex
	written map[string]string
}

func (m *mockOutputStore) Write(_ context.Context, id, content string) (string, error) {
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.written == nil {
		m.written = make(map[string]string)
	}
	m.written[id] = content
	return m.location, nil
}

// mockChannel implements driven.NotificationChannel for testing.
// failures is the number of Send calls that fail before one succeeds.
type mockChannel struct {
	failures int
	sendErr  error

	mu    sync.Mutex
	sent  []string
	calls int
}

func (m *mockChannel) Send(_ context.Context, title, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.calls <= m.failures {
		return m.sendErr
	}
	m.sent = append(m.sent, title)
	return nil
}

// mockTemplateStore implements driven.TemplateStore for testing.
type mockTemplateStore struct {
	templates map[string]domain.TemplateConfig
	loadErr   error
}

func (m *mockTemplateStore) Load() (map[string]domain.TemplateConfig, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.templates, nil
}

// --- Shared fixtures ---

func testTemplate(name string, sources ...string) domain.TemplateConfig {
	if len(sources) == 0 {
		sources = []string{"hackernews"}
	}
	return domain.TemplateConfig{
		Name:        name,
		Description: "test template",
		Sources:     sources,
		StagePrompts: map[domain.Stage]string{
			domain.StageTopic:     "pick a topic about {{topic}}",
			domain.StageResearch:  "research it",
			domain.StageStructure: "outline it",
			domain.StageWrite:     "write it",
			domain.StagePackage:   "package it",
		},
		Weights: domain.ScoreWeights{Recency: 0.6, Popularity: 0.4},
	}
}

func rawItem(source, id, title string, fetched time.Time, popularity float64) domain.RawItem {
	return domain.RawItem{
		Source:    source,
		SourceID:  id,
		Title:     title,
		URL:       "https://example.com/" + id,
		FetchedAt: fetched,
		Payload:   map[string]any{"popularity": popularity},
	}
}

// Valid stage outputs, in pipeline order, as a model would emit them.
const (
	topicJSON = `{"selected_topic": "Vector databases in production", "angle": "operational lessons",
		"target_audience": "backend engineers", "rationale": "rising interest",
		"potential_titles": ["Running vectors at scale"], "keywords": ["vectors", "databases"]}`
	researchJSON = `{"key_insights": ["recall degrades under churn"], "notes": "summarised findings",
		"facts": [{"claim": "HNSW is the common index", "source": "survey"}],
		"references": [{"title": "ANN benchmarks", "url": "https://example.com/ann"}]}`
	structureJSON = `{"hook": "Your index is lying to you", "outline": [{"heading": "The recall cliff",
		"summary": "why recall drops", "estimated_length": 400}], "closing": "measure recall",
		"total_estimated_length": 1200}`
	writeJSON   = `{"draft": "Full article body goes here.", "actual_word_count": 1187}`
	packageJSON = `{"title": "Running vectors at scale", "title_alternatives": ["Vector ops"],
		"summary": "What breaks and how to see it.", "body": "Full article body goes here.",
		"seo_keywords": ["vector database"]}`
)

func happyModel() *mockModel {
	return &mockModel{responses: []modelResponse{
		{out: topicJSON},
		{out: researchJSON},
		{out: structureJSON},
		{out: writeJSON},
		{out: packageJSON},
	}}
}
