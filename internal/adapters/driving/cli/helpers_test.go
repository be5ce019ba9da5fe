package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/hunterworks/hunter-factory/internal/adapters/driven/storage/memory"
	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/services"
)

type mockRunService struct {
	result *domain.RunResult
	err    error
	calls  []string
	dry    []bool
}

func (m *mockRunService) Run(_ context.Context, template string, dryRun bool) (*domain.RunResult, error) {
	m.calls = append(m.calls, template)
	m.dry = append(m.dry, dryRun)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockIntelService struct {
	candidates []domain.CandidateTopic
	err        error
}

func (m *mockIntelService) Preview(_ context.Context, _ string) ([]domain.CandidateTopic, error) {
	return m.candidates, m.err
}

type mockTemplateStore struct {
	templates map[string]domain.TemplateConfig
}

func (m *mockTemplateStore) Load() (map[string]domain.TemplateConfig, error) {
	return m.templates, nil
}

func testTemplate(name string) domain.TemplateConfig {
	prompts := make(map[domain.Stage]string)
	for _, stage := range domain.StageOrder {
		if stage == domain.StagePublish {
			continue
		}
		prompts[stage] = "prompt for {{topic}}"
	}
	return domain.TemplateConfig{
		Name:         name,
		Description:  "test template",
		Sources:      []string{"hackernews"},
		StagePrompts: prompts,
		Weights:      domain.ScoreWeights{Recency: 0.5, Popularity: 0.5},
	}
}

func completedResult() *domain.RunResult {
	return &domain.RunResult{
		Run: domain.Run{
			ID:        "run-1",
			Template:  "news",
			Topic:     "Go 1.24 released",
			Status:    domain.RunCompleted,
			StartedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		},
		Artifacts: make([]domain.Artifact, 6),
		Delivery: &domain.DeliveryResult{
			Persisted: true,
			Location:  "articles/2026-03-14/go-1-24-released.md",
			Pushed:    true,
		},
	}
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() (run *mockRunService, intel *mockIntelService, cleanup func()) {
	prevRun, prevIntel := runService, intelService
	prevRegistry, prevScheduler := registryService, scheduler
	prevRuns, prevConfig := runStore, configStore

	run = &mockRunService{result: completedResult()}
	intel = &mockIntelService{}

	config := memory.NewConfigStore()
	registry, err := services.NewRegistry(
		&mockTemplateStore{templates: map[string]domain.TemplateConfig{
			"news": testTemplate("news"),
		}},
		config,
	)
	if err != nil {
		panic(err)
	}

	SetServices(Services{
		Run:      run,
		Intel:    intel,
		Registry: registry,
		Runs:     memory.NewRunStore(),
		Config:   config,
	})

	return run, intel, func() {
		runService, intelService = prevRun, prevIntel
		registryService, scheduler = prevRegistry, prevScheduler
		runStore, configStore = prevRuns, prevConfig
	}
}

// execute runs the root command with args and captures output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
