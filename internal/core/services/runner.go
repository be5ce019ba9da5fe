package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driving"
	"github.com/hunterworks/hunter-factory/internal/logger"
)

// Runner is the driving-side entry point: it strings template resolution,
// intel collection, novelty admission and pipeline execution into one run.
type Runner struct {
	registry     *Registry
	aggregator   *Aggregator
	novelty      *NoveltyFilter
	orchestrator *Orchestrator

	now func() time.Time
}

var (
	_ driving.RunService   = (*Runner)(nil)
	_ driving.IntelService = (*Runner)(nil)
)

func NewRunner(registry *Registry, aggregator *Aggregator, novelty *NoveltyFilter, orchestrator *Orchestrator) *Runner {
	return &Runner{
		registry:     registry,
		aggregator:   aggregator,
		novelty:      novelty,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// Run executes one full pipeline run for the named template. Candidates
// are tried best-first through the novelty filter; the first admitted one
// goes to the orchestrator. When every candidate is rejected the run never
// starts and ErrDuplicateContent is returned.
func (r *Runner) Run(ctx context.Context, template string, dryRun bool) (*domain.RunResult, error) {
	tmpl, err := r.registry.Resolve(template)
	if err != nil {
		return nil, err
	}

	candidates, err := r.collect(ctx, tmpl)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		admission, err := r.novelty.Admit(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("novelty admission: %w", err)
		}
		if !admission.Accepted {
			logger.Debug("candidate %q rejected (similarity %.3f)",
				candidate.Text, admission.NearestSimilarity)
			continue
		}
		logger.Info("candidate admitted: %q", candidate.Text)
		return r.orchestrator.Execute(ctx, tmpl, candidate, dryRun)
	}

	return nil, fmt.Errorf("%w: all %d candidates too similar to prior topics",
		domain.ErrDuplicateContent, len(candidates))
}

// Preview collects and scores candidates for the named template without
// touching the novelty store or the model.
func (r *Runner) Preview(ctx context.Context, template string) ([]domain.CandidateTopic, error) {
	tmpl, err := r.registry.Resolve(template)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, tmpl)
}

func (r *Runner) collect(ctx context.Context, tmpl *domain.TemplateConfig) ([]domain.CandidateTopic, error) {
	logger.Section("Aggregation")
	items, failures, err := r.aggregator.Collect(ctx, tmpl.Sources)
	if err != nil {
		return nil, err
	}
	for source, srcErr := range failures {
		logger.Warn("source %s failed: %v", source, srcErr)
	}
	logger.Info("collected %d items from %d/%d sources",
		len(items), len(tmpl.Sources)-len(failures), len(tmpl.Sources))

	candidates := Score(items, tmpl.Weights, r.now())
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: sources returned no items", domain.ErrAllSourcesUnavailable)
	}
	return candidates, nil
}
