package driving

import (
	"context"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

// RunService is the invocation surface for pipeline runs.
type RunService interface {
	// Run resolves the template, collects and scores signals, admits the
	// best novel candidate, and drives it through the six-stage pipeline.
	// With dryRun set, execution stops after PACKAGE and delivery is
	// skipped.
	Run(ctx context.Context, template string, dryRun bool) (*domain.RunResult, error)
}

// IntelService exposes collection and scoring without starting a run.
type IntelService interface {
	// Preview collects from the template's sources and returns the scored
	// candidates, best first, without touching the novelty store.
	Preview(ctx context.Context, template string) ([]domain.CandidateTopic, error)
}
