package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driving"
	"github.com/hunterworks/hunter-factory/internal/logger"
)

const (
	// DefaultRunInterval spaces automatic runs for one template.
	DefaultRunInterval = 6 * time.Hour

	// DefaultPruneInterval spaces retention sweeps of the novelty store.
	DefaultPruneInterval = 24 * time.Hour

	// schedulerTick is how often the loop checks for due work.
	schedulerTick = time.Minute
)

// SchedulerConfig lists the templates to run automatically and how often.
type SchedulerConfig struct {
	// Templates are run in order each cycle.
	Templates []string

	// RunInterval is the spacing between automatic run cycles.
	RunInterval time.Duration

	// PruneInterval is the spacing between novelty store sweeps.
	PruneInterval time.Duration
}

// Scheduler runs templates on an interval and sweeps the novelty store.
// It is a pure core service with no external control API.
type Scheduler struct {
	config  SchedulerConfig
	runner  driving.RunService
	novelty *NoveltyFilter

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
	nextRun   time.Time
	nextPrune time.Time
}

// NewScheduler creates a scheduler. Zero intervals take the defaults.
func NewScheduler(config SchedulerConfig, runner driving.RunService, novelty *NoveltyFilter) *Scheduler {
	if config.RunInterval <= 0 {
		config.RunInterval = DefaultRunInterval
	}
	if config.PruneInterval <= 0 {
		config.PruneInterval = DefaultPruneInterval
	}
	return &Scheduler{
		config:  config,
		runner:  runner,
		novelty: novelty,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or the context ends.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	now := time.Now()
	s.nextRun = now
	s.nextPrune = now.Add(s.config.PruneInterval)
	s.mu.Unlock()

	logger.Info("scheduler started: templates %v every %s", s.config.Templates, s.config.RunInterval)

	ticker := time.NewTicker(schedulerTick)
	defer ticker.Stop()

	s.checkDue(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkDue(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler and waits for in-flight work.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Scheduler) checkDue(ctx context.Context) {
	now := time.Now()

	s.mu.Lock()
	runDue := !now.Before(s.nextRun)
	pruneDue := !now.Before(s.nextPrune)
	if runDue {
		s.nextRun = now.Add(s.config.RunInterval)
	}
	if pruneDue {
		s.nextPrune = now.Add(s.config.PruneInterval)
	}
	s.mu.Unlock()

	if runDue {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runCycle(ctx)
		}()
	}
	if pruneDue {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.prune(ctx)
		}()
	}
}

// runCycle executes every configured template once. Templates run
// sequentially so a cycle never races itself for the model.
func (s *Scheduler) runCycle(ctx context.Context) {
	for _, template := range s.config.Templates {
		if ctx.Err() != nil {
			return
		}
		result, err := s.runner.Run(ctx, template, false)
		switch {
		case errors.Is(err, domain.ErrDuplicateContent):
			logger.Info("template %s: nothing novel this cycle", template)
		case err != nil:
			logger.Warn("template %s run failed: %v", template, err)
		default:
			logger.Info("template %s run %s completed", template, result.Run.ID)
		}
	}
}

func (s *Scheduler) prune(ctx context.Context) {
	if s.novelty == nil {
		return
	}
	removed, err := s.novelty.Prune(ctx)
	if err != nil {
		logger.Warn("novelty prune failed: %v", err)
		return
	}
	if removed > 0 {
		logger.Info("novelty store pruned %d records", removed)
	}
}
