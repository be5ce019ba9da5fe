package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
	"github.com/hunterworks/hunter-factory/internal/logger"
)

const (
	// DefaultModelCallTimeout bounds a single model call attempt.
	DefaultModelCallTimeout = 120 * time.Second
)

// RetryPolicy bounds retries of transient model failures. Delays grow
// exponentially from BaseDelay and are capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the pipeline defaults: three attempts,
// one second base delay, ten second cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if d > p.MaxDelay || d <= 0 {
		return p.MaxDelay
	}
	return d
}

// Orchestrator drives the six-stage generation pipeline. Stages run
// strictly in order; each validated artifact is persisted before the next
// stage starts, so an aborted run leaves a usable audit trail.
type Orchestrator struct {
	model     driven.ModelService
	runs      driven.RunStore
	artifacts driven.ArtifactStore
	delivery  *Delivery
	retry     RetryPolicy
	callLimit time.Duration

	now   func() time.Time
	newID func() string
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator wires the pipeline. delivery may be nil only when every
// run is a dry run.
func NewOrchestrator(model driven.ModelService, runs driven.RunStore, artifacts driven.ArtifactStore, delivery *Delivery, retry RetryPolicy) *Orchestrator {
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &Orchestrator{
		model:     model,
		runs:      runs,
		artifacts: artifacts,
		delivery:  delivery,
		retry:     retry,
		callLimit: DefaultModelCallTimeout,
		now:       time.Now,
		newID:     uuid.NewString,
		sleep:     sleepCtx,
	}
}

// Execute runs the pipeline for one admitted topic. The returned RunResult
// is non-nil even when the run aborts: it carries the artifacts produced
// before the failure. With dryRun set the pipeline stops after PACKAGE and
// nothing is delivered.
func (o *Orchestrator) Execute(ctx context.Context, tmpl *domain.TemplateConfig, topic domain.CandidateTopic, dryRun bool) (*domain.RunResult, error) {
	run := domain.Run{
		ID:        o.newID(),
		Template:  tmpl.Name,
		Topic:     topic.Text,
		Status:    domain.RunRunning,
		StartedAt: o.now(),
	}
	if err := o.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	logger.Section(fmt.Sprintf("Run %s (%s)", run.ID, tmpl.Name))
	result := &domain.RunResult{Run: run}

	for _, stage := range domain.StageOrder {
		run.Stage = stage

		if stage == domain.StagePublish {
			if dryRun {
				// PUBLISH never ran; the record keeps PACKAGE as the
				// furthest stage reached.
				run.Stage = domain.StagePackage
				logger.Info("dry run: skipping publish")
				break
			}
			record := o.publish(ctx, run.ID, result.Artifacts)
			o.persistArtifact(ctx, run.ID, record)
			result.Artifacts = append(result.Artifacts, record)
			result.Delivery = &domain.DeliveryResult{
				Persisted: record.Persisted,
				Location:  record.Location,
				Pushed:    record.Pushed,
				Reason:    record.Reason,
			}
			break
		}

		logger.Stage(string(stage), "prompting %s", o.model.ModelName())
		prompt := buildPrompt(tmpl.StagePrompts[stage], topic, result.Artifacts)
		raw, err := o.completeWithRetry(ctx, prompt, schemaHint(stage))
		if err != nil {
			return o.abort(ctx, run, result, err)
		}

		artifact, err := decodeArtifact(stage, raw)
		if err != nil {
			return o.abort(ctx, run, result, err)
		}

		o.persistArtifact(ctx, run.ID, artifact)
		result.Artifacts = append(result.Artifacts, artifact)
	}

	run.Status = domain.RunCompleted
	run.EndedAt = o.now()
	result.Run = run
	if err := o.runs.Save(ctx, run); err != nil {
		logger.Warn("save completed run %s: %v", run.ID, err)
	}
	return result, nil
}

// publish hands the packaged article to the delivery adapter and records
// the outcome. Delivery failures never fail the run.
func (o *Orchestrator) publish(ctx context.Context, runID string, artifacts []domain.Artifact) domain.PublishRecord {
	record := domain.PublishRecord{PublishedAt: o.now()}
	article, ok := findPackaged(artifacts)
	if !ok {
		record.Reason = "no packaged article to deliver"
		return record
	}
	if o.delivery == nil {
		record.Reason = "no delivery adapter configured"
		return record
	}
	outcome := o.delivery.Deliver(ctx, runID, article)
	record.Persisted = outcome.Persisted
	record.Location = outcome.Location
	record.Pushed = outcome.Pushed
	record.Reason = outcome.Reason
	return record
}

func findPackaged(artifacts []domain.Artifact) (domain.PackagedArticle, bool) {
	for _, a := range artifacts {
		if article, ok := a.(domain.PackagedArticle); ok {
			return article, true
		}
	}
	return domain.PackagedArticle{}, false
}

// abort finalises an aborted run: classifies the failure, persists the run
// record, and returns the partial result alongside the error. Artifacts
// produced before the failure are already persisted; the failed stage's
// output never is.
func (o *Orchestrator) abort(ctx context.Context, run domain.Run, result *domain.RunResult, cause error) (*domain.RunResult, error) {
	run.Status = domain.RunAborted
	run.Failure = classifyFailure(cause)
	run.Reason = cause.Error()
	run.EndedAt = o.now()
	result.Run = run

	logger.Warn("run %s aborted at %s: %v", run.ID, run.Stage, cause)
	if err := o.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("save aborted run %s: %v", run.ID, err)
	}
	return result, fmt.Errorf("stage %s: %w", run.Stage, cause)
}

func classifyFailure(err error) domain.FailureKind {
	switch {
	case errors.Is(err, domain.ErrRunCancelled):
		return domain.FailureCancelled
	case errors.Is(err, domain.ErrValidation):
		return domain.FailureValidation
	default:
		return domain.FailureModelCall
	}
}

func (o *Orchestrator) persistArtifact(ctx context.Context, runID string, artifact domain.Artifact) {
	content, err := json.Marshal(artifact)
	if err != nil {
		logger.Warn("marshal %s artifact: %v", artifact.Stage(), err)
		return
	}
	stored := domain.StoredArtifact{
		RunID:     runID,
		Stage:     artifact.Stage(),
		Content:   content,
		CreatedAt: o.now(),
	}
	if err := o.artifacts.Save(ctx, stored); err != nil {
		logger.Warn("persist %s artifact for run %s: %v", artifact.Stage(), runID, err)
	}
}

// completeWithRetry calls the model with bounded retries. Only timeouts and
// rate limits are retried; any other failure is terminal for the stage.
// Exhausting the budget surfaces ErrModelCallFailure.
func (o *Orchestrator) completeWithRetry(ctx context.Context, prompt, hint string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= o.retry.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrRunCancelled, context.Cause(ctx))
		}

		callCtx, cancel := context.WithTimeout(ctx, o.callLimit)
		raw, err := o.model.Complete(callCtx, prompt, hint)
		cancel()
		if err == nil {
			return raw, nil
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrRunCancelled, context.Cause(ctx))
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", domain.ErrModelTimeout, err)
		}
		if !errors.Is(err, domain.ErrModelTimeout) && !errors.Is(err, domain.ErrModelRateLimited) {
			return "", err
		}

		lastErr = err
		if attempt < o.retry.MaxAttempts {
			delay := o.retry.delay(attempt)
			logger.Debug("model call attempt %d/%d failed (%v), retrying in %s",
				attempt, o.retry.MaxAttempts, err, delay)
			if sleepErr := o.sleep(ctx, delay); sleepErr != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrRunCancelled, sleepErr)
			}
		}
	}
	return "", fmt.Errorf("%w: %d attempts exhausted: %v",
		domain.ErrModelCallFailure, o.retry.MaxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}

// buildPrompt substitutes the topic into the stage prompt and appends the
// artifacts of earlier stages as JSON context.
func buildPrompt(prompt string, topic domain.CandidateTopic, prior []domain.Artifact) string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(prompt, "{{topic}}", topic.Text))

	if len(topic.Supporting) > 0 && len(prior) == 0 {
		b.WriteString("\n\nCollected intelligence:\n")
		for _, item := range topic.Supporting {
			fmt.Fprintf(&b, "- %s (%s)\n", item.Title, item.URL)
		}
	}

	for _, artifact := range prior {
		content, err := json.Marshal(artifact)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n\n%s output:\n%s", artifact.Stage(), content)
	}
	return b.String()
}

// decodeArtifact parses and validates a stage's model output. Validation
// failures are terminal: the same input would fail the same way, so the
// orchestrator never retries them.
func decodeArtifact(stage domain.Stage, raw string) (domain.Artifact, error) {
	payload := stripCodeFence(raw)

	var artifact domain.Artifact
	var err error
	switch stage {
	case domain.StageTopic:
		var v domain.TopicBrief
		err = json.Unmarshal([]byte(payload), &v)
		artifact = v
	case domain.StageResearch:
		var v domain.ResearchDossier
		err = json.Unmarshal([]byte(payload), &v)
		artifact = v
	case domain.StageStructure:
		var v domain.Outline
		err = json.Unmarshal([]byte(payload), &v)
		artifact = v
	case domain.StageWrite:
		var v domain.Draft
		err = json.Unmarshal([]byte(payload), &v)
		artifact = v
	case domain.StagePackage:
		var v domain.PackagedArticle
		err = json.Unmarshal([]byte(payload), &v)
		artifact = v
	default:
		return nil, fmt.Errorf("%w: stage %s has no artifact schema", domain.ErrValidation, stage)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s output is not valid JSON: %v", domain.ErrValidation, stage, err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return artifact, nil
}

// stripCodeFence removes a surrounding markdown code fence, which models
// add around JSON despite instructions not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// schemaHint describes the JSON shape expected from each stage. The hint
// is advisory; decodeArtifact remains the authority.
func schemaHint(stage domain.Stage) string {
	switch stage {
	case domain.StageTopic:
		return `Respond with JSON: {"selected_topic": string, "angle": string, "target_audience": string, "rationale": string, "potential_titles": [string], "keywords": [string]}`
	case domain.StageResearch:
		return `Respond with JSON: {"key_insights": [string], "notes": string, "facts": [{"claim": string, "source": string}], "references": [{"title": string, "url": string}]}`
	case domain.StageStructure:
		return `Respond with JSON: {"hook": string, "outline": [{"heading": string, "summary": string, "estimated_length": number}], "closing": string, "total_estimated_length": number}`
	case domain.StageWrite:
		return `Respond with JSON: {"draft": string, "actual_word_count": number}`
	case domain.StagePackage:
		return `Respond with JSON: {"title": string, "title_alternatives": [string], "summary": string, "body": string, "seo_keywords": [string]}`
	default:
		return ""
	}
}
