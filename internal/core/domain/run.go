package domain

import "time"

// RunStatus is the terminal or in-flight state of a pipeline run.
type RunStatus string

const (
	// RunRunning indicates the run is executing stages.
	RunRunning RunStatus = "RUNNING"

	// RunCompleted indicates PUBLISH finished. Delivery outcome does not
	// affect this status.
	RunCompleted RunStatus = "COMPLETED"

	// RunAborted indicates a stage failed (model retries exhausted or
	// validation failure). No publish happened.
	RunAborted RunStatus = "ABORTED"
)

// FailureKind classifies why a run aborted.
type FailureKind string

const (
	// FailureModelCall: transient model errors exhausted the retry budget.
	FailureModelCall FailureKind = "ModelCallFailure"

	// FailureValidation: a stage output failed schema validation.
	FailureValidation FailureKind = "ValidationFailure"

	// FailureCancelled: the run context was cancelled.
	FailureCancelled FailureKind = "Cancelled"
)

// Run is the audit record of one pipeline execution.
type Run struct {
	// ID is a UUID assigned at start.
	ID string

	// Template is the template name the run executed.
	Template string

	// Topic is the admitted candidate's topic text.
	Topic string

	// Status is the run's current state.
	Status RunStatus

	// Stage is the furthest stage reached.
	Stage Stage

	// Failure classifies an abort; empty for completed runs.
	Failure FailureKind

	// Reason is the human-readable explanation of an abort or rejection.
	Reason string

	StartedAt time.Time
	EndedAt   time.Time
}

// DeliveryResult records the outcome of persisting and pushing a packaged
// article. Failures here never change the run's status.
type DeliveryResult struct {
	// Persisted reports whether the article reached durable storage.
	Persisted bool

	// Location is the addressable output location when persisted.
	Location string

	// Pushed reports whether the push notification was acknowledged.
	Pushed bool

	// Reason records why persistence or push failed, when they did.
	Reason string
}

// RunResult is what the run surface returns to the caller.
type RunResult struct {
	// Run is the final run record.
	Run Run

	// Artifacts holds every validated stage artifact, in stage order.
	Artifacts []Artifact

	// Delivery is nil for dry runs and for runs that aborted before
	// PUBLISH.
	Delivery *DeliveryResult
}
