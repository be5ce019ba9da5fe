package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration indicates a template is unknown or its required
	// configuration keys are missing or empty. Surfaced before any
	// network or model call; a run never starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrSourceUnavailable indicates a single connector failed
	// (auth, rate limit, network). Recorded per source; collection continues.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrAllSourcesUnavailable indicates every connector requested for a
	// collection failed. The run never starts.
	ErrAllSourcesUnavailable = errors.New("all sources unavailable")

	// ErrDuplicateContent indicates the novelty filter rejected a candidate
	// because a stored topic is too similar. Not a failure; the candidate
	// is dropped and no run starts for it.
	ErrDuplicateContent = errors.New("duplicate content rejected")

	// ErrModelTimeout indicates a model call timed out. Retryable.
	ErrModelTimeout = errors.New("model timeout")

	// ErrModelRateLimited indicates the model API rate limit was exceeded.
	// Retryable.
	ErrModelRateLimited = errors.New("model rate limited")

	// ErrModelCallFailure indicates transient model errors exhausted the
	// retry budget. The run aborts.
	ErrModelCallFailure = errors.New("model call failure")

	// ErrValidation indicates a stage output failed schema validation.
	// Never retried with the same input; the run aborts immediately.
	ErrValidation = errors.New("validation failure")

	// ErrDeliveryFailure indicates persistence or push failed after a run
	// completed generation. Recorded on the result, never re-raised as a
	// pipeline failure.
	ErrDeliveryFailure = errors.New("delivery failure")

	// ErrRunCancelled indicates the run was cancelled via its context.
	ErrRunCancelled = errors.New("run cancelled")
)
