package driven

import "context"

// ModelService is the generative model consumed by the pipeline stages.
//
// Implementations may include:
//   - OpenAI-compatible chat APIs
//   - Anthropic (Claude)
//   - Ollama (local models)
//
// Complete failures are classified by sentinel: domain.ErrModelTimeout and
// domain.ErrModelRateLimited are transient and retried by the orchestrator;
// anything else is terminal for the attempt.
type ModelService interface {
	// Complete produces a completion for the prompt. schemaHint describes
	// the expected output shape and is passed to the model alongside the
	// prompt; the caller still validates the result locally.
	Complete(ctx context.Context, prompt, schemaHint string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
