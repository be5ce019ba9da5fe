// Package ai provides factory functions for creating model and embedding
// service adapters from configuration.
package ai

import (
	"fmt"
	"time"

	ollamaembed "github.com/hunterworks/hunter-factory/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/hunterworks/hunter-factory/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/hunterworks/hunter-factory/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/hunterworks/hunter-factory/internal/adapters/driven/llm/ollama"
	openaillm "github.com/hunterworks/hunter-factory/internal/adapters/driven/llm/openai"
	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// ModelSettings selects and configures the generative model provider.
type ModelSettings struct {
	// Provider is one of "openai", "anthropic", "ollama".
	Provider string

	// APIKey authenticates hosted providers. Unused for ollama.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string
}

// EmbeddingSettings selects and configures the embedding provider.
type EmbeddingSettings struct {
	// Provider is one of "openai", "ollama".
	Provider string

	// APIKey authenticates hosted providers. Unused for ollama.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string
}

// CreateModelService builds a model service for the configured provider.
func CreateModelService(settings ModelSettings) (driven.ModelService, error) {
	switch settings.Provider {
	case "openai":
		// A nil *openaillm.ModelService must not leak into the interface
		// return, or callers' nil checks pass on a broken service.
		svc, err := openaillm.New(openaillm.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "anthropic":
		svc, err := anthropicllm.New(anthropicllm.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "ollama":
		return ollamallm.New(ollamallm.Config{
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		}), nil
	case "":
		return nil, fmt.Errorf("%w: model provider not configured", domain.ErrConfiguration)
	default:
		return nil, fmt.Errorf("%w: unknown model provider %q", domain.ErrConfiguration, settings.Provider)
	}
}

// CreateEmbeddingService builds an embedding service for the configured
// provider.
func CreateEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case "openai":
		svc, err := openaiembed.New(openaiembed.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "ollama":
		return ollamaembed.New(ollamaembed.Config{
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		}), nil
	case "":
		return nil, fmt.Errorf("%w: embedding provider not configured", domain.ErrConfiguration)
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfiguration, settings.Provider)
	}
}
