package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

func TestCreateModelService(t *testing.T) {
	tests := []struct {
		name     string
		settings ModelSettings
		wantErr  bool
		wantName string
	}{
		{"openai", ModelSettings{Provider: "openai", APIKey: "sk-x"}, false, "gpt-4o-mini"},
		{"openai without key", ModelSettings{Provider: "openai"}, true, ""},
		{"anthropic", ModelSettings{Provider: "anthropic", APIKey: "sk-x", Model: "claude-x"}, false, "claude-x"},
		{"ollama", ModelSettings{Provider: "ollama"}, false, "llama3.1"},
		{"unknown", ModelSettings{Provider: "cohere"}, true, ""},
		{"empty", ModelSettings{}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateModelService(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				// Strict comparison: assert.Nil accepts a typed nil, but a
				// typed nil here would defeat callers' nil guards and panic
				// at the first call.
				assert.True(t, svc == nil, "error path must return a nil interface")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateEmbeddingService(t *testing.T) {
	svc, err := CreateEmbeddingService(EmbeddingSettings{Provider: "ollama"})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
	assert.NoError(t, svc.Close())

	svc, err = CreateEmbeddingService(EmbeddingSettings{Provider: "openai"})
	assert.Error(t, err, "openai without key")
	assert.True(t, svc == nil, "error path must return a nil interface")

	svc, err = CreateEmbeddingService(EmbeddingSettings{Provider: "nope"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.True(t, svc == nil)

	svc, err = CreateEmbeddingService(EmbeddingSettings{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.True(t, svc == nil)
}
