package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

func TestEmbedSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, "hello world", req.Input)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer server.Close()

	service, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	vec, err := service.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	service, err := New(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = service.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrModelRateLimited)
}

func TestEmbedAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key"},
		})
	}))
	defer server.Close()

	service, err := New(Config{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = service.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	service, err := New(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = service.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embedding returned")
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	service, err := New(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, service.ModelName())
	assert.Equal(t, DefaultDimensions, service.Dimensions())
	assert.NoError(t, service.Close())
}
