package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gh "github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// newTestConnector points the connector at a fake GitHub API.
func newTestConnector(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conn := New(Config{Token: "test-token", Query: "topic:ai"})
	conn.once.Do(func() {}) // consume lazy init
	conn.client = gh.NewClient(srv.Client())
	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	conn.client.BaseURL = baseURL
	return conn
}

func TestConnector_Fetch_MapsRepositories(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "topic:ai")
		assert.Contains(t, r.URL.Query().Get("q"), "stars:>50")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count": 2, "items": [
			{"full_name": "acme/vectordb", "description": "A tiny vector store",
			 "html_url": "https://github.com/acme/vectordb", "stargazers_count": 1200,
			 "language": "Go"},
			{"full_name": "acme/quiet", "description": "",
			 "html_url": "https://github.com/acme/quiet", "stargazers_count": 80}
		]}`)
	})

	items, err := conn.Fetch(context.Background(), driven.SourceParams{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "github", items[0].Source)
	assert.Equal(t, "acme/vectordb", items[0].SourceID)
	assert.Equal(t, "acme/vectordb: A tiny vector store", items[0].Title)
	assert.Equal(t, "https://github.com/acme/vectordb", items[0].URL)
	assert.Equal(t, float64(1200), items[0].Popularity())

	// Description-less repos fall back to the full name.
	assert.Equal(t, "acme/quiet", items[1].Title)
}

func TestConnector_Fetch_RespectsLimit(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count": 3, "items": [
			{"full_name": "a/a", "stargazers_count": 3},
			{"full_name": "b/b", "stargazers_count": 2},
			{"full_name": "c/c", "stargazers_count": 1}
		]}`)
	})

	items, err := conn.Fetch(context.Background(), driven.SourceParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestConnector_Fetch_Unauthorized(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	})

	_, err := conn.Fetch(context.Background(), driven.SourceParams{})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestConnector_Fetch_ServerError(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := conn.Fetch(context.Background(), driven.SourceParams{})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestConnector_BuildQuery(t *testing.T) {
	conn := New(Config{Query: "topic:llm", MinStars: 100})
	conn.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}

	query := conn.buildQuery("")
	assert.Contains(t, query, "created:>2026-08-22")
	assert.Contains(t, query, "stars:>100")
	assert.Contains(t, query, "topic:llm")

	// A per-call query overrides the configured one.
	assert.Contains(t, conn.buildQuery("topic:agents"), "topic:agents")
	assert.NotContains(t, conn.buildQuery("topic:agents"), "topic:llm")
}
