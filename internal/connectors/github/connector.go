// Package github fetches trending repositories from the GitHub search API
// as intel items.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	// DefaultLimit caps items per fetch.
	DefaultLimit = 30

	// defaultWindow is how far back the trending query looks.
	defaultWindow = 7 * 24 * time.Hour

	httpTimeout = 30 * time.Second
)

// Config configures the GitHub connector.
type Config struct {
	// Token is the personal access token used for search.
	Token string

	// Query narrows the search (e.g. "topic:ai"). Appended to the
	// trending window clause.
	Query string

	// MinStars filters out low-signal repositories. Zero means 50.
	MinStars int

	// Limit caps items per fetch. Zero means DefaultLimit.
	Limit int
}

// Connector finds repositories created recently with high star counts.
type Connector struct {
	cfg     Config
	limiter *RateLimiter
	now     func() time.Time

	once   sync.Once
	client *gh.Client
}

// New creates a GitHub trending connector.
func New(cfg Config) *Connector {
	if cfg.MinStars <= 0 {
		cfg.MinStars = 50
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Connector{
		cfg:     cfg,
		limiter: NewRateLimiter(),
		now:     time.Now,
	}
}

// Name returns the connector's source name.
func (c *Connector) Name() string {
	return "github"
}

// Fetch searches for repositories created inside the trending window,
// ordered by stars. Failures map to domain.ErrSourceUnavailable.
func (c *Connector) Fetch(ctx context.Context, params driven.SourceParams) ([]domain.RawItem, error) {
	c.once.Do(func() {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.cfg.Token})
		tc := oauth2.NewClient(ctx, ts)
		tc.Timeout = httpTimeout
		c.client = gh.NewClient(tc)
	})

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: github: %v", domain.ErrSourceUnavailable, err)
	}

	limit := c.cfg.Limit
	if params.Limit > 0 && params.Limit < limit {
		limit = params.Limit
	}

	result, resp, err := c.client.Search.Repositories(ctx, c.buildQuery(params.Query), &gh.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	c.limiter.Update(resp)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: github: bad credentials", domain.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("%w: github search: %v", domain.ErrSourceUnavailable, err)
	}

	fetched := c.now()
	items := make([]domain.RawItem, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		if len(items) >= limit {
			break
		}
		items = append(items, domain.RawItem{
			Source:    c.Name(),
			SourceID:  repo.GetFullName(),
			Title:     repoTitle(repo),
			URL:       repo.GetHTMLURL(),
			FetchedAt: fetched,
			Payload: map[string]any{
				"popularity": float64(repo.GetStargazersCount()),
				"language":   repo.GetLanguage(),
				"stars":      repo.GetStargazersCount(),
			},
		})
	}
	return items, nil
}

// buildQuery composes the search query: recency window, star floor, and
// the configured or per-call topic filter.
func (c *Connector) buildQuery(override string) string {
	since := c.now().Add(-defaultWindow).Format("2006-01-02")
	parts := []string{
		fmt.Sprintf("created:>%s", since),
		fmt.Sprintf("stars:>%d", c.cfg.MinStars),
	}
	topic := c.cfg.Query
	if override != "" {
		topic = override
	}
	if topic != "" {
		parts = append(parts, topic)
	}
	return strings.Join(parts, " ")
}

func repoTitle(repo *gh.Repository) string {
	desc := repo.GetDescription()
	if desc == "" {
		return repo.GetFullName()
	}
	return repo.GetFullName() + ": " + desc
}
