// Package reddit fetches hot posts from subreddit JSON listings as intel
// items. It uses the public unauthenticated endpoint, which requires a
// descriptive User-Agent and modest request rates.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	// DefaultBaseURL is the public listing endpoint.
	DefaultBaseURL = "https://www.reddit.com"

	// DefaultLimit caps posts per subreddit per fetch.
	DefaultLimit = 25

	userAgent   = "hunter-factory/1.0 (content intel aggregator)"
	httpTimeout = 30 * time.Second
)

// Config configures the Reddit connector.
type Config struct {
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string

	// Subreddits are the communities to read. Required.
	Subreddits []string

	// Limit caps posts per subreddit. Zero means DefaultLimit.
	Limit int
}

// Connector reads hot listings from the configured subreddits.
type Connector struct {
	baseURL    string
	subreddits []string
	limit      int
	client     *http.Client
	now        func() time.Time
}

// New creates a Reddit connector.
func New(cfg Config) *Connector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Connector{
		baseURL:    cfg.BaseURL,
		subreddits: cfg.Subreddits,
		limit:      cfg.Limit,
		client:     &http.Client{Timeout: httpTimeout},
		now:        time.Now,
	}
}

// Name returns the connector's source name.
func (c *Connector) Name() string {
	return "reddit"
}

// listing mirrors the subset of the Reddit listing response we read.
type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Permalink string  `json:"permalink"`
	Ups       int     `json:"ups"`
	Stickied  bool    `json:"stickied"`
	CreatedAt float64 `json:"created_utc"`
	Subreddit string  `json:"subreddit"`
}

// Fetch reads every configured subreddit's hot listing. A subreddit that
// fails is skipped unless all of them fail.
func (c *Connector) Fetch(ctx context.Context, params driven.SourceParams) ([]domain.RawItem, error) {
	if len(c.subreddits) == 0 {
		return nil, fmt.Errorf("%w: reddit: no subreddits configured", domain.ErrSourceUnavailable)
	}

	limit := c.limit
	if params.Limit > 0 && params.Limit < limit {
		limit = params.Limit
	}

	fetched := c.now()
	var items []domain.RawItem
	var lastErr error
	failed := 0

	for _, sub := range c.subreddits {
		posts, err := c.fetchSubreddit(ctx, sub, limit)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		for _, p := range posts {
			if p.Stickied || p.Title == "" {
				continue
			}
			items = append(items, domain.RawItem{
				Source:    c.Name(),
				SourceID:  p.ID,
				Title:     p.Title,
				URL:       c.baseURL + p.Permalink,
				FetchedAt: fetched,
				Payload: map[string]any{
					"popularity":   float64(p.Ups),
					"subreddit":    p.Subreddit,
					"published_at": time.Unix(int64(p.CreatedAt), 0).UTC().Format(time.RFC3339),
				},
			})
		}
	}

	if failed == len(c.subreddits) {
		return nil, fmt.Errorf("%w: reddit: %v", domain.ErrSourceUnavailable, lastErr)
	}
	return items, nil
}

func (c *Connector) fetchSubreddit(ctx context.Context, sub string, limit int) ([]post, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", c.baseURL, sub, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("r/%s: unexpected status %d", sub, resp.StatusCode)
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("r/%s: decode: %w", sub, err)
	}

	posts := make([]post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}
