// Package hackernews fetches top stories from the Hacker News Firebase API
// as intel items.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	// DefaultBaseURL is the public Firebase API endpoint.
	DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

	// DefaultLimit caps stories per fetch.
	DefaultLimit = 30

	httpTimeout = 30 * time.Second
)

// Config configures the Hacker News connector.
type Config struct {
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string

	// Limit caps stories per fetch. Zero means DefaultLimit.
	Limit int
}

// Connector reads the top-stories ranking and hydrates each story.
type Connector struct {
	baseURL string
	limit   int
	client  *http.Client
	now     func() time.Time
}

// New creates a Hacker News connector.
func New(cfg Config) *Connector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Connector{
		baseURL: cfg.BaseURL,
		limit:   cfg.Limit,
		client:  &http.Client{Timeout: httpTimeout},
		now:     time.Now,
	}
}

// Name returns the connector's source name.
func (c *Connector) Name() string {
	return "hackernews"
}

// story is the item shape returned by the Firebase API.
type story struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Score int    `json:"score"`
	Time  int64  `json:"time"`
	Dead  bool   `json:"dead"`
}

// Fetch reads the current top-story IDs and hydrates them in rank order.
// A story that fails to hydrate is skipped; only a failure to read the
// ranking itself fails the fetch.
func (c *Connector) Fetch(ctx context.Context, params driven.SourceParams) ([]domain.RawItem, error) {
	limit := c.limit
	if params.Limit > 0 && params.Limit < limit {
		limit = params.Limit
	}

	var ids []int
	if err := c.getJSON(ctx, c.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("%w: hackernews: %v", domain.ErrSourceUnavailable, err)
	}

	fetched := c.now()
	items := make([]domain.RawItem, 0, limit)
	for _, id := range ids {
		if len(items) >= limit {
			break
		}
		var s story
		if err := c.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", c.baseURL, id), &s); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: hackernews: %v", domain.ErrSourceUnavailable, ctx.Err())
			}
			continue
		}
		if s.Type != "story" || s.Dead || s.Title == "" {
			continue
		}
		url := s.URL
		if url == "" {
			url = "https://news.ycombinator.com/item?id=" + strconv.Itoa(s.ID)
		}
		items = append(items, domain.RawItem{
			Source:    c.Name(),
			SourceID:  strconv.Itoa(s.ID),
			Title:     s.Title,
			URL:       url,
			FetchedAt: fetched,
			Payload: map[string]any{
				"popularity":   float64(s.Score),
				"published_at": time.Unix(s.Time, 0).UTC().Format(time.RFC3339),
			},
		})
	}
	return items, nil
}

func (c *Connector) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
