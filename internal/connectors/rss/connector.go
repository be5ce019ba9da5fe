// Package rss fetches entries from configured RSS and Atom feeds as intel
// items.
package rss

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// DefaultLimit caps items per feed per fetch.
const DefaultLimit = 20

// Config configures the RSS connector.
type Config struct {
	// Feeds are the feed URLs to read. Required.
	Feeds []string

	// Limit caps items per feed. Zero means DefaultLimit.
	Limit int
}

// Connector reads the configured feeds with a shared parser.
type Connector struct {
	feeds  []string
	limit  int
	parser *gofeed.Parser
	now    func() time.Time
}

// New creates an RSS connector.
func New(cfg Config) *Connector {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Connector{
		feeds:  cfg.Feeds,
		limit:  cfg.Limit,
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

// Name returns the connector's source name.
func (c *Connector) Name() string {
	return "rss"
}

// Fetch parses every configured feed. A feed that fails is skipped unless
// all of them fail. Feed entries carry no popularity signal; scoring falls
// back to recency for them.
func (c *Connector) Fetch(ctx context.Context, params driven.SourceParams) ([]domain.RawItem, error) {
	if len(c.feeds) == 0 {
		return nil, fmt.Errorf("%w: rss: no feeds configured", domain.ErrSourceUnavailable)
	}

	limit := c.limit
	if params.Limit > 0 && params.Limit < limit {
		limit = params.Limit
	}

	fetched := c.now()
	var items []domain.RawItem
	var lastErr error
	failed := 0

	for _, url := range c.feeds {
		feed, err := c.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			failed++
			lastErr = fmt.Errorf("%s: %w", url, err)
			continue
		}
		for i, entry := range feed.Items {
			if i >= limit {
				break
			}
			if entry.Title == "" {
				continue
			}
			items = append(items, domain.RawItem{
				Source:    c.Name(),
				SourceID:  entryID(entry),
				Title:     entry.Title,
				URL:       entry.Link,
				FetchedAt: entryTime(entry, fetched),
				Payload: map[string]any{
					"feed": feed.Title,
				},
			})
		}
	}

	if failed == len(c.feeds) {
		return nil, fmt.Errorf("%w: rss: %v", domain.ErrSourceUnavailable, lastErr)
	}
	return items, nil
}

// entryID prefers the feed's stable GUID over the link.
func entryID(entry *gofeed.Item) string {
	if entry.GUID != "" {
		return entry.GUID
	}
	return entry.Link
}

// entryTime uses the published timestamp when the feed provides one, so
// recency scoring reflects the article's age rather than the poll time.
func entryTime(entry *gofeed.Item, fallback time.Time) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return fallback
}
