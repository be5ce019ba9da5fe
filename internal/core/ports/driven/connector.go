package driven

import (
	"context"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

// Connector fetches raw signal items from one external source. Each source
// type (github, hackernews, reddit, rss) implements this interface; variants
// are interchangeable behind the aggregator.
type Connector interface {
	// Name returns the connector's registry key. It is also the Source
	// field of every item the connector produces.
	Name() string

	// Fetch retrieves the current items from the source. A failure of any
	// kind (auth, rate limit, network) wraps domain.ErrSourceUnavailable.
	// Fetch must honour ctx cancellation and deadlines.
	Fetch(ctx context.Context, params SourceParams) ([]domain.RawItem, error)
}

// SourceParams carries per-collection tuning for a connector fetch.
type SourceParams struct {
	// Limit caps the number of items returned. Zero means the connector's
	// default.
	Limit int

	// Query narrows the fetch where the source supports it (e.g. a GitHub
	// search qualifier, a subreddit name).
	Query string
}
