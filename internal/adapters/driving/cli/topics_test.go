package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

func previewCandidates() []domain.CandidateTopic {
	return []domain.CandidateTopic{
		{
			Text:  "Vector databases in production",
			Score: 4.2,
			Supporting: []domain.RawItem{{
				Source:    "hackernews",
				SourceID:  "101",
				Title:     "Vector databases in production",
				URL:       "https://news.ycombinator.com/item?id=101",
				FetchedAt: time.Now(),
			}},
		},
		{Text: "Why Go won the cloud", Score: 3.1},
	}
}

func TestTopicsCmd_Use(t *testing.T) {
	assert.Equal(t, "topics [template]", topicsCmd.Use)
}

func TestTopicsCmd_HasLimitFlag(t *testing.T) {
	flag := topicsCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestTopicsCmd_ListsCandidates(t *testing.T) {
	_, intel, cleanup := setupTestServices()
	defer cleanup()
	intel.candidates = previewCandidates()

	out, err := execute("topics", "news")

	require.NoError(t, err)
	assert.Contains(t, out, "Vector databases in production")
	assert.Contains(t, out, "(4.20)")
	assert.Contains(t, out, "https://news.ycombinator.com/item?id=101")
	assert.Contains(t, out, "Why Go won the cloud")
}

func TestTopicsCmd_JSONOutput(t *testing.T) {
	_, intel, cleanup := setupTestServices()
	defer cleanup()
	intel.candidates = previewCandidates()

	out, err := execute("topics", "--json", "news")
	defer func() { topicsJSON = false }()

	require.NoError(t, err)
	assert.Contains(t, out, `"Text": "Vector databases in production"`)
}

func TestTopicsCmd_RespectsLimit(t *testing.T) {
	_, intel, cleanup := setupTestServices()
	defer cleanup()
	intel.candidates = previewCandidates()

	out, err := execute("topics", "--limit", "1", "news")
	defer func() { topicsLimit = 10 }()

	require.NoError(t, err)
	assert.Contains(t, out, "Vector databases in production")
	assert.NotContains(t, out, "Why Go won the cloud")
}

func TestTopicsCmd_NoCandidates(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("topics", "news")

	require.NoError(t, err)
	assert.Contains(t, out, "No candidates found.")
}
