package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

func TestRunCmd_Use(t *testing.T) {
	assert.Equal(t, "run [template]", runCmd.Use)
}

func TestRunCmd_RequiresExactlyOneArg(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestRunCmd_ExecutesTemplate(t *testing.T) {
	run, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("run", "news")

	require.NoError(t, err)
	assert.Equal(t, []string{"news"}, run.calls)
	assert.Equal(t, []bool{false}, run.dry)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "COMPLETED")
	assert.Contains(t, out, "Go 1.24 released")
	assert.Contains(t, out, "articles/2026-03-14/go-1-24-released.md")
	assert.Contains(t, out, "Push:     delivered")
}

func TestRunCmd_DryRunFlag(t *testing.T) {
	run, _, cleanup := setupTestServices()
	defer cleanup()
	run.result.Delivery = nil

	out, err := execute("run", "--dry-run", "news")
	defer func() { runDryRun = false }()

	require.NoError(t, err)
	assert.Equal(t, []bool{true}, run.dry)
	assert.Contains(t, out, "skipped (dry run)")
}

func TestRunCmd_NothingNovelIsNotAnError(t *testing.T) {
	run, _, cleanup := setupTestServices()
	defer cleanup()
	run.err = domain.ErrDuplicateContent

	out, err := execute("run", "news")

	require.NoError(t, err)
	assert.Contains(t, out, "Nothing novel")
}

func TestRunCmd_PropagatesFailure(t *testing.T) {
	run, _, cleanup := setupTestServices()
	defer cleanup()
	run.err = errors.New("boom")

	_, err := execute("run", "news")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunCmd_ReportsPushFailureReason(t *testing.T) {
	run, _, cleanup := setupTestServices()
	defer cleanup()
	run.result.Delivery = &domain.DeliveryResult{
		Persisted: true,
		Location:  "articles/a.md",
		Pushed:    false,
		Reason:    "push failed: token rejected",
	}

	out, err := execute("run", "news")

	require.NoError(t, err)
	assert.Contains(t, out, "push failed: token rejected")
}
