package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreSetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("github.token", "ghp_test"))
	require.NoError(t, store.Set("scheduler.interval_hours", int64(6)))
	require.NoError(t, store.Set("delivery.push_enabled", true))

	assert.Equal(t, "ghp_test", store.GetString("github.token"))
	assert.Equal(t, 6, store.GetInt("scheduler.interval_hours"))
	assert.True(t, store.GetBool("delivery.push_enabled"))

	_, ok := store.Get("missing.key")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing.key"))
	assert.Zero(t, store.GetInt("missing.key"))
	assert.False(t, store.GetBool("missing.key"))
}

func TestConfigStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("pushplus.token", "abc123"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "abc123", reopened.GetString("pushplus.token"))
}

func TestConfigStoreFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[github]
token = "ghp_nested"

[reddit]
subreddits = ["golang", "programming"]

[ai.model]
provider = "openai"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_nested", store.GetString("github.token"))
	assert.Equal(t, "openai", store.GetString("ai.model.provider"))
	assert.Equal(t, []string{"golang", "programming"}, store.GetStringSlice("reddit.subreddits"))
}

func TestConfigStoreGetStringSliceMissing(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Nil(t, store.GetStringSlice("rss.feeds"))
}

func TestConfigStoreMissingFileIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStoreRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStoreFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
