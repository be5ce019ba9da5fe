package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterworks/hunter-factory/internal/adapters/driven/storage/memory"
	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

func registryFixture(t *testing.T, templates ...domain.TemplateConfig) (*Registry, *memory.ConfigStore) {
	t.Helper()
	byName := make(map[string]domain.TemplateConfig, len(templates))
	for _, tmpl := range templates {
		byName[tmpl.Name] = tmpl
	}
	config := memory.NewConfigStore()
	registry, err := NewRegistry(&mockTemplateStore{templates: byName}, config)
	require.NoError(t, err)
	return registry, config
}

func TestRegistry_Resolve_Known(t *testing.T) {
	registry, _ := registryFixture(t, testTemplate("news"))

	tmpl, err := registry.Resolve("news")
	require.NoError(t, err)
	assert.Equal(t, "news", tmpl.Name)
}

func TestRegistry_Resolve_Unknown(t *testing.T) {
	registry, _ := registryFixture(t, testTemplate("news"))

	_, err := registry.Resolve("nope")
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "news")
}

func TestRegistry_Resolve_MissingConfigKey(t *testing.T) {
	tmpl := testTemplate("github")
	tmpl.RequiredConfigKeys = []string{"github.token", "pushplus.token"}
	registry, config := registryFixture(t, tmpl)

	require.NoError(t, config.Set("github.token", "ghp_abc"))

	_, err := registry.Resolve("github")
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "pushplus.token")
	assert.NotContains(t, err.Error(), "github.token missing")
}

func TestRegistry_Resolve_EmptyConfigValue(t *testing.T) {
	tmpl := testTemplate("github")
	tmpl.RequiredConfigKeys = []string{"github.token"}
	registry, config := registryFixture(t, tmpl)

	// Present but blank counts as missing.
	require.NoError(t, config.Set("github.token", "   "))

	_, err := registry.Resolve("github")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRegistry_Resolve_AllKeysPresent(t *testing.T) {
	tmpl := testTemplate("github")
	tmpl.RequiredConfigKeys = []string{"github.token"}
	registry, config := registryFixture(t, tmpl)

	require.NoError(t, config.Set("github.token", "ghp_abc"))

	resolved, err := registry.Resolve("github")
	require.NoError(t, err)
	assert.Equal(t, []string{"github.token"}, resolved.RequiredConfigKeys)
}

func TestNewRegistry_InvalidTemplate(t *testing.T) {
	broken := testTemplate("broken")
	broken.Sources = nil

	_, err := NewRegistry(&mockTemplateStore{templates: map[string]domain.TemplateConfig{
		"broken": broken,
	}}, memory.NewConfigStore())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewRegistry_LoadFailure(t *testing.T) {
	_, err := NewRegistry(&mockTemplateStore{loadErr: errors.New("yaml parse error")}, memory.NewConfigStore())
	assert.Error(t, err)
}

func TestRegistry_List_Sorted(t *testing.T) {
	registry, _ := registryFixture(t,
		testTemplate("news"), testTemplate("auto"), testTemplate("github"))

	list := registry.List()
	require.Len(t, list, 3)
	assert.Equal(t, "auto", list[0].Name)
	assert.Equal(t, "github", list[1].Name)
	assert.Equal(t, "news", list[2].Name)
}
