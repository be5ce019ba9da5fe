package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Registry resolves template names to validated template configurations.
// Definitions are loaded once at construction and read-only afterwards.
type Registry struct {
	templates map[string]domain.TemplateConfig
	config    driven.ConfigStore
}

// NewRegistry loads all template definitions and validates them. A broken
// definition fails construction rather than a later run.
func NewRegistry(store driven.TemplateStore, config driven.ConfigStore) (*Registry, error) {
	templates, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	for name, tmpl := range templates {
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
	}
	return &Registry{templates: templates, config: config}, nil
}

// Resolve returns the named template after verifying every required
// configuration key is present and non-empty. It runs synchronously,
// before any network or model call, so a misconfigured template never
// wastes collection or generation work.
func (r *Registry) Resolve(name string) (*domain.TemplateConfig, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown template %q (available: %s)",
			domain.ErrConfiguration, name, strings.Join(r.Names(), ", "))
	}

	var missing []string
	for _, key := range tmpl.RequiredConfigKeys {
		if strings.TrimSpace(r.config.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: template %q missing config keys: %s",
			domain.ErrConfiguration, name, strings.Join(missing, ", "))
	}

	return &tmpl, nil
}

// Names returns the sorted names of all registered templates.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all template definitions sorted by name.
func (r *Registry) List() []domain.TemplateConfig {
	list := make([]domain.TemplateConfig, 0, len(r.templates))
	for _, name := range r.Names() {
		list = append(list, r.templates[name])
	}
	return list
}
