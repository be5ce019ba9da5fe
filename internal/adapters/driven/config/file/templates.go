package file

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Ensure TemplateStore implements the interface.
var _ driven.TemplateStore = (*TemplateStore)(nil)

// defaultTemplates holds the built-in template definitions, embedded at
// compile time. A templates.yaml in the config directory overrides them
// entirely.
//
//go:embed templates.yaml
var defaultTemplates []byte

// templateFile is the YAML document shape.
type templateFile struct {
	Templates []domain.TemplateConfig `yaml:"templates"`
}

// TemplateStore loads template definitions from the config directory,
// falling back to the embedded defaults.
type TemplateStore struct {
	filePath string
}

// NewTemplateStore creates a template store rooted at configDir. If
// configDir is empty, defaults to ~/.hunter.
func NewTemplateStore(configDir string) (*TemplateStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".hunter")
	}
	return &TemplateStore{filePath: filepath.Join(configDir, "templates.yaml")}, nil
}

// Load returns all template definitions keyed by name.
func (s *TemplateStore) Load() (map[string]domain.TemplateConfig, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", s.filePath, err)
		}
		data = defaultTemplates
	}

	var doc templateFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	templates := make(map[string]domain.TemplateConfig, len(doc.Templates))
	for _, tmpl := range doc.Templates {
		if _, dup := templates[tmpl.Name]; dup {
			return nil, fmt.Errorf("duplicate template %q", tmpl.Name)
		}
		templates[tmpl.Name] = tmpl
	}
	return templates, nil
}

// Path returns the template file path.
func (s *TemplateStore) Path() string {
	return s.filePath
}
