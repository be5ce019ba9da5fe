package domain

import "fmt"

// TemplateConfig describes one content template: which sources feed it,
// which configuration keys it needs, and the prompt for each stage.
// Resolved once by the registry and read-only during runs.
type TemplateConfig struct {
	// Name is the registry key (e.g. "github", "pain", "news", "auto").
	Name string `yaml:"name"`

	// Description is a one-line human-readable summary.
	Description string `yaml:"description"`

	// RequiredConfigKeys must all be present and non-empty in the config
	// store before a run starts.
	RequiredConfigKeys []string `yaml:"required_config_keys"`

	// Sources is the subset of connectors this template collects from.
	Sources []string `yaml:"sources"`

	// StagePrompts maps each generation stage to its prompt template.
	// PUBLISH needs no prompt: it delegates to delivery.
	StagePrompts map[Stage]string `yaml:"stage_prompts"`

	// Weights tune candidate scoring for this template.
	Weights ScoreWeights `yaml:"weights"`
}

// Validate checks the template definition is internally complete.
// This guards the definition itself, not the runtime configuration;
// the registry checks RequiredConfigKeys against the config store.
func (t TemplateConfig) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: template missing name", ErrConfiguration)
	}
	if len(t.Sources) == 0 {
		return fmt.Errorf("%w: template %q has no sources", ErrConfiguration, t.Name)
	}
	for _, stage := range StageOrder {
		if stage == StagePublish {
			continue
		}
		if t.StagePrompts[stage] == "" {
			return fmt.Errorf("%w: template %q missing prompt for stage %s",
				ErrConfiguration, t.Name, stage)
		}
	}
	return t.Weights.Validate()
}
