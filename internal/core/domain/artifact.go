package domain

import (
	"fmt"
	"time"
)

// Artifact is the validated output of one pipeline stage. Artifacts are
// immutable once validated and are retained for audit even when the run
// later aborts.
type Artifact interface {
	// Stage identifies which stage produced the artifact.
	Stage() Stage

	// Validate checks the artifact against the stage's output schema.
	// A validation failure aborts the run; the artifact is never passed on.
	Validate() error
}

// TopicBrief is the TOPIC stage output: the chosen topic and its framing.
type TopicBrief struct {
	SelectedTopic   string   `json:"selected_topic"`
	Angle           string   `json:"angle"`
	TargetAudience  string   `json:"target_audience"`
	Rationale       string   `json:"rationale"`
	PotentialTitles []string `json:"potential_titles"`
	Keywords        []string `json:"keywords"`
}

func (TopicBrief) Stage() Stage { return StageTopic }

func (b TopicBrief) Validate() error {
	if b.SelectedTopic == "" {
		return fmt.Errorf("%w: topic brief missing selected_topic", ErrValidation)
	}
	if b.Angle == "" {
		return fmt.Errorf("%w: topic brief missing angle", ErrValidation)
	}
	return nil
}

// Fact is a single sourced claim inside a research dossier.
type Fact struct {
	Claim  string `json:"claim"`
	Source string `json:"source,omitempty"`
}

// Reference is a cited source inside a research dossier.
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// ResearchDossier is the RESEARCH stage output.
type ResearchDossier struct {
	KeyInsights []string    `json:"key_insights"`
	Notes       string      `json:"notes"`
	Facts       []Fact      `json:"facts"`
	References  []Reference `json:"references"`
}

func (ResearchDossier) Stage() Stage { return StageResearch }

func (d ResearchDossier) Validate() error {
	if len(d.KeyInsights) == 0 {
		return fmt.Errorf("%w: research dossier has no key insights", ErrValidation)
	}
	if d.Notes == "" {
		return fmt.Errorf("%w: research dossier missing notes", ErrValidation)
	}
	return nil
}

// Section is one planned chapter of the outline.
type Section struct {
	Heading         string `json:"heading"`
	Summary         string `json:"summary,omitempty"`
	EstimatedLength int    `json:"estimated_length,omitempty"`
}

// Outline is the STRUCTURE stage output.
type Outline struct {
	Hook           string    `json:"hook"`
	Sections       []Section `json:"outline"`
	Closing        string    `json:"closing"`
	EstimatedTotal int       `json:"total_estimated_length"`
}

func (Outline) Stage() Stage { return StageStructure }

func (o Outline) Validate() error {
	if len(o.Sections) == 0 {
		return fmt.Errorf("%w: outline has no sections", ErrValidation)
	}
	for i, s := range o.Sections {
		if s.Heading == "" {
			return fmt.Errorf("%w: outline section %d missing heading", ErrValidation, i)
		}
	}
	return nil
}

// Draft is the WRITE stage output.
type Draft struct {
	Body      string `json:"draft"`
	WordCount int    `json:"actual_word_count"`
}

func (Draft) Stage() Stage { return StageWrite }

func (d Draft) Validate() error {
	if d.Body == "" {
		return fmt.Errorf("%w: draft is empty", ErrValidation)
	}
	return nil
}

// PackagedArticle is the PACKAGE stage output: the publishable unit.
type PackagedArticle struct {
	Title             string   `json:"title"`
	TitleAlternatives []string `json:"title_alternatives"`
	Summary           string   `json:"summary"`
	Body              string   `json:"body"`
	SEOKeywords       []string `json:"seo_keywords"`
}

func (PackagedArticle) Stage() Stage { return StagePackage }

func (a PackagedArticle) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("%w: packaged article missing title", ErrValidation)
	}
	if a.Body == "" {
		return fmt.Errorf("%w: packaged article missing body", ErrValidation)
	}
	return nil
}

// PublishRecord is the PUBLISH stage output. It records the delivery
// attempt; the run completes regardless of the delivery outcome.
type PublishRecord struct {
	Persisted   bool      `json:"persisted"`
	Pushed      bool      `json:"pushed"`
	Location    string    `json:"location,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

func (PublishRecord) Stage() Stage { return StagePublish }

// Validate always passes: a publish record documents an outcome, it has no
// schema the model could violate.
func (PublishRecord) Validate() error { return nil }

// StoredArtifact is the audit-trail form of an artifact: the run it belongs
// to, its stage, and its serialised content.
type StoredArtifact struct {
	RunID     string
	Stage     Stage
	Content   []byte
	CreatedAt time.Time
}
