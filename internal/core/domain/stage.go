package domain

import "fmt"

// Stage is one step of the six-step generation state machine. Stages run
// strictly in order; each stage's artifact is the next stage's input.
type Stage string

const (
	StageTopic     Stage = "TOPIC"
	StageResearch  Stage = "RESEARCH"
	StageStructure Stage = "STRUCTURE"
	StageWrite     Stage = "WRITE"
	StagePackage   Stage = "PACKAGE"
	StagePublish   Stage = "PUBLISH"
)

// StageOrder is the fixed execution sequence of the pipeline.
var StageOrder = []Stage{
	StageTopic,
	StageResearch,
	StageStructure,
	StageWrite,
	StagePackage,
	StagePublish,
}

// Index returns the stage's position in the execution order, or -1 for an
// unknown stage.
func (s Stage) Index() int {
	for i, stage := range StageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the stage that follows s, or false if s is PUBLISH or
// unknown.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i == len(StageOrder)-1 {
		return "", false
	}
	return StageOrder[i+1], true
}

// ParseStage converts a string to a Stage.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if stage.Index() < 0 {
		return "", fmt.Errorf("%w: unknown stage %q", ErrConfiguration, s)
	}
	return stage, nil
}
