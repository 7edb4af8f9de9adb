// Package content holds the authored simulation library: branching scenario
// graphs, ordered incident-response sequences, and the static phishing
// templates used when the generative provider is unavailable. Everything is
// validated at load time; a malformed graph is an authoring defect and
// refuses to load.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/cyberdrill-backend/internal/types"
)

//go:embed scenarios.yaml
var scenariosRaw []byte

//go:embed sequences.yaml
var sequencesRaw []byte

// SeedScenario is one authored branching scenario ready to be persisted.
type SeedScenario struct {
	Title      string              `yaml:"title"`
	Category   string              `yaml:"category"`
	Difficulty string              `yaml:"difficulty"`
	AIAdaptive bool                `yaml:"ai_adaptive"`
	Graph      types.ScenarioGraph `yaml:"graph"`
}

type Library struct {
	Scenarios []SeedScenario
	sequences map[string]types.StepSequence
}

type scenarioFile struct {
	Scenarios []SeedScenario `yaml:"scenarios"`
}

type sequenceFile struct {
	Sequences []types.StepSequence `yaml:"sequences"`
}

// Load parses and validates the embedded library.
func Load() (*Library, error) {
	var sf scenarioFile
	if err := yaml.Unmarshal(scenariosRaw, &sf); err != nil {
		return nil, fmt.Errorf("parse scenarios.yaml: %w", err)
	}
	if len(sf.Scenarios) == 0 {
		return nil, fmt.Errorf("scenarios.yaml contains no scenarios")
	}
	for i := range sf.Scenarios {
		s := &sf.Scenarios[i]
		if s.Title == "" || s.Category == "" {
			return nil, fmt.Errorf("scenario %d is missing a title or category", i)
		}
		if err := s.Graph.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Title, err)
		}
	}

	var qf sequenceFile
	if err := yaml.Unmarshal(sequencesRaw, &qf); err != nil {
		return nil, fmt.Errorf("parse sequences.yaml: %w", err)
	}
	sequences := make(map[string]types.StepSequence, len(qf.Sequences))
	for _, seq := range qf.Sequences {
		if seq.ScenarioType == "" {
			return nil, fmt.Errorf("sequence with empty scenario_type")
		}
		if len(seq.Steps) == 0 {
			return nil, fmt.Errorf("sequence %q has no steps", seq.ScenarioType)
		}
		for i, step := range seq.Steps {
			if step.Action == "" {
				return nil, fmt.Errorf("sequence %q step %d has no action", seq.ScenarioType, i)
			}
			if step.ID != i+1 {
				return nil, fmt.Errorf("sequence %q step %d has id %d, want %d", seq.ScenarioType, i, step.ID, i+1)
			}
		}
		if _, dup := sequences[seq.ScenarioType]; dup {
			return nil, fmt.Errorf("duplicate sequence %q", seq.ScenarioType)
		}
		sequences[seq.ScenarioType] = seq
	}
	if _, ok := sequences["crypto_locker"]; !ok {
		return nil, fmt.Errorf("sequences.yaml is missing the crypto_locker default")
	}

	return &Library{Scenarios: sf.Scenarios, sequences: sequences}, nil
}

// Sequence returns the step sequence for a scenario type, falling back to
// crypto_locker for unknown types.
func (l *Library) Sequence(scenarioType string) types.StepSequence {
	if seq, ok := l.sequences[scenarioType]; ok {
		return seq
	}
	return l.sequences["crypto_locker"]
}

// HasSequence reports whether a scenario type has authored steps.
func (l *Library) HasSequence(scenarioType string) bool {
	_, ok := l.sequences[scenarioType]
	return ok
}

// SequenceTypes lists the authored procedural scenario types.
func (l *Library) SequenceTypes() []string {
	out := make([]string, 0, len(l.sequences))
	for k := range l.sequences {
		out = append(out, k)
	}
	return out
}
