package types

import (
	"encoding/json"
	"fmt"
)

// TerminalStep is the next-step marker that completes a scenario.
const TerminalStep = "end"

// StartStep is the designated entry step of every scenario graph.
const StartStep = "start"

// ScenarioDecision is one named choice inside a scenario step.
type ScenarioDecision struct {
	Outcome  string `json:"outcome" yaml:"outcome"`
	Points   int    `json:"points" yaml:"points"`
	Correct  bool   `json:"correct" yaml:"correct"`
	NextStep string `json:"next_step" yaml:"next_step"`
}

// ScenarioStep is a node of the branching graph: display content plus a
// decision table keyed by decision name.
type ScenarioStep struct {
	Content   string                      `json:"content" yaml:"content"`
	Decisions map[string]ScenarioDecision `json:"decisions" yaml:"decisions"`
}

// ScenarioGraph is the immutable content of a branching scenario. It is
// authored content, so structural defects are surfaced loudly at load time
// rather than patched over at runtime.
type ScenarioGraph struct {
	Description string                  `json:"description" yaml:"description"`
	Steps       map[string]ScenarioStep `json:"steps" yaml:"steps"`
}

// Validate checks the authoring invariants: a start step exists, every step
// has at least one decision, and every next-step reference resolves inside
// the graph or is the terminal marker.
func (g *ScenarioGraph) Validate() error {
	if len(g.Steps) == 0 {
		return fmt.Errorf("scenario graph has no steps")
	}
	if _, ok := g.Steps[StartStep]; !ok {
		return fmt.Errorf("scenario graph has no %q step", StartStep)
	}
	for name, step := range g.Steps {
		if len(step.Decisions) == 0 {
			return fmt.Errorf("step %q has an empty decision table", name)
		}
		for decision, d := range step.Decisions {
			if d.NextStep == TerminalStep {
				continue
			}
			if _, ok := g.Steps[d.NextStep]; !ok {
				return fmt.Errorf("step %q decision %q references missing step %q", name, decision, d.NextStep)
			}
		}
	}
	return nil
}

// ParseScenarioGraph decodes and validates a stored scenario payload.
func ParseScenarioGraph(raw []byte) (*ScenarioGraph, error) {
	var g ScenarioGraph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode scenario graph: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}
