package types

import "testing"

func validGraph() *ScenarioGraph {
	return &ScenarioGraph{
		Description: "test",
		Steps: map[string]ScenarioStep{
			"start": {
				Content: "first",
				Decisions: map[string]ScenarioDecision{
					"go": {Outcome: "moved on", Points: 5, Correct: true, NextStep: "middle"},
				},
			},
			"middle": {
				Content: "second",
				Decisions: map[string]ScenarioDecision{
					"finish": {Outcome: "done", Points: 10, Correct: true, NextStep: "end"},
				},
			},
		},
	}
}

func TestScenarioGraphValidate(t *testing.T) {
	t.Run("valid_graph", func(t *testing.T) {
		if err := validGraph().Validate(); err != nil {
			t.Fatalf("Validate()=%v, want nil", err)
		}
	})

	t.Run("empty_graph", func(t *testing.T) {
		g := &ScenarioGraph{}
		if err := g.Validate(); err == nil {
			t.Fatalf("Validate() on empty graph succeeded, want error")
		}
	})

	t.Run("missing_start", func(t *testing.T) {
		g := validGraph()
		delete(g.Steps, "start")
		if err := g.Validate(); err == nil {
			t.Fatalf("Validate() without start step succeeded, want error")
		}
	})

	t.Run("empty_decision_table", func(t *testing.T) {
		g := validGraph()
		g.Steps["middle"] = ScenarioStep{Content: "second"}
		if err := g.Validate(); err == nil {
			t.Fatalf("Validate() with empty decision table succeeded, want error")
		}
	})

	t.Run("dangling_next_step", func(t *testing.T) {
		g := validGraph()
		g.Steps["middle"] = ScenarioStep{
			Content: "second",
			Decisions: map[string]ScenarioDecision{
				"finish": {NextStep: "nowhere"},
			},
		}
		if err := g.Validate(); err == nil {
			t.Fatalf("Validate() with dangling next_step succeeded, want error")
		}
	})
}

func TestParseScenarioGraph(t *testing.T) {
	raw := []byte(`{
		"description": "wire format",
		"steps": {
			"start": {
				"content": "first",
				"decisions": {
					"done": {"outcome": "finished", "points": 10, "correct": true, "next_step": "end"}
				}
			}
		}
	}`)
	g, err := ParseScenarioGraph(raw)
	if err != nil {
		t.Fatalf("ParseScenarioGraph error: %v", err)
	}
	d := g.Steps["start"].Decisions["done"]
	if d.Points != 10 || !d.Correct || d.NextStep != TerminalStep {
		t.Fatalf("decoded decision=%+v, want points 10, correct, terminal next step", d)
	}

	if _, err := ParseScenarioGraph([]byte(`{"steps":{}}`)); err == nil {
		t.Fatalf("ParseScenarioGraph accepted empty steps, want error")
	}
	if _, err := ParseScenarioGraph([]byte(`not json`)); err == nil {
		t.Fatalf("ParseScenarioGraph accepted malformed JSON, want error")
	}
}
