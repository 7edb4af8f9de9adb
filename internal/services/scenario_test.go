package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

func threeStepGraph() *types.ScenarioGraph {
	return &types.ScenarioGraph{
		Description: "suspicious email walkthrough",
		Steps: map[string]types.ScenarioStep{
			"start": {
				Content: "You receive a suspicious email.",
				Decisions: map[string]types.ScenarioDecision{
					"inspect": {Outcome: "You inspect the sender address.", Points: 5, Correct: true, NextStep: "verify"},
					"click":   {Outcome: "You clicked the link.", Points: 0, Correct: false, NextStep: "verify"},
				},
			},
			"verify": {
				Content: "The sender domain looks off.",
				Decisions: map[string]types.ScenarioDecision{
					"call_it": {Outcome: "You call IT to verify.", Points: 5, Correct: true, NextStep: "report"},
				},
			},
			"report": {
				Content: "IT confirms it is phishing.",
				Decisions: map[string]types.ScenarioDecision{
					"report_it": {Outcome: "You report the email.", Points: 10, Correct: true, NextStep: "end"},
				},
			},
		},
	}
}

func newProgress() *types.ScenarioProgress {
	return &types.ScenarioProgress{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ScenarioID:    uuid.New(),
		CurrentStep:   types.StartStep,
		Status:        types.ProgressInProgress,
		DecisionsMade: datatypes.JSON([]byte("[]")),
	}
}

func TestAdvanceProgressThreeStepsToCompletion(t *testing.T) {
	graph := threeStepGraph()
	progress := newProgress()

	for i, decision := range []string{"inspect", "call_it", "report_it"} {
		chosen, completed, err := AdvanceProgress(progress, graph, decision)
		if err != nil {
			t.Fatalf("step %d: AdvanceProgress(%q) error: %v", i, decision, err)
		}
		if !chosen.Correct {
			t.Fatalf("step %d: decision %q marked incorrect", i, decision)
		}
		wantCompleted := i == 2
		if completed != wantCompleted {
			t.Fatalf("step %d: completed=%v, want %v", i, completed, wantCompleted)
		}
	}

	if progress.Score != 20 {
		t.Fatalf("Score=%d, want 20", progress.Score)
	}
	if progress.Status != types.ProgressCompleted {
		t.Fatalf("Status=%q, want %q", progress.Status, types.ProgressCompleted)
	}
	if progress.CompletionRate != 100 {
		t.Fatalf("CompletionRate=%v, want 100", progress.CompletionRate)
	}
	if progress.CompletedAt == nil {
		t.Fatalf("CompletedAt not set on completion")
	}
}

func TestAdvanceProgressUnknownDecisionLeavesStateUnchanged(t *testing.T) {
	graph := threeStepGraph()
	progress := newProgress()

	_, _, err := AdvanceProgress(progress, graph, "forward_to_everyone")
	if err == nil {
		t.Fatalf("AdvanceProgress with unknown decision succeeded, want state error")
	}
	if apierr.CodeOf(err) != apierr.CodeState {
		t.Fatalf("error code=%q, want %q", apierr.CodeOf(err), apierr.CodeState)
	}
	if progress.CurrentStep != types.StartStep {
		t.Fatalf("CurrentStep=%q, want unchanged %q", progress.CurrentStep, types.StartStep)
	}
	if progress.Score != 0 {
		t.Fatalf("Score=%d, want unchanged 0", progress.Score)
	}
	if string(progress.DecisionsMade) != "[]" {
		t.Fatalf("DecisionsMade=%s, want unchanged []", progress.DecisionsMade)
	}
}

func TestAdvanceProgressRecordsDecisionLog(t *testing.T) {
	graph := threeStepGraph()
	progress := newProgress()

	if _, _, err := AdvanceProgress(progress, graph, "click"); err != nil {
		t.Fatalf("AdvanceProgress error: %v", err)
	}
	if progress.CurrentStep != "verify" {
		t.Fatalf("CurrentStep=%q, want verify", progress.CurrentStep)
	}
	want := `[{"step":"start","decision":"click"}]`
	if string(progress.DecisionsMade) != want {
		t.Fatalf("DecisionsMade=%s, want %s", progress.DecisionsMade, want)
	}
	if progress.Score != 0 {
		t.Fatalf("Score=%d after incorrect zero-point decision, want 0", progress.Score)
	}
}

func TestAdvanceProgressMissingStepIsContentError(t *testing.T) {
	graph := threeStepGraph()
	progress := newProgress()
	progress.CurrentStep = "vanished"

	_, _, err := AdvanceProgress(progress, graph, "inspect")
	if err == nil {
		t.Fatalf("AdvanceProgress with dangling current step succeeded, want content error")
	}
	if apierr.CodeOf(err) != apierr.CodeContent {
		t.Fatalf("error code=%q, want %q", apierr.CodeOf(err), apierr.CodeContent)
	}
}
