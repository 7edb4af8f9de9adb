package services

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

func TestFinalScore(t *testing.T) {
	cases := []struct {
		name      string
		elapsed   float64
		incorrect int
		want      float64
	}{
		{name: "instant_perfect_run", elapsed: 0, incorrect: 0, want: 100},
		{name: "ten_minutes_no_errors", elapsed: 600, incorrect: 0, want: 90},
		{name: "time_penalty_caps_at_thirty", elapsed: 7200, incorrect: 0, want: 70},
		{name: "each_error_costs_ten", elapsed: 0, incorrect: 3, want: 70},
		{name: "combined_penalties", elapsed: 600, incorrect: 2, want: 70},
		{name: "floors_at_zero", elapsed: 7200, incorrect: 10, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FinalScore(tc.elapsed, tc.incorrect)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("FinalScore(%v, %d)=%v, want %v", tc.elapsed, tc.incorrect, got, tc.want)
			}
		})
	}
}

func drillSequence(steps int) *types.StepSequence {
	seq := &types.StepSequence{ScenarioType: "crypto_locker"}
	for i := 1; i <= steps; i++ {
		seq.Steps = append(seq.Steps, types.SequenceStep{
			ID:     i,
			Title:  fmt.Sprintf("Step %d", i),
			Action: fmt.Sprintf("action_%d", i),
		})
	}
	return seq
}

func freshRun(totalSteps int) *types.SimulationRun {
	return &types.SimulationRun{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		ScenarioType:   "crypto_locker",
		TotalSteps:     totalSteps,
		StepsCompleted: datatypes.JSON([]byte("[]")),
	}
}

func TestApplyActionAccumulatesSubmittedTime(t *testing.T) {
	seq := drillSequence(8)
	run := freshRun(8)
	stepTime := 75.0

	var last *ActionResult
	for i, step := range seq.Steps {
		record, res, err := ApplyAction(run, seq, step.Action, &stepTime)
		if err != nil {
			t.Fatalf("ApplyAction step %d error: %v", i+1, err)
		}
		if !res.Correct {
			t.Fatalf("step %d marked incorrect for the required action %q", i+1, step.Action)
		}
		if record.StepNumber != step.ID {
			t.Fatalf("record.StepNumber=%d, want %d", record.StepNumber, step.ID)
		}
		last = res
	}

	if !last.Completed || !run.IsCompleted {
		t.Fatalf("run not completed after all %d steps", len(seq.Steps))
	}
	if math.Abs(run.TimeTaken-600) > 1e-9 {
		t.Fatalf("TimeTaken=%v, want 600 (sum of submitted step times)", run.TimeTaken)
	}
	if math.Abs(last.FinalScore-90) > 1e-9 {
		t.Fatalf("FinalScore=%v, want 90", last.FinalScore)
	}

	var done []int
	if err := json.Unmarshal(run.StepsCompleted, &done); err != nil {
		t.Fatalf("StepsCompleted unmarshal: %v", err)
	}
	if len(done) != 8 {
		t.Fatalf("StepsCompleted has %d entries, want 8", len(done))
	}
	for i, id := range done {
		if id != i+1 {
			t.Fatalf("StepsCompleted[%d]=%d, want %d", i, id, i+1)
		}
	}
}

func TestApplyActionWrongActionAddsNoTime(t *testing.T) {
	seq := drillSequence(3)
	run := freshRun(3)
	stepTime := 40.0

	record, res, err := ApplyAction(run, seq, "unplug_the_monitor", &stepTime)
	if err != nil {
		t.Fatalf("ApplyAction error: %v", err)
	}
	if res.Correct {
		t.Fatalf("wrong action marked correct")
	}
	if run.TimeTaken != 0 {
		t.Fatalf("TimeTaken=%v after a wrong action, want 0", run.TimeTaken)
	}
	if run.IncorrectActions != 1 {
		t.Fatalf("IncorrectActions=%d, want 1", run.IncorrectActions)
	}
	if run.CurrentStep != 0 {
		t.Fatalf("CurrentStep=%d after a wrong action, want 0", run.CurrentStep)
	}
	if record.IsCorrect || record.TimeTaken != 40 {
		t.Fatalf("record=%+v, want incorrect with the submitted time kept for audit", record)
	}
	if string(run.StepsCompleted) != "[]" {
		t.Fatalf("StepsCompleted=%s after a wrong action, want []", run.StepsCompleted)
	}
}

func TestApplyActionErrorPenaltyOnCompletion(t *testing.T) {
	seq := drillSequence(2)
	run := freshRun(2)
	stepTime := 60.0

	if _, res, err := ApplyAction(run, seq, "wrong", &stepTime); err != nil || res.Correct {
		t.Fatalf("wrong action: res=%+v err=%v", res, err)
	}
	if _, _, err := ApplyAction(run, seq, "action_1", &stepTime); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	_, res, err := ApplyAction(run, seq, "action_2", &stepTime)
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if !res.Completed {
		t.Fatalf("run not completed")
	}
	// 100 - 120/60 - 10*1 = 88; the wrong action's 60s never entered TimeTaken.
	if math.Abs(run.TimeTaken-120) > 1e-9 {
		t.Fatalf("TimeTaken=%v, want 120", run.TimeTaken)
	}
	if math.Abs(res.FinalScore-88) > 1e-9 {
		t.Fatalf("FinalScore=%v, want 88", res.FinalScore)
	}
}

func TestApplyActionStepIndexOutOfRange(t *testing.T) {
	seq := drillSequence(2)
	run := freshRun(2)
	run.CurrentStep = 2

	_, _, err := ApplyAction(run, seq, "action_1", nil)
	if err == nil {
		t.Fatalf("ApplyAction past the sequence end succeeded, want error")
	}
	if apierr.CodeOf(err) != apierr.CodeContent {
		t.Fatalf("CodeOf(err)=%q, want %q", apierr.CodeOf(err), apierr.CodeContent)
	}
}
