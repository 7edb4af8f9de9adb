package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

func TestCalculateSuccessScore(t *testing.T) {
	cases := []struct {
		name     string
		kind     types.EventKind
		triggers int
		want     float64
	}{
		{name: "report_no_triggers", kind: types.EventReport, triggers: 0, want: 1.0},
		{name: "report_two_triggers", kind: types.EventReport, triggers: 2, want: 0.9},
		{name: "ignore_no_triggers", kind: types.EventIgnore, triggers: 0, want: 0.7},
		{name: "hesitate_no_triggers", kind: types.EventHesitate, triggers: 0, want: 0.5},
		{name: "click_no_triggers", kind: types.EventClick, triggers: 0, want: 0.0},
		{name: "click_clamped_at_zero", kind: types.EventClick, triggers: 3, want: 0.0},
		{name: "step_action_default_base", kind: types.EventStepAction, triggers: 0, want: 0.5},
		{name: "decision_default_base", kind: types.EventDecision, triggers: 1, want: 0.45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateSuccessScore(tc.kind, tc.triggers)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("CalculateSuccessScore(%q, %d)=%v, want %v", tc.kind, tc.triggers, got, tc.want)
			}
		})
	}
}

func makeEvent(kind types.EventKind, triggers []string, score float64, rt *float64, at time.Time) *types.BehaviorEvent {
	raw, _ := json.Marshal(triggers)
	return &types.BehaviorEvent{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		EventType:       string(kind),
		TriggersPresent: datatypes.JSON(raw),
		ResponseTime:    rt,
		SuccessScore:    score,
		OccurredAt:      at,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestComputeProfileDefaultsWhenEmpty(t *testing.T) {
	profile := types.NewDefaultProfile(uuid.New())
	profile.ClickRate = 0.9
	profile.UrgencySusceptibility = 0.95

	ComputeProfile(profile, nil)

	if profile.ClickRate != types.DefaultClickRate {
		t.Fatalf("ClickRate=%v, want %v", profile.ClickRate, types.DefaultClickRate)
	}
	if profile.ReportRate != types.DefaultReportRate {
		t.Fatalf("ReportRate=%v, want %v", profile.ReportRate, types.DefaultReportRate)
	}
	if profile.AvgResponseTime != types.DefaultAvgResponseTime {
		t.Fatalf("AvgResponseTime=%v, want %v", profile.AvgResponseTime, types.DefaultAvgResponseTime)
	}
	for _, trigger := range types.AllTriggers {
		if got := profile.Susceptibility(trigger); got != types.DefaultSusceptibility {
			t.Fatalf("Susceptibility(%q)=%v, want %v", trigger, got, types.DefaultSusceptibility)
		}
	}
	if profile.ImprovementRate != 0 {
		t.Fatalf("ImprovementRate=%v, want 0", profile.ImprovementRate)
	}
}

func TestComputeProfileSusceptibility(t *testing.T) {
	now := time.Now().UTC()

	t.Run("all_urgency_clicked", func(t *testing.T) {
		events := []*types.BehaviorEvent{
			makeEvent(types.EventClick, []string{"urgency"}, 0, nil, now),
			makeEvent(types.EventClick, []string{"urgency"}, 0, nil, now),
			makeEvent(types.EventClick, []string{"urgency"}, 0, nil, now),
		}
		profile := types.NewDefaultProfile(uuid.New())
		ComputeProfile(profile, events)
		if profile.UrgencySusceptibility != 1.0 {
			t.Fatalf("UrgencySusceptibility=%v, want 1.0", profile.UrgencySusceptibility)
		}
	})

	t.Run("all_urgency_reported", func(t *testing.T) {
		events := []*types.BehaviorEvent{
			makeEvent(types.EventReport, []string{"urgency"}, 1, nil, now),
			makeEvent(types.EventReport, []string{"urgency"}, 1, nil, now),
		}
		profile := types.NewDefaultProfile(uuid.New())
		ComputeProfile(profile, events)
		if profile.UrgencySusceptibility != 0.0 {
			t.Fatalf("UrgencySusceptibility=%v, want 0.0", profile.UrgencySusceptibility)
		}
	})

	t.Run("untagged_trigger_keeps_default", func(t *testing.T) {
		events := []*types.BehaviorEvent{
			makeEvent(types.EventClick, []string{"urgency"}, 0, nil, now),
		}
		profile := types.NewDefaultProfile(uuid.New())
		ComputeProfile(profile, events)
		if profile.FearSusceptibility != types.DefaultSusceptibility {
			t.Fatalf("FearSusceptibility=%v, want default %v", profile.FearSusceptibility, types.DefaultSusceptibility)
		}
	})
}

func TestComputeProfileRates(t *testing.T) {
	now := time.Now().UTC()
	events := []*types.BehaviorEvent{
		makeEvent(types.EventClick, nil, 0, floatPtr(10), now),
		makeEvent(types.EventReport, nil, 1, floatPtr(20), now),
		makeEvent(types.EventIgnore, nil, 0.7, nil, now),
		makeEvent(types.EventReport, nil, 1, nil, now),
	}
	profile := types.NewDefaultProfile(uuid.New())
	ComputeProfile(profile, events)

	if math.Abs(profile.ClickRate-0.25) > 1e-9 {
		t.Fatalf("ClickRate=%v, want 0.25", profile.ClickRate)
	}
	if math.Abs(profile.ReportRate-0.5) > 1e-9 {
		t.Fatalf("ReportRate=%v, want 0.5", profile.ReportRate)
	}
	if math.Abs(profile.AvgResponseTime-15) > 1e-9 {
		t.Fatalf("AvgResponseTime=%v, want 15 (mean of timed events only)", profile.AvgResponseTime)
	}
}

func TestImprovementRateNeedsTenEvents(t *testing.T) {
	now := time.Now().UTC()
	var events []*types.BehaviorEvent
	for i := 0; i < 9; i++ {
		events = append(events, makeEvent(types.EventClick, nil, 0, nil, now.Add(time.Duration(i)*time.Minute)))
	}
	profile := types.NewDefaultProfile(uuid.New())
	ComputeProfile(profile, events)
	if profile.ImprovementRate != 0 {
		t.Fatalf("ImprovementRate=%v with 9 events, want 0", profile.ImprovementRate)
	}
}

func TestImprovementRateHalves(t *testing.T) {
	now := time.Now().UTC()
	var events []*types.BehaviorEvent
	// first half all failures, second half all successes
	for i := 0; i < 5; i++ {
		events = append(events, makeEvent(types.EventClick, nil, 0, nil, now.Add(time.Duration(i)*time.Minute)))
	}
	for i := 5; i < 10; i++ {
		events = append(events, makeEvent(types.EventReport, nil, 1, nil, now.Add(time.Duration(i)*time.Minute)))
	}
	profile := types.NewDefaultProfile(uuid.New())
	ComputeProfile(profile, events)
	if math.Abs(profile.ImprovementRate-1.0) > 1e-9 {
		t.Fatalf("ImprovementRate=%v, want 1.0", profile.ImprovementRate)
	}
}

func TestBuildInsights(t *testing.T) {
	t.Run("risk_bands", func(t *testing.T) {
		p := types.NewDefaultProfile(uuid.New())
		p.ClickRate = 0.61
		if got := BuildInsights(p).RiskLevel; got != "high" {
			t.Fatalf("RiskLevel=%q, want high", got)
		}
		p.ClickRate = 0.31
		if got := BuildInsights(p).RiskLevel; got != "medium" {
			t.Fatalf("RiskLevel=%q, want medium", got)
		}
		p.ClickRate = 0.3
		if got := BuildInsights(p).RiskLevel; got != "low" {
			t.Fatalf("RiskLevel=%q, want low", got)
		}
	})

	t.Run("trend", func(t *testing.T) {
		p := types.NewDefaultProfile(uuid.New())
		p.ImprovementRate = 0.11
		if got := BuildInsights(p).ImprovementTrend; got != "improving" {
			t.Fatalf("ImprovementTrend=%q, want improving", got)
		}
		p.ImprovementRate = -0.11
		if got := BuildInsights(p).ImprovementTrend; got != "declining" {
			t.Fatalf("ImprovementTrend=%q, want declining", got)
		}
		p.ImprovementRate = 0.05
		if got := BuildInsights(p).ImprovementTrend; got != "stable" {
			t.Fatalf("ImprovementTrend=%q, want stable", got)
		}
	})

	t.Run("speed", func(t *testing.T) {
		p := types.NewDefaultProfile(uuid.New())
		p.AvgResponseTime = 10
		if got := BuildInsights(p).ResponseSpeed; got != "fast" {
			t.Fatalf("ResponseSpeed=%q, want fast", got)
		}
		p.AvgResponseTime = 30
		if got := BuildInsights(p).ResponseSpeed; got != "medium" {
			t.Fatalf("ResponseSpeed=%q, want medium", got)
		}
		p.AvgResponseTime = 60
		if got := BuildInsights(p).ResponseSpeed; got != "slow" {
			t.Fatalf("ResponseSpeed=%q, want slow", got)
		}
	})

	t.Run("primary_vulnerability_tie_breaks_in_tag_order", func(t *testing.T) {
		p := types.NewDefaultProfile(uuid.New())
		p.AuthoritySusceptibility = 0.8
		p.FearSusceptibility = 0.8
		got := BuildInsights(p)
		if got.PrimaryVulnerability != types.TriggerAuthority {
			t.Fatalf("PrimaryVulnerability=%q, want authority (first in tag order)", got.PrimaryVulnerability)
		}
		if got.VulnerabilityScore != 0.8 {
			t.Fatalf("VulnerabilityScore=%v, want 0.8", got.VulnerabilityScore)
		}
	})
}

func TestRecommendedDifficulty(t *testing.T) {
	cases := []struct {
		name        string
		clickRate   float64
		improvement float64
		want        int
	}{
		{name: "improving_fast_bumps_two", clickRate: 0.25, improvement: 0.25, want: 4},
		{name: "declining_drops_one", clickRate: 0.25, improvement: -0.2, want: 1},
		{name: "stable_bumps_one", clickRate: 0.25, improvement: 0, want: 3},
		{name: "clamped_low", clickRate: 0.0, improvement: -0.5, want: 1},
		{name: "clamped_high", clickRate: 0.9, improvement: 0.3, want: 5},
		{name: "floor_of_click_rate_times_ten", clickRate: 0.19, improvement: 0, want: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := types.NewDefaultProfile(uuid.New())
			p.ClickRate = tc.clickRate
			p.ImprovementRate = tc.improvement
			if got := RecommendedDifficulty(p); got != tc.want {
				t.Fatalf("RecommendedDifficulty(click=%v, improve=%v)=%d, want %d", tc.clickRate, tc.improvement, got, tc.want)
			}
		})
	}
}

// flakyBehavior fails the first failUntil RecordEvent calls, then succeeds.
type flakyBehavior struct {
	BehaviorService
	failUntil int
	calls     int
}

func (f *flakyBehavior) RecordEvent(ctx context.Context, input RecordEventInput) (*types.BehaviorEvent, *types.BehaviorProfile, error) {
	f.calls++
	if f.calls <= f.failUntil {
		return nil, nil, apierr.Storage(errors.New("connection reset"))
	}
	return &types.BehaviorEvent{ID: uuid.New()}, types.NewDefaultProfile(input.UserID), nil
}

func TestRecordEventWithRetry(t *testing.T) {
	log, err := logger.New("prod")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	input := RecordEventInput{UserID: uuid.New(), EventKind: types.EventDecision, SimulationType: "scenario"}

	t.Run("retry_recovers_single_failure", func(t *testing.T) {
		fb := &flakyBehavior{failUntil: 1}
		if err := recordEventWithRetry(context.Background(), log, fb, input); err != nil {
			t.Fatalf("recordEventWithRetry=%v, want nil after one retry", err)
		}
		if fb.calls != 2 {
			t.Fatalf("RecordEvent called %d times, want 2", fb.calls)
		}
	})

	t.Run("persistent_failure_propagates", func(t *testing.T) {
		fb := &flakyBehavior{failUntil: 2}
		err := recordEventWithRetry(context.Background(), log, fb, input)
		if err == nil {
			t.Fatalf("recordEventWithRetry=nil, want storage error")
		}
		if apierr.CodeOf(err) != apierr.CodeStorage {
			t.Fatalf("CodeOf(err)=%q, want %q", apierr.CodeOf(err), apierr.CodeStorage)
		}
		if fb.calls != 2 {
			t.Fatalf("RecordEvent called %d times, want 2 (one retry only)", fb.calls)
		}
	})
}
