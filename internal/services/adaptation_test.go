package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/cyberdrill-backend/internal/types"
)

func TestBuildContentPlanEmphasis(t *testing.T) {
	p := types.NewDefaultProfile(uuid.New())
	p.UrgencySusceptibility = 0.7
	p.TrustSusceptibility = 0.65
	p.FearSusceptibility = 0.6 // boundary, not emphasized

	plan := BuildContentPlan(p)

	if len(plan.EmphasizeTriggers) != 2 {
		t.Fatalf("EmphasizeTriggers=%v, want exactly urgency and trust", plan.EmphasizeTriggers)
	}
	if plan.EmphasizeTriggers[0] != types.TriggerUrgency || plan.EmphasizeTriggers[1] != types.TriggerTrust {
		t.Fatalf("EmphasizeTriggers=%v, want [urgency trust] in tag order", plan.EmphasizeTriggers)
	}
	if plan.ScenarioArchetype != "urgent_requests" {
		t.Fatalf("ScenarioArchetype=%q, want urgent_requests", plan.ScenarioArchetype)
	}
}

func TestBuildContentPlanArchetypes(t *testing.T) {
	cases := []struct {
		name    string
		trigger types.Trigger
		want    string
	}{
		{name: "urgency", trigger: types.TriggerUrgency, want: "urgent_requests"},
		{name: "authority", trigger: types.TriggerAuthority, want: "executive_impersonation"},
		{name: "curiosity", trigger: types.TriggerCuriosity, want: "interesting_links"},
		{name: "trust", trigger: types.TriggerTrust, want: "trusted_sender_spoofing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := types.NewDefaultProfile(uuid.New())
			p.SetSusceptibility(tc.trigger, 0.9)
			plan := BuildContentPlan(p)
			if plan.ScenarioArchetype != tc.want {
				t.Fatalf("ScenarioArchetype=%q, want %q", plan.ScenarioArchetype, tc.want)
			}
		})
	}
}

func TestBuildContentPlanFallbackArchetype(t *testing.T) {
	p := types.NewDefaultProfile(uuid.New())
	plan := BuildContentPlan(p)
	if len(plan.EmphasizeTriggers) != 0 {
		t.Fatalf("EmphasizeTriggers=%v, want none at default susceptibility", plan.EmphasizeTriggers)
	}
	if plan.ScenarioArchetype != "general_phishing" {
		t.Fatalf("ScenarioArchetype=%q, want general_phishing", plan.ScenarioArchetype)
	}
	// fear alone also has no dedicated archetype
	p.FearSusceptibility = 0.9
	plan = BuildContentPlan(p)
	if plan.ScenarioArchetype != "general_phishing" {
		t.Fatalf("ScenarioArchetype=%q for fear-only profile, want general_phishing", plan.ScenarioArchetype)
	}
}

func TestBuildTrainingPlanFrequency(t *testing.T) {
	cases := []struct {
		name      string
		clickRate float64
		want      string
	}{
		{name: "high_risk_daily", clickRate: 0.7, want: "daily"},
		{name: "medium_risk_weekly", clickRate: 0.4, want: "weekly"},
		{name: "low_risk_monthly", clickRate: 0.1, want: "monthly"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := types.NewDefaultProfile(uuid.New())
			p.ClickRate = tc.clickRate
			plan := BuildTrainingPlan(p)
			if plan.Frequency != tc.want {
				t.Fatalf("Frequency=%q for click rate %v, want %q", plan.Frequency, tc.clickRate, tc.want)
			}
		})
	}
}

func TestBuildTrainingPlanFocusFallsBackToPrimary(t *testing.T) {
	p := types.NewDefaultProfile(uuid.New())
	p.CuriositySusceptibility = 0.55 // highest but below emphasis threshold
	plan := BuildTrainingPlan(p)
	if len(plan.FocusAreas) != 1 || plan.FocusAreas[0] != types.TriggerCuriosity {
		t.Fatalf("FocusAreas=%v, want [curiosity]", plan.FocusAreas)
	}
	if len(plan.RecommendedModules) != 1 {
		t.Fatalf("RecommendedModules=%v, want one module", plan.RecommendedModules)
	}
}
