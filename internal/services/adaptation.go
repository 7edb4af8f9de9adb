package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

// emphasisThreshold is the susceptibility score above which a trigger is
// deliberately worked into generated content.
const emphasisThreshold = 0.6

// ContentPlan tells the content provider what to generate for a user:
// how hard, which psychological pressure to apply, and which attack shape.
type ContentPlan struct {
	Difficulty        int             `json:"difficulty"`
	EmphasizeTriggers []types.Trigger `json:"emphasize_triggers"`
	ScenarioArchetype string          `json:"scenario_archetype"`
}

// TrainingPlan is the cadence recommendation derived from a user's risk.
type TrainingPlan struct {
	Frequency           string          `json:"frequency"`
	FocusAreas          []types.Trigger `json:"focus_areas"`
	RecommendedModules  []string        `json:"recommended_modules"`
	EstimatedTimeline   string          `json:"estimated_timeline"`
	CurrentRiskLevel    string          `json:"current_risk_level"`
	RecommendedDifficulty int           `json:"recommended_difficulty"`
}

type AdaptationService interface {
	PlanContent(ctx context.Context, userID uuid.UUID) (*ContentPlan, error)
	PlanTraining(ctx context.Context, userID uuid.UUID) (*TrainingPlan, error)
}

type adaptationService struct {
	log      *logger.Logger
	behavior BehaviorService
}

func NewAdaptationService(baseLog *logger.Logger, behavior BehaviorService) AdaptationService {
	return &adaptationService{
		log:      baseLog.With("service", "AdaptationService"),
		behavior: behavior,
	}
}

func (s *adaptationService) PlanContent(ctx context.Context, userID uuid.UUID) (*ContentPlan, error) {
	profile, err := s.behavior.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildContentPlan(profile), nil
}

// BuildContentPlan derives the generation parameters from a profile. Pure:
// equal profiles always produce equal plans, so generation stays
// reproducible for a given behavioral state.
func BuildContentPlan(profile *types.BehaviorProfile) *ContentPlan {
	emphasized := make([]types.Trigger, 0, len(types.AllTriggers))
	for _, t := range types.AllTriggers {
		if profile.Susceptibility(t) > emphasisThreshold {
			emphasized = append(emphasized, t)
		}
	}
	return &ContentPlan{
		Difficulty:        RecommendedDifficulty(profile),
		EmphasizeTriggers: emphasized,
		ScenarioArchetype: scenarioArchetype(emphasized),
	}
}

// scenarioArchetype picks the attack shape from the first emphasized
// trigger in fixed tag order; no emphasized trigger means generic content.
func scenarioArchetype(emphasized []types.Trigger) string {
	if len(emphasized) == 0 {
		return "general_phishing"
	}
	switch emphasized[0] {
	case types.TriggerUrgency:
		return "urgent_requests"
	case types.TriggerAuthority:
		return "executive_impersonation"
	case types.TriggerCuriosity:
		return "interesting_links"
	case types.TriggerTrust:
		return "trusted_sender_spoofing"
	}
	return "general_phishing"
}

func (s *adaptationService) PlanTraining(ctx context.Context, userID uuid.UUID) (*TrainingPlan, error) {
	profile, err := s.behavior.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildTrainingPlan(profile), nil
}

// BuildTrainingPlan derives a training cadence from risk level: high-risk
// users train daily on their weakest triggers, low-risk users get a monthly
// maintenance cadence.
func BuildTrainingPlan(profile *types.BehaviorProfile) *TrainingPlan {
	insights := BuildInsights(profile)

	frequency := "monthly"
	timeline := "maintain current awareness"
	switch insights.RiskLevel {
	case "high":
		frequency = "daily"
		timeline = estimateTimeline(profile, 8)
	case "medium":
		frequency = "weekly"
		timeline = estimateTimeline(profile, 4)
	}

	focus := make([]types.Trigger, 0, len(types.AllTriggers))
	for _, t := range types.AllTriggers {
		if profile.Susceptibility(t) > emphasisThreshold {
			focus = append(focus, t)
		}
	}
	if len(focus) == 0 {
		focus = append(focus, insights.PrimaryVulnerability)
	}

	modules := make([]string, 0, len(focus))
	for _, t := range focus {
		modules = append(modules, moduleForTrigger(t))
	}

	return &TrainingPlan{
		Frequency:             frequency,
		FocusAreas:            focus,
		RecommendedModules:    modules,
		EstimatedTimeline:     timeline,
		CurrentRiskLevel:      insights.RiskLevel,
		RecommendedDifficulty: insights.RecommendedDifficulty,
	}
}

// estimateTimeline guesses how many weeks until the user drops a risk band,
// shortened when the improvement trend is already positive.
func estimateTimeline(profile *types.BehaviorProfile, baseWeeks int) string {
	weeks := baseWeeks
	if profile.ImprovementRate > 0.1 {
		weeks = baseWeeks / 2
		if weeks < 1 {
			weeks = 1
		}
	}
	return fmt.Sprintf("approximately %d weeks to reduce risk level", weeks)
}

func moduleForTrigger(t types.Trigger) string {
	switch t {
	case types.TriggerUrgency:
		return "recognizing_artificial_urgency"
	case types.TriggerAuthority:
		return "verifying_executive_requests"
	case types.TriggerCuriosity:
		return "safe_link_handling"
	case types.TriggerFear:
		return "threat_message_response"
	case types.TriggerTrust:
		return "sender_verification"
	}
	return "phishing_fundamentals"
}
