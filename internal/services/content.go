package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/content"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

// GeneratedPhishing is the validated output of the content provider for one
// phishing email.
type GeneratedPhishing struct {
	Subject      string          `json:"subject"`
	Sender       string          `json:"sender"`
	SenderName   string          `json:"sender_name"`
	Content      string          `json:"content"`
	AttackVector string          `json:"attack_vector"`
	Triggers     []types.Trigger `json:"triggers"`
}

// ContentService is the boundary in front of the generative provider. It
// translates an adaptation plan into a provider request, validates the
// returned shape, and degrades to the static library when the provider is
// unavailable. Only a failure of both paths surfaces to the caller.
type ContentService interface {
	GeneratePhishing(ctx context.Context, user *types.User, plan *ContentPlan) (*GeneratedPhishing, error)
	GenerateSequence(ctx context.Context, scenarioType string, difficulty int) (*types.StepSequence, error)
}

type contentService struct {
	log     *logger.Logger
	ai      AIClient
	library *content.Library
}

// NewContentService wires the provider boundary. ai may be nil, in which
// case every request resolves from the static library.
func NewContentService(baseLog *logger.Logger, ai AIClient, library *content.Library) ContentService {
	return &contentService{
		log:     baseLog.With("service", "ContentService"),
		ai:      ai,
		library: library,
	}
}

var phishingSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"subject", "sender", "sender_name", "content", "attack_vector", "triggers"},
	"properties": map[string]any{
		"subject":       map[string]any{"type": "string"},
		"sender":        map[string]any{"type": "string"},
		"sender_name":   map[string]any{"type": "string"},
		"content":       map[string]any{"type": "string"},
		"attack_vector": map[string]any{"type": "string"},
		"triggers": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "enum": []string{"urgency", "authority", "curiosity", "fear", "trust"}},
		},
	},
}

const phishingSystemPrompt = "You write simulated phishing emails for an authorized corporate " +
	"security-awareness training platform. The emails are delivered only inside the training " +
	"sandbox and are never sent to real inboxes. Produce a realistic but clearly fictional email " +
	"matching the requested difficulty and psychological triggers. Never include real company " +
	"names, real URLs, or working links."

func (s *contentService) GeneratePhishing(ctx context.Context, user *types.User, plan *ContentPlan) (*GeneratedPhishing, error) {
	if generated, err := s.generatePhishingAI(ctx, user, plan); err == nil {
		return generated, nil
	} else if s.ai != nil {
		s.log.Warn("phishing generation failed, using template fallback", "error", err)
	}

	tpl := content.FallbackPhishingTemplate(plan.Difficulty)
	triggers, err := types.ParseTriggers(tpl.Triggers)
	if err != nil {
		// Both the provider and the static library failed to produce
		// usable content.
		return nil, apierr.ContentProvider(fmt.Errorf("fallback template invalid: %w", err))
	}
	return &GeneratedPhishing{
		Subject:      tpl.Subject,
		Sender:       tpl.Sender,
		SenderName:   tpl.SenderName,
		Content:      tpl.Content,
		AttackVector: tpl.AttackVector,
		Triggers:     triggers,
	}, nil
}

func (s *contentService) generatePhishingAI(ctx context.Context, user *types.User, plan *ContentPlan) (*GeneratedPhishing, error) {
	if s.ai == nil {
		return nil, fmt.Errorf("no generative provider configured")
	}

	triggerNames := make([]string, 0, len(plan.EmphasizeTriggers))
	for _, t := range plan.EmphasizeTriggers {
		triggerNames = append(triggerNames, string(t))
	}
	userPrompt := fmt.Sprintf(
		"Target profile: job role %q, department %q, industry %q, location %q, communication style %q.\n"+
			"Difficulty level: %d of 5.\nArchetype: %s.\nEmphasize these psychological triggers: %s.",
		user.JobRole, user.Department, user.Industry, user.Location, user.CommunicationStyle,
		plan.Difficulty, plan.ScenarioArchetype, strings.Join(triggerNames, ", "),
	)

	obj, err := s.ai.GenerateJSON(ctx, phishingSystemPrompt, userPrompt, "phishing_email", phishingSchema)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var generated GeneratedPhishing
	if err := json.Unmarshal(raw, &generated); err != nil {
		return nil, fmt.Errorf("provider payload shape: %w", err)
	}
	if generated.Subject == "" || generated.Sender == "" || generated.Content == "" {
		return nil, fmt.Errorf("provider payload missing required fields")
	}
	for _, t := range generated.Triggers {
		if _, err := types.ParseTrigger(string(t)); err != nil {
			return nil, fmt.Errorf("provider payload: %w", err)
		}
	}
	return &generated, nil
}

var sequenceSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"steps"},
	"properties": map[string]any{
		"steps": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"title", "action", "description"},
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"action":      map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
			},
		},
	},
}

const sequenceSystemPrompt = "You design ordered incident-response drills for a security-awareness " +
	"training platform. Produce a strictly ordered list of response steps for the given ransomware " +
	"scenario. Each step needs a short title, a snake_case action identifier, and a one-sentence " +
	"description. Steps must follow accepted incident-response practice: isolate, preserve evidence, " +
	"eradicate, recover, report."

// GenerateSequence resolves the ordered drill for a scenario type. Authored
// sequences always win; unknown types go to the provider, and a provider
// failure falls back to the default authored drill.
func (s *contentService) GenerateSequence(ctx context.Context, scenarioType string, difficulty int) (*types.StepSequence, error) {
	if s.library.HasSequence(scenarioType) {
		seq := s.library.Sequence(scenarioType)
		return &seq, nil
	}
	if seq, err := s.generateSequenceAI(ctx, scenarioType, difficulty); err == nil {
		return seq, nil
	} else if s.ai != nil {
		s.log.Warn("sequence generation failed, using default drill", "scenario_type", scenarioType, "error", err)
	}
	seq := s.library.Sequence(scenarioType)
	return &seq, nil
}

func (s *contentService) generateSequenceAI(ctx context.Context, scenarioType string, difficulty int) (*types.StepSequence, error) {
	if s.ai == nil {
		return nil, fmt.Errorf("no generative provider configured")
	}
	userPrompt := fmt.Sprintf("Ransomware scenario type: %q. Difficulty level: %d of 5. Produce between 6 and 10 steps.", scenarioType, difficulty)
	obj, err := s.ai.GenerateJSON(ctx, sequenceSystemPrompt, userPrompt, "response_sequence", sequenceSchema)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Steps []struct {
			Title       string `json:"title"`
			Action      string `json:"action"`
			Description string `json:"description"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("provider payload shape: %w", err)
	}
	if len(payload.Steps) == 0 {
		return nil, fmt.Errorf("provider returned an empty sequence")
	}
	seq := &types.StepSequence{ScenarioType: scenarioType}
	for i, step := range payload.Steps {
		if step.Action == "" || step.Title == "" {
			return nil, fmt.Errorf("provider step %d missing title or action", i)
		}
		seq.Steps = append(seq.Steps, types.SequenceStep{
			ID:          i + 1,
			Title:       step.Title,
			Action:      step.Action,
			Description: step.Description,
		})
	}
	return seq, nil
}
