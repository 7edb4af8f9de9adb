package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/repos"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

type PhishingReaction string

const (
	ReactionClick  PhishingReaction = "click"
	ReactionReport PhishingReaction = "report"
	ReactionIgnore PhishingReaction = "ignore"
)

type PhishingService interface {
	Generate(ctx context.Context, userID uuid.UUID) (*types.PhishingEmail, error)
	React(ctx context.Context, userID, emailID uuid.UUID, reaction PhishingReaction, responseTime *float64) (*types.PhishingEmail, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.PhishingEmail, error)
}

type phishingService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	emailRepo  repos.PhishingEmailRepo
	adaptation AdaptationService
	content    ContentService
	behavior   BehaviorService
	emailLocks *keyedMutex
}

func NewPhishingService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, emailRepo repos.PhishingEmailRepo, adaptation AdaptationService, contentSvc ContentService, behavior BehaviorService) PhishingService {
	return &phishingService{
		db:         db,
		log:        baseLog.With("service", "PhishingService"),
		userRepo:   userRepo,
		emailRepo:  emailRepo,
		adaptation: adaptation,
		content:    contentSvc,
		behavior:   behavior,
		emailLocks: newKeyedMutex(),
	}
}

// Generate produces a phishing email tailored to the user's current
// behavioral profile and persists it unanswered.
func (s *phishingService) Generate(ctx context.Context, userID uuid.UUID) (*types.PhishingEmail, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user %s not found", userID)
	}
	user := users[0]

	plan, err := s.adaptation.PlanContent(ctx, userID)
	if err != nil {
		return nil, err
	}
	generated, err := s.content.GeneratePhishing(ctx, user, plan)
	if err != nil {
		return nil, err
	}

	profile, err := s.behavior.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	triggerNames := make([]string, 0, len(generated.Triggers))
	for _, t := range generated.Triggers {
		triggerNames = append(triggerNames, string(t))
	}
	triggersJSON, _ := json.Marshal(triggerNames)

	email := &types.PhishingEmail{
		ID:                uuid.New(),
		UserID:            userID,
		Subject:           generated.Subject,
		Sender:            generated.Sender,
		SenderName:        generated.SenderName,
		Content:           generated.Content,
		PhishingType:      generated.AttackVector,
		DifficultyLevel:   plan.Difficulty,
		TriggersUsed:      datatypes.JSON(triggersJSON),
		AIClickLikelihood: ClickLikelihood(profile, generated.Triggers),
	}
	if _, err := s.emailRepo.Create(ctx, nil, email); err != nil {
		return nil, apierr.Storage(err)
	}
	return email, nil
}

// ClickLikelihood estimates the chance the user clicks this email as the
// mean susceptibility across the triggers it uses, shifted toward the
// user's overall click rate. Triggerless emails fall back to the click
// rate alone.
func ClickLikelihood(profile *types.BehaviorProfile, triggers []types.Trigger) float64 {
	if len(triggers) == 0 {
		return profile.ClickRate
	}
	sum := 0.0
	for _, t := range triggers {
		sum += profile.Susceptibility(t)
	}
	likelihood := 0.7*(sum/float64(len(triggers))) + 0.3*profile.ClickRate
	if likelihood < 0 {
		return 0
	}
	if likelihood > 1 {
		return 1
	}
	return likelihood
}

// React records the user's response to a delivered email. The first
// reaction wins; repeats are state errors.
func (s *phishingService) React(ctx context.Context, userID, emailID uuid.UUID, reaction PhishingReaction, responseTime *float64) (*types.PhishingEmail, error) {
	var kind types.EventKind
	switch reaction {
	case ReactionClick:
		kind = types.EventClick
	case ReactionReport:
		kind = types.EventReport
	case ReactionIgnore:
		kind = types.EventIgnore
	default:
		return nil, apierr.InvalidInput("unknown reaction %q", reaction)
	}

	unlock := s.emailLocks.Lock(emailID)
	defer unlock()

	var email *types.PhishingEmail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := s.emailRepo.GetByID(ctx, tx, emailID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("phishing email %s not found", emailID)
			}
			return apierr.Storage(err)
		}
		if userID != uuid.Nil && e.UserID != userID {
			return apierr.NotFound("phishing email %s not found", emailID)
		}
		if e.RespondedAt != nil {
			return apierr.State("phishing email already answered")
		}
		now := time.Now().UTC()
		e.RespondedAt = &now
		e.IsClicked = reaction == ReactionClick
		e.IsReported = reaction == ReactionReport
		if err := s.emailRepo.Update(ctx, tx, e); err != nil {
			return apierr.Storage(err)
		}
		email = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	var triggerNames []string
	if len(email.TriggersUsed) > 0 {
		_ = json.Unmarshal(email.TriggersUsed, &triggerNames)
	}
	triggers, err := types.ParseTriggers(triggerNames)
	if err != nil {
		s.log.Warn("stored email has unknown triggers", "email_id", emailID, "error", err)
		triggers = nil
	}

	// The reaction row is committed; if the event append still fails after
	// the retry the caller sees the storage error, not a silent gap.
	if err := recordEventWithRetry(ctx, s.log, s.behavior, RecordEventInput{
		UserID:         email.UserID,
		EventKind:      kind,
		SimulationType: "phishing",
		Triggers:       triggers,
		ResponseTime:   responseTime,
		Context: map[string]any{
			"email_id":      emailID.String(),
			"phishing_type": email.PhishingType,
			"difficulty":    email.DifficultyLevel,
		},
	}); err != nil {
		return email, err
	}
	return email, nil
}

func (s *phishingService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.PhishingEmail, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	emails, err := s.emailRepo.GetByUserID(ctx, nil, userID, limit)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return emails, nil
}
