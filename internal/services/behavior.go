package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/repos"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

// profileWindowDays is the trailing event window a profile is derived from.
const profileWindowDays = 30

// minEventsForTrend is the minimum event count before the improvement rate
// carries any signal; below it the rate is pinned to zero.
const minEventsForTrend = 10

type RecordEventInput struct {
	UserID         uuid.UUID
	EventKind      types.EventKind
	SimulationType string
	Triggers       []types.Trigger
	ResponseTime   *float64
	Context        map[string]any
	OccurredAt     *time.Time
}

// BehaviorInsights is the derived read model served to the route layer and
// consumed by the difficulty adapter.
type BehaviorInsights struct {
	PrimaryVulnerability  types.Trigger `json:"primary_vulnerability"`
	VulnerabilityScore    float64       `json:"vulnerability_score"`
	RecommendedDifficulty int           `json:"recommended_difficulty"`
	ImprovementTrend      string        `json:"improvement_trend"`
	RiskLevel             string        `json:"risk_level"`
	ResponseSpeed         string        `json:"response_speed"`
}

// InsightCache is the optional read-through cache in front of
// GenerateInsights. A nil cache disables caching entirely.
type InsightCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*BehaviorInsights, bool, error)
	Set(ctx context.Context, userID uuid.UUID, insights *BehaviorInsights) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type BehaviorService interface {
	RecordEvent(ctx context.Context, input RecordEventInput) (*types.BehaviorEvent, *types.BehaviorProfile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.BehaviorProfile, error)
	RecomputeProfile(ctx context.Context, userID uuid.UUID) (*types.BehaviorProfile, error)
	GenerateInsights(ctx context.Context, userID uuid.UUID) (*BehaviorInsights, error)
	ListEvents(ctx context.Context, userID uuid.UUID) ([]*types.BehaviorEvent, error)
}

type behaviorService struct {
	db          *gorm.DB
	log         *logger.Logger
	eventRepo   repos.BehaviorEventRepo
	profileRepo repos.BehaviorProfileRepo
	cache       InsightCache
	userLocks   *keyedMutex
}

func NewBehaviorService(db *gorm.DB, baseLog *logger.Logger, eventRepo repos.BehaviorEventRepo, profileRepo repos.BehaviorProfileRepo, cache InsightCache) BehaviorService {
	return &behaviorService{
		db:          db,
		log:         baseLog.With("service", "BehaviorService"),
		eventRepo:   eventRepo,
		profileRepo: profileRepo,
		cache:       cache,
		userLocks:   newKeyedMutex(),
	}
}

// CalculateSuccessScore maps an event kind and the number of simultaneous
// psychological triggers to a score in [0,1]. Pure and reproducible: the
// same inputs always yield the same score. More triggers present makes the
// stimulus harder to resist, so the base is reduced by 0.05 per trigger and
// clamped so failure under pressure is never punished below the base floor.
func CalculateSuccessScore(kind types.EventKind, triggerCount int) float64 {
	var base float64
	switch kind {
	case types.EventReport:
		base = 1.0
	case types.EventIgnore:
		base = 0.7
	case types.EventHesitate:
		base = 0.5
	case types.EventClick:
		base = 0.0
	default:
		base = 0.5
	}
	score := base - float64(triggerCount)*0.05
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// recordEventWithRetry appends to the behavior log on behalf of another
// service, retrying a failed append once before handing the error back.
// Callers commit their own state first; a lost event is surfaced, never
// swallowed, so the client knows the profile's statistical basis is behind.
func recordEventWithRetry(ctx context.Context, log *logger.Logger, behavior BehaviorService, input RecordEventInput) error {
	_, _, err := behavior.RecordEvent(ctx, input)
	if err == nil {
		return nil
	}
	log.Warn("behavior event append failed, retrying once", "simulation_type", input.SimulationType, "error", err)
	if _, _, err = behavior.RecordEvent(ctx, input); err != nil {
		return err
	}
	return nil
}

func (s *behaviorService) RecordEvent(ctx context.Context, input RecordEventInput) (*types.BehaviorEvent, *types.BehaviorProfile, error) {
	if input.UserID == uuid.Nil {
		return nil, nil, apierr.InvalidInput("user id required")
	}
	if _, err := types.ParseEventKind(string(input.EventKind)); err != nil {
		return nil, nil, apierr.InvalidInput("%v", err)
	}
	if input.ResponseTime != nil && *input.ResponseTime < 0 {
		return nil, nil, apierr.InvalidInput("response time must be >= 0")
	}

	occurred := time.Now().UTC()
	if input.OccurredAt != nil && !input.OccurredAt.IsZero() {
		occurred = input.OccurredAt.UTC()
	}

	triggers := make([]string, 0, len(input.Triggers))
	for _, t := range input.Triggers {
		triggers = append(triggers, string(t))
	}
	triggersJSON, _ := json.Marshal(triggers)

	contextData := map[string]any{}
	for k, v := range input.Context {
		contextData[k] = v
	}
	contextJSON, _ := json.Marshal(contextData)

	event := &types.BehaviorEvent{
		ID:              uuid.New(),
		UserID:          input.UserID,
		EventType:       string(input.EventKind),
		SimulationType:  input.SimulationType,
		TriggersPresent: datatypes.JSON(triggersJSON),
		ResponseTime:    input.ResponseTime,
		ContextData:     datatypes.JSON(contextJSON),
		SuccessScore:    CalculateSuccessScore(input.EventKind, len(input.Triggers)),
		OccurredAt:      occurred,
	}

	unlock := s.userLocks.Lock(input.UserID)
	defer unlock()

	var profile *types.BehaviorProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.eventRepo.Create(ctx, tx, []*types.BehaviorEvent{event}); err != nil {
			return err
		}
		p, err := s.recomputeLocked(ctx, tx, input.UserID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		s.log.Warn("record event failed", "user_id", input.UserID, "error", err)
		return nil, nil, apierr.Storage(err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, input.UserID); err != nil {
			s.log.Warn("insight cache invalidation failed", "user_id", input.UserID, "error", err)
		}
	}
	return event, profile, nil
}

func (s *behaviorService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.BehaviorProfile, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if profile != nil {
		return profile, nil
	}
	// Lazy creation: a user without history gets the neutral prior profile.
	profile = types.NewDefaultProfile(userID)
	if err := s.profileRepo.Upsert(ctx, nil, profile); err != nil {
		return nil, apierr.Storage(err)
	}
	return profile, nil
}

func (s *behaviorService) RecomputeProfile(ctx context.Context, userID uuid.UUID) (*types.BehaviorProfile, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	unlock := s.userLocks.Lock(userID)
	defer unlock()

	var profile *types.BehaviorProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.recomputeLocked(ctx, tx, userID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return profile, nil
}

// recomputeLocked rebuilds the profile from the trailing window. Caller
// holds the user lock and supplies the transaction.
func (s *behaviorService) recomputeLocked(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BehaviorProfile, error) {
	since := time.Now().UTC().AddDate(0, 0, -profileWindowDays)
	events, err := s.eventRepo.GetByUserSince(ctx, tx, userID, since)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = types.NewDefaultProfile(userID)
	}
	ComputeProfile(profile, events)
	if err := s.profileRepo.Upsert(ctx, tx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ComputeProfile recomputes every derived field of profile from the given
// window of events. The recompute is idempotent and depends on nothing but
// the events, keeping the profile fully derivable from the log.
func ComputeProfile(profile *types.BehaviorProfile, events []*types.BehaviorEvent) {
	if len(events) == 0 {
		for _, t := range types.AllTriggers {
			profile.SetSusceptibility(t, types.DefaultSusceptibility)
		}
		profile.ClickRate = types.DefaultClickRate
		profile.ReportRate = types.DefaultReportRate
		profile.AvgResponseTime = types.DefaultAvgResponseTime
		profile.ImprovementRate = 0
		return
	}

	for _, t := range types.AllTriggers {
		tagged := 0
		clicked := 0
		for _, e := range events {
			if !eventHasTrigger(e, t) {
				continue
			}
			tagged++
			if e.EventType == string(types.EventClick) {
				clicked++
			}
		}
		if tagged == 0 {
			profile.SetSusceptibility(t, types.DefaultSusceptibility)
			continue
		}
		profile.SetSusceptibility(t, float64(clicked)/float64(tagged))
	}

	clicks := 0
	reports := 0
	timedSum := 0.0
	timedCount := 0
	for _, e := range events {
		switch e.EventType {
		case string(types.EventClick):
			clicks++
		case string(types.EventReport):
			reports++
		}
		if e.ResponseTime != nil {
			timedSum += *e.ResponseTime
			timedCount++
		}
	}
	profile.ClickRate = float64(clicks) / float64(len(events))
	profile.ReportRate = float64(reports) / float64(len(events))
	if timedCount > 0 {
		profile.AvgResponseTime = timedSum / float64(timedCount)
	} else {
		profile.AvgResponseTime = types.DefaultAvgResponseTime
	}
	profile.ImprovementRate = improvementRate(events)
}

// improvementRate compares mean success of the second half of the window
// against the first half. Positive means the user is getting better at
// resisting.
func improvementRate(events []*types.BehaviorEvent) float64 {
	if len(events) < minEventsForTrend {
		return 0
	}
	sorted := make([]*types.BehaviorEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})
	mid := len(sorted) / 2
	early := 0.0
	for _, e := range sorted[:mid] {
		early += e.SuccessScore
	}
	recent := 0.0
	for _, e := range sorted[mid:] {
		recent += e.SuccessScore
	}
	return recent/float64(len(sorted)-mid) - early/float64(mid)
}

func eventHasTrigger(e *types.BehaviorEvent, t types.Trigger) bool {
	if len(e.TriggersPresent) == 0 {
		return false
	}
	var tags []string
	if err := json.Unmarshal(e.TriggersPresent, &tags); err != nil {
		return false
	}
	for _, tag := range tags {
		if tag == string(t) {
			return true
		}
	}
	return false
}

func (s *behaviorService) GenerateInsights(ctx context.Context, userID uuid.UUID) (*BehaviorInsights, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, userID); err == nil && ok {
			return cached, nil
		}
	}
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	insights := BuildInsights(profile)
	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, insights); err != nil {
			s.log.Warn("insight cache write failed", "user_id", userID, "error", err)
		}
	}
	return insights, nil
}

// BuildInsights derives the insight summary from a profile. Ties between
// susceptibility scores resolve in the fixed tag order
// urgency > authority > curiosity > fear > trust.
func BuildInsights(profile *types.BehaviorProfile) *BehaviorInsights {
	primary := types.AllTriggers[0]
	best := profile.Susceptibility(primary)
	for _, t := range types.AllTriggers[1:] {
		if v := profile.Susceptibility(t); v > best {
			primary = t
			best = v
		}
	}

	trend := "stable"
	if profile.ImprovementRate > 0.1 {
		trend = "improving"
	} else if profile.ImprovementRate < -0.1 {
		trend = "declining"
	}

	risk := "low"
	if profile.ClickRate > 0.6 {
		risk = "high"
	} else if profile.ClickRate > 0.3 {
		risk = "medium"
	}

	speed := "slow"
	if profile.AvgResponseTime < 15 {
		speed = "fast"
	} else if profile.AvgResponseTime < 45 {
		speed = "medium"
	}

	return &BehaviorInsights{
		PrimaryVulnerability:  primary,
		VulnerabilityScore:    best,
		RecommendedDifficulty: RecommendedDifficulty(profile),
		ImprovementTrend:      trend,
		RiskLevel:             risk,
		ResponseSpeed:         speed,
	}
}

// RecommendedDifficulty scales the next difficulty from the click rate,
// shifted by the improvement trend, clamped to [1,5].
func RecommendedDifficulty(profile *types.BehaviorProfile) int {
	base := int(profile.ClickRate * 10)
	var d int
	switch {
	case profile.ImprovementRate > 0.2:
		d = base + 2
	case profile.ImprovementRate < -0.1:
		d = base - 1
	default:
		d = base + 1
	}
	if d < 1 {
		d = 1
	}
	if d > 5 {
		d = 5
	}
	return d
}

func (s *behaviorService) ListEvents(ctx context.Context, userID uuid.UUID) ([]*types.BehaviorEvent, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	events, err := s.eventRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return events, nil
}
