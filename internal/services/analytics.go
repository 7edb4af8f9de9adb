package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/repos"
)

// analyticsConcurrency bounds the per-user fan-out of a summary recompute.
const analyticsConcurrency = 8

// UserRiskEntry is one user's slice of the org summary.
type UserRiskEntry struct {
	UserID                uuid.UUID `json:"user_id"`
	RiskLevel             string    `json:"risk_level"`
	ClickRate             float64   `json:"click_rate"`
	ReportRate            float64   `json:"report_rate"`
	ImprovementTrend      string    `json:"improvement_trend"`
	RecommendedDifficulty int       `json:"recommended_difficulty"`
}

// OrgSummary aggregates risk across every user. Profiles are recomputed
// per user before aggregation so the summary reflects the current window.
type OrgSummary struct {
	TotalUsers      int             `json:"total_users"`
	HighRiskUsers   int             `json:"high_risk_users"`
	MediumRiskUsers int             `json:"medium_risk_users"`
	LowRiskUsers    int             `json:"low_risk_users"`
	AvgClickRate    float64         `json:"avg_click_rate"`
	AvgReportRate   float64         `json:"avg_report_rate"`
	Users           []UserRiskEntry `json:"users"`
}

type AnalyticsService interface {
	Summary(ctx context.Context) (*OrgSummary, error)
}

type analyticsService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	behavior BehaviorService
}

func NewAnalyticsService(baseLog *logger.Logger, userRepo repos.UserRepo, behavior BehaviorService) AnalyticsService {
	return &analyticsService{
		log:      baseLog.With("service", "AnalyticsService"),
		userRepo: userRepo,
		behavior: behavior,
	}
}

// Summary recomputes each user's profile concurrently. Profiles are
// independent per user, so the fan-out needs no cross-user coordination.
func (s *analyticsService) Summary(ctx context.Context) (*OrgSummary, error) {
	ids, err := s.userRepo.ListIDs(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}

	var mu sync.Mutex
	entries := make([]UserRiskEntry, 0, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyticsConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			profile, err := s.behavior.RecomputeProfile(gctx, id)
			if err != nil {
				return err
			}
			insights := BuildInsights(profile)
			mu.Lock()
			entries = append(entries, UserRiskEntry{
				UserID:                id,
				RiskLevel:             insights.RiskLevel,
				ClickRate:             profile.ClickRate,
				ReportRate:            profile.ReportRate,
				ImprovementTrend:      insights.ImprovementTrend,
				RecommendedDifficulty: insights.RecommendedDifficulty,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &OrgSummary{TotalUsers: len(entries), Users: entries}
	clickSum := 0.0
	reportSum := 0.0
	for _, e := range entries {
		clickSum += e.ClickRate
		reportSum += e.ReportRate
		switch e.RiskLevel {
		case "high":
			summary.HighRiskUsers++
		case "medium":
			summary.MediumRiskUsers++
		default:
			summary.LowRiskUsers++
		}
	}
	if len(entries) > 0 {
		summary.AvgClickRate = clickSum / float64(len(entries))
		summary.AvgReportRate = reportSum / float64(len(entries))
	}
	return summary, nil
}
