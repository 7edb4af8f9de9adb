package types

import (
	"time"

	"github.com/google/uuid"
)

// Default prior values used until a user has evidence in the trailing window.
const (
	DefaultSusceptibility  = 0.5
	DefaultClickRate       = 0.3
	DefaultReportRate      = 0.7
	DefaultAvgResponseTime = 30.0
)

// BehaviorProfile is a derived view over a user's recent behavior events.
// It is recomputed wholesale after every new event, never patched
// incrementally, so it can always be rebuilt from the event log.
type BehaviorProfile struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User                  *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	UrgencySusceptibility float64   `gorm:"column:urgency_susceptibility;not null;default:0.5" json:"urgency_susceptibility"`
	AuthoritySusceptibility float64 `gorm:"column:authority_susceptibility;not null;default:0.5" json:"authority_susceptibility"`
	CuriositySusceptibility float64 `gorm:"column:curiosity_susceptibility;not null;default:0.5" json:"curiosity_susceptibility"`
	FearSusceptibility    float64   `gorm:"column:fear_susceptibility;not null;default:0.5" json:"fear_susceptibility"`
	TrustSusceptibility   float64   `gorm:"column:trust_susceptibility;not null;default:0.5" json:"trust_susceptibility"`
	ClickRate             float64   `gorm:"column:click_rate;not null;default:0.3" json:"click_rate"`
	ReportRate            float64   `gorm:"column:report_rate;not null;default:0.7" json:"report_rate"`
	AvgResponseTime       float64   `gorm:"column:avg_response_time;not null;default:30" json:"avg_response_time"`
	ImprovementRate       float64   `gorm:"column:improvement_rate;not null;default:0" json:"improvement_rate"`
	ChallengePreference   string    `gorm:"column:challenge_preference;not null;default:adaptive" json:"challenge_preference"`
	CreatedAt             time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time `gorm:"not null" json:"updated_at"`
}

func (BehaviorProfile) TableName() string { return "behavior_profile" }

// Susceptibility returns the stored score for a trigger tag.
func (p *BehaviorProfile) Susceptibility(t Trigger) float64 {
	switch t {
	case TriggerUrgency:
		return p.UrgencySusceptibility
	case TriggerAuthority:
		return p.AuthoritySusceptibility
	case TriggerCuriosity:
		return p.CuriositySusceptibility
	case TriggerFear:
		return p.FearSusceptibility
	case TriggerTrust:
		return p.TrustSusceptibility
	}
	return DefaultSusceptibility
}

// SetSusceptibility writes the score for a trigger tag.
func (p *BehaviorProfile) SetSusceptibility(t Trigger, v float64) {
	switch t {
	case TriggerUrgency:
		p.UrgencySusceptibility = v
	case TriggerAuthority:
		p.AuthoritySusceptibility = v
	case TriggerCuriosity:
		p.CuriositySusceptibility = v
	case TriggerFear:
		p.FearSusceptibility = v
	case TriggerTrust:
		p.TrustSusceptibility = v
	}
}

// NewDefaultProfile returns the optimistic-neutral prior profile for a user
// with no observed events.
func NewDefaultProfile(userID uuid.UUID) *BehaviorProfile {
	return &BehaviorProfile{
		ID:                      uuid.New(),
		UserID:                  userID,
		UrgencySusceptibility:   DefaultSusceptibility,
		AuthoritySusceptibility: DefaultSusceptibility,
		CuriositySusceptibility: DefaultSusceptibility,
		FearSusceptibility:      DefaultSusceptibility,
		TrustSusceptibility:     DefaultSusceptibility,
		ClickRate:               DefaultClickRate,
		ReportRate:              DefaultReportRate,
		AvgResponseTime:         DefaultAvgResponseTime,
		ImprovementRate:         0,
		ChallengePreference:     "adaptive",
	}
}
