package types

import (
	"time"

	"github.com/google/uuid"
)

// DecisionOutcome is the audit record of a single scenario decision.
type DecisionOutcome struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProgressID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"progress_id"`
	Progress      *ScenarioProgress `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgressID;references:ID" json:"progress,omitempty"`
	StepID        string            `gorm:"not null;column:step_id" json:"step_id"`
	Decision      string            `gorm:"not null;column:decision" json:"decision"`
	Outcome       string            `gorm:"column:outcome" json:"outcome"`
	PointsAwarded int               `gorm:"not null;default:0;column:points_awarded" json:"points_awarded"`
	IsCorrect     bool              `gorm:"not null;default:false;column:is_correct" json:"is_correct"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
}

func (DecisionOutcome) TableName() string { return "decision_outcome" }
