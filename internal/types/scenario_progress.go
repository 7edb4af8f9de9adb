package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

// ScenarioProgress is one (user, scenario) attempt. Mutated exactly once per
// submitted decision; frozen once the terminal marker is reached.
type ScenarioProgress struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ScenarioID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Scenario       *TrainingScenario `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScenarioID;references:ID" json:"scenario,omitempty"`
	CurrentStep    string            `gorm:"not null;default:start;column:current_step" json:"current_step"`
	Score          int               `gorm:"not null;default:0;column:score" json:"score"`
	DecisionsMade  datatypes.JSON    `gorm:"type:jsonb;column:decisions_made" json:"decisions_made"`
	Status         string            `gorm:"not null;default:in_progress;column:status" json:"status"`
	CompletionRate float64           `gorm:"not null;default:0;column:completion_rate" json:"completion_rate"`
	StartedAt      time.Time         `gorm:"not null;column:started_at" json:"started_at"`
	CompletedAt    *time.Time        `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null" json:"updated_at"`
}

func (ScenarioProgress) TableName() string { return "scenario_progress" }

// DecisionRecord is one entry of the ordered decision log kept on the
// progress row.
type DecisionRecord struct {
	Step     string `json:"step"`
	Decision string `json:"decision"`
}
