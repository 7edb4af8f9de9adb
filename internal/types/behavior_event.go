package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BehaviorEvent is one observed user reaction to a simulated stimulus.
// Rows are append-only: the profile engine must be able to rebuild every
// profile from this table alone.
type BehaviorEvent struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	EventType       string         `gorm:"column:event_type;not null;index" json:"event_type"`
	SimulationType  string         `gorm:"column:simulation_type;not null" json:"simulation_type"`
	TriggersPresent datatypes.JSON `gorm:"type:jsonb;column:triggers_present" json:"triggers_present"`
	ResponseTime    *float64       `gorm:"column:response_time" json:"response_time,omitempty"`
	ContextData     datatypes.JSON `gorm:"type:jsonb;column:context_data" json:"context_data"`
	SuccessScore    float64        `gorm:"column:success_score;not null" json:"success_score"`
	OccurredAt      time.Time      `gorm:"column:occurred_at;not null;index" json:"occurred_at"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BehaviorEvent) TableName() string { return "behavior_event" }
