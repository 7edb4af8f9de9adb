package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TrainingScenario struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string         `gorm:"not null;column:title" json:"title"`
	Category     string         `gorm:"not null;index;column:category" json:"category"`
	Difficulty   string         `gorm:"column:difficulty" json:"difficulty"`
	AIAdaptive   bool           `gorm:"column:ai_adaptive;default:false" json:"ai_adaptive"`
	ScenarioData datatypes.JSON `gorm:"type:jsonb;column:scenario_data" json:"scenario_data"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TrainingScenario) TableName() string { return "training_scenario" }
