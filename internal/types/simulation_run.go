package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SimulationRun is one (user, step sequence) attempt at a procedural
// incident-response drill. CurrentStep is a 0-based index into the sequence;
// IsCompleted implies CurrentStep == TotalSteps and a frozen FinalScore.
type SimulationRun struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ScenarioType     string         `gorm:"not null;column:scenario_type" json:"scenario_type"`
	DifficultyLevel  int            `gorm:"not null;default:1;column:difficulty_level" json:"difficulty_level"`
	CurrentStep      int            `gorm:"not null;default:0;column:current_step" json:"current_step"`
	TotalSteps       int            `gorm:"not null;column:total_steps" json:"total_steps"`
	SequenceData     datatypes.JSON `gorm:"type:jsonb;column:sequence_data" json:"sequence_data"`
	StepsCompleted   datatypes.JSON `gorm:"type:jsonb;column:steps_completed" json:"steps_completed"`
	IncorrectActions int            `gorm:"not null;default:0;column:incorrect_actions" json:"incorrect_actions"`
	TimeTaken        float64        `gorm:"not null;default:0;column:time_taken" json:"time_taken"`
	IsCompleted      bool           `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
	FinalScore       float64        `gorm:"not null;default:0;column:final_score" json:"final_score"`
	CompletedAt      *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (SimulationRun) TableName() string { return "simulation_run" }

// SimulationStepRecord is the audit row for every executed action, correct
// or not.
type SimulationStepRecord struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RunID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"run_id"`
	Run         *SimulationRun `gorm:"constraint:OnDelete:CASCADE;foreignKey:RunID;references:ID" json:"run,omitempty"`
	StepNumber  int            `gorm:"not null;column:step_number" json:"step_number"`
	ActionTaken string         `gorm:"not null;column:action_taken" json:"action_taken"`
	IsCorrect   bool           `gorm:"not null;column:is_correct" json:"is_correct"`
	TimeTaken   float64        `gorm:"not null;default:0;column:time_taken" json:"time_taken"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (SimulationStepRecord) TableName() string { return "simulation_step_record" }
