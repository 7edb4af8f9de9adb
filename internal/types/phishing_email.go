package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PhishingEmail struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User              *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Subject           string         `gorm:"not null;column:subject" json:"subject"`
	Sender            string         `gorm:"not null;column:sender" json:"sender"`
	SenderName        string         `gorm:"column:sender_name" json:"sender_name"`
	Content           string         `gorm:"type:text;column:content" json:"content"`
	PhishingType      string         `gorm:"column:phishing_type" json:"phishing_type"`
	DifficultyLevel   int            `gorm:"not null;default:1;column:difficulty_level" json:"difficulty_level"`
	TriggersUsed      datatypes.JSON `gorm:"type:jsonb;column:triggers_used" json:"triggers_used"`
	AIClickLikelihood float64        `gorm:"not null;default:0.5;column:ai_click_likelihood" json:"ai_click_likelihood"`
	IsClicked         bool           `gorm:"not null;default:false;column:is_clicked" json:"is_clicked"`
	IsReported        bool           `gorm:"not null;default:false;column:is_reported" json:"is_reported"`
	RespondedAt       *time.Time     `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PhishingEmail) TableName() string { return "phishing_email" }
