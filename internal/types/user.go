package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password           string    `gorm:"not null;column:password" json:"-"`
	FirstName          string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName           string    `gorm:"not null;column:last_name" json:"last_name"`
	JobRole            string    `gorm:"column:job_role" json:"job_role"`
	Department         string    `gorm:"column:department" json:"department"`
	Industry           string    `gorm:"column:industry" json:"industry"`
	Location           string    `gorm:"column:location" json:"location"`
	CommunicationStyle string    `gorm:"column:communication_style" json:"communication_style"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
