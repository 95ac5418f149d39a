package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InterviewType classifies both questions and sessions.
type InterviewType string

const (
	InterviewTypeTechnical  InterviewType = "technical"
	InterviewTypeHR         InterviewType = "hr"
	InterviewTypeBehavioral InterviewType = "behavioral"
)

func (t InterviewType) Valid() bool {
	switch t {
	case InterviewTypeTechnical, InterviewTypeHR, InterviewTypeBehavioral:
		return true
	}
	return false
}

type Question struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Prompt         string         `gorm:"type:text;not null;column:prompt" json:"prompt"`
	Type           InterviewType  `gorm:"not null;index;column:type" json:"type"`
	Category       string         `gorm:"index;column:category" json:"category"`
	Difficulty     string         `gorm:"index;column:difficulty" json:"difficulty"`
	CompanyID      *uuid.UUID     `gorm:"type:uuid;index;column:company_id" json:"company_id,omitempty"`
	Company        *Company       `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	ExpectedAnswer *string        `gorm:"type:text;column:expected_answer" json:"expected_answer,omitempty"`
	Tags           datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string {
	return "question"
}
