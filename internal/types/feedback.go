package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const FeedbackTypeOverall = "overall"

// Feedback is a synthesized narrative plus structured strengths, weaknesses
// and tips tied to a session. One row is appended per completion.
type Feedback struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"session_id"`
	Session         *InterviewSession `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"-"`
	Type            string            `gorm:"not null;column:type" json:"type"`
	Narrative       string            `gorm:"type:text;not null;column:narrative" json:"narrative"`
	Strengths       datatypes.JSON    `gorm:"type:jsonb;column:strengths" json:"strengths"`
	Weaknesses      datatypes.JSON    `gorm:"type:jsonb;column:weaknesses" json:"weaknesses"`
	ImprovementTips datatypes.JSON    `gorm:"type:jsonb;column:improvement_tips" json:"improvement_tips"`
	Score           float64           `gorm:"not null;column:score" json:"score"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
