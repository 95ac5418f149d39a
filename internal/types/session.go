package types

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	// SessionStatusAbandoned is reserved; nothing transitions into it yet.
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// InterviewSession is one timed attempt at a set of questions by one user.
// The four score fields stay nil until the session completes.
type InterviewSession struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User               *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CompanyID          *uuid.UUID    `gorm:"type:uuid;index;column:company_id" json:"company_id,omitempty"`
	Company            *Company      `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Type               InterviewType `gorm:"not null;index;column:type" json:"type"`
	Status             SessionStatus `gorm:"not null;index;column:status" json:"status"`
	TotalQuestions     int           `gorm:"not null;column:total_questions" json:"total_questions"`
	AnsweredQuestions  int           `gorm:"not null;column:answered_questions" json:"answered_questions"`
	OverallScore       *float64      `gorm:"column:overall_score" json:"overall_score,omitempty"`
	TechnicalScore     *float64      `gorm:"column:technical_score" json:"technical_score,omitempty"`
	ConfidenceScore    *float64      `gorm:"column:confidence_score" json:"confidence_score,omitempty"`
	CommunicationScore *float64      `gorm:"column:communication_score" json:"communication_score,omitempty"`
	Duration           *int          `gorm:"column:duration" json:"duration,omitempty"`
	StartedAt          time.Time     `gorm:"not null;column:started_at" json:"started_at"`
	CompletedAt        *time.Time    `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt          time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null" json:"updated_at"`
}

func (InterviewSession) TableName() string {
	return "interview_session"
}
