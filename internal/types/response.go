package types

import (
	"time"

	"github.com/google/uuid"
)

// InterviewResponse is one user-submitted answer to one question within one
// session. Written exactly once per submit; there is no update path.
type InterviewResponse struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"session_id"`
	Session        *InterviewSession `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"-"`
	QuestionID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"question_id"`
	Question       *Question         `gorm:"foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	UserAnswer     *string           `gorm:"type:text;column:user_answer" json:"user_answer,omitempty"`
	CodeSubmission *string           `gorm:"type:text;column:code_submission" json:"code_submission,omitempty"`
	TimeSpent      int               `gorm:"not null;column:time_spent" json:"time_spent"`
	Score          float64           `gorm:"not null;column:score" json:"score"`
	IsCorrect      bool              `gorm:"not null;column:is_correct" json:"is_correct"`
	CreatedAt      time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null" json:"updated_at"`
}

func (InterviewResponse) TableName() string {
	return "interview_response"
}
