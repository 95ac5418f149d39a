package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProgress holds per-user rolling practice statistics and goals,
// independent of any single session. Created lazily on first read or first
// goal update.
type UserProgress struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	TotalInterviews  int            `gorm:"not null;column:total_interviews" json:"total_interviews"`
	AverageScore     float64        `gorm:"not null;column:average_score" json:"average_score"`
	BestScore        float64        `gorm:"not null;column:best_score" json:"best_score"`
	ImprovementRate  float64        `gorm:"not null;column:improvement_rate" json:"improvement_rate"`
	SkillsImproved   datatypes.JSON `gorm:"type:jsonb;column:skills_improved" json:"skills_improved"`
	WeeklyGoal       int            `gorm:"not null;column:weekly_goal" json:"weekly_goal"`
	MonthlyGoal      int            `gorm:"not null;column:monthly_goal" json:"monthly_goal"`
	Streak           int            `gorm:"not null;column:streak" json:"streak"`
	LastPracticeDate *time.Time     `gorm:"column:last_practice_date" json:"last_practice_date,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
