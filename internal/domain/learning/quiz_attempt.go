package learning

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/cecredit-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is written once, after grading.
type QuizAttempt struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LessonID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson       *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Answers      datatypes.JSON `gorm:"column:answers;type:jsonb" json:"answers"`
	Breakdown    datatypes.JSON `gorm:"column:breakdown;type:jsonb" json:"breakdown"`
	EarnedPoints float64        `gorm:"column:earned_points;not null" json:"earned_points"`
	TotalPoints  float64        `gorm:"column:total_points;not null" json:"total_points"`
	Score        float64        `gorm:"column:score;not null" json:"score"`
	PassingScore float64        `gorm:"column:passing_score;not null" json:"passing_score"`
	Passed       bool           `gorm:"column:passed;not null" json:"passed"`
	CEEligible   bool           `gorm:"column:ce_eligible;not null" json:"ce_eligible"`
	GradedAt     time.Time      `gorm:"column:graded_at;not null" json:"graded_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
