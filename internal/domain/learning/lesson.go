package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"module_id"`
	Module          *CourseModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Index           int           `gorm:"column:index;not null" json:"index"`
	Title           string        `gorm:"column:title;not null" json:"title"`
	DurationMinutes int           `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	// PassingScore is the quiz threshold in percent; 0 means the default.
	PassingScore int `gorm:"column:passing_score;not null;default:0" json:"passing_score"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
