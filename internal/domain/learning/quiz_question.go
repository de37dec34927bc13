package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizQuestion struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson   *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Index    int       `gorm:"column:index;not null" json:"index"`
	// Kind is one of multiple_choice, true_false, short_answer, multiple_select.
	Kind    string         `gorm:"column:kind;not null" json:"kind"`
	Prompt  string         `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Options datatypes.JSON `gorm:"column:options;type:jsonb" json:"options"`
	// Answer holds a JSON string, or a JSON string array for multiple_select.
	Answer      datatypes.JSON `gorm:"column:answer;type:jsonb;not null" json:"-"`
	Points      float64        `gorm:"column:points;not null;default:1" json:"points"`
	Explanation string         `gorm:"column:explanation;type:text" json:"explanation,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
