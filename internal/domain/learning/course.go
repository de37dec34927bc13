package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null;index" json:"title"`
	Code        string    `gorm:"column:code;index" json:"code,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Subject     string    `gorm:"column:subject;index" json:"subject"`
	Published   bool      `gorm:"column:published;not null;default:true;index" json:"published"`

	// CEHours is the accredited credit used when the course has no timed content.
	CEHours                 float64 `gorm:"column:ce_hours;not null;default:0" json:"ce_hours"`
	CertificateValidityDays int     `gorm:"column:certificate_validity_days;not null;default:0" json:"certificate_validity_days"`
	AccreditationBody       string  `gorm:"column:accreditation_body" json:"accreditation_body,omitempty"`

	Modules []*CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`

	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
