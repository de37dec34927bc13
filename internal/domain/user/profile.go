package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds what is printed on a certificate about its holder.
type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	FullName          string `gorm:"column:full_name" json:"full_name"`
	ProfessionalTitle string `gorm:"column:professional_title" json:"professional_title,omitempty"`
	LicenseNumber     string `gorm:"column:license_number" json:"license_number,omitempty"`
	LicenseState      string `gorm:"column:license_state" json:"license_state,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DisplayName prefers the profile name and falls back to the account name.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if n := strings.TrimSpace(p.FullName); n != "" {
		return n
	}
	if p.User != nil {
		return strings.TrimSpace(strings.TrimSpace(p.User.FirstName) + " " + strings.TrimSpace(p.User.LastName))
	}
	return ""
}
