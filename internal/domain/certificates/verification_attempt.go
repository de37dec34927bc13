package certificates

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationAttempt is written for every public lookup, whatever the outcome.
// CertificateNumber is not a foreign key: unknown numbers are logged too.
type VerificationAttempt struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CertificateNumber    string    `gorm:"column:certificate_number;not null;index" json:"certificate_number"`
	VerificationCodeHash string    `gorm:"column:verification_code_hash;not null" json:"-"`
	IPAddress            string    `gorm:"column:ip_address;not null;index:idx_verification_attempt_ip_time,priority:1" json:"-"`
	UserAgent            string    `gorm:"column:user_agent" json:"-"`
	Success              bool      `gorm:"column:success;not null" json:"success"`
	Reason               string    `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt            time.Time `gorm:"not null;index:idx_verification_attempt_ip_time,priority:2" json:"created_at"`
}

func (VerificationAttempt) TableName() string { return "verification_attempts" }

func (a *VerificationAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
