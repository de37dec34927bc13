package certificates

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/cecredit-backend/internal/domain/learning"
	"github.com/yungbote/cecredit-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certificate is created once at issuance and only mutated by revocation.
// Rows are never deleted.
type Certificate struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *user.User           `gorm:"constraint:OnDelete:RESTRICT;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"course_id"`
	Course       *learning.Course     `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	EnrollmentID uuid.UUID            `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	Enrollment   *learning.Enrollment `gorm:"constraint:OnDelete:RESTRICT;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`

	CertificateNumber string  `gorm:"column:certificate_number;not null;uniqueIndex" json:"certificate_number"`
	VerificationCode  string  `gorm:"column:verification_code;not null;uniqueIndex" json:"-"`
	StudentName       string  `gorm:"column:student_name;not null" json:"student_name"`
	CourseTitle       string  `gorm:"column:course_title;not null" json:"course_title"`
	LicenseNumber     string  `gorm:"column:license_number" json:"-"`
	CEHours           float64 `gorm:"column:ce_hours;not null;default:0" json:"ce_hours"`

	IssuedAt  time.Time  `gorm:"column:issued_at;not null;index" json:"issued_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`

	PDFKey     string `gorm:"column:pdf_key;not null" json:"-"`
	PDFURL     string `gorm:"column:pdf_url;not null" json:"pdf_url"`
	PreviewURL string `gorm:"column:preview_url" json:"preview_url,omitempty"`

	// SigningHash is an HMAC-SHA256 over Payload, kept for offline audit.
	SigningHash string         `gorm:"column:signing_hash;not null" json:"-"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb" json:"-"`

	Revoked          bool       `gorm:"column:revoked;not null;default:false;index" json:"revoked"`
	RevokedAt        *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	RevocationReason string     `gorm:"column:revocation_reason" json:"revocation_reason,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Certificate) TableName() string { return "certificates" }

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the certificate has an expiry at or before now.
func (c *Certificate) IsExpired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}
