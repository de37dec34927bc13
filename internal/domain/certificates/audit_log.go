package certificates

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AuditActionIssued  = "issued"
	AuditActionRevoked = "revoked"
)

type CertificateAuditLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CertificateID uuid.UUID      `gorm:"type:uuid;not null;index" json:"certificate_id"`
	Action        string         `gorm:"column:action;not null;index" json:"action"`
	ActorUserID   *uuid.UUID     `gorm:"type:uuid;column:actor_user_id" json:"actor_user_id,omitempty"`
	Details       datatypes.JSON `gorm:"column:details;type:jsonb" json:"details"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
}

func (CertificateAuditLog) TableName() string { return "certificate_audit_log" }

func (l *CertificateAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
