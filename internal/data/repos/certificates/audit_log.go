package certificates

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CertificateAuditLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.CertificateAuditLog) error
	ListByCertificateID(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID) ([]*types.CertificateAuditLog, error)
}

type certificateAuditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) CertificateAuditLogRepo {
	repoLog := baseLog.With("repo", "CertificateAuditLogRepo")
	return &certificateAuditLogRepo{db: db, log: repoLog}
}

func (r *certificateAuditLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.CertificateAuditLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (r *certificateAuditLogRepo) ListByCertificateID(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID) ([]*types.CertificateAuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CertificateAuditLog
	if err := transaction.WithContext(ctx).
		Where("certificate_id = ?", certificateID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
