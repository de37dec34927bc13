package certificates

import (
	"context"
	"time"

	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type VerificationAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *types.VerificationAttempt) error
	CountFailedSince(ctx context.Context, tx *gorm.DB, ipAddress string, since time.Time) (int64, error)
}

type verificationAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVerificationAttemptRepo(db *gorm.DB, baseLog *logger.Logger) VerificationAttemptRepo {
	repoLog := baseLog.With("repo", "VerificationAttemptRepo")
	return &verificationAttemptRepo{db: db, log: repoLog}
}

func (r *verificationAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.VerificationAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(attempt).Error
}

func (r *verificationAttemptRepo) CountFailedSince(ctx context.Context, tx *gorm.DB, ipAddress string, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.VerificationAttempt{}).
		Where("ip_address = ? AND success = ? AND created_at >= ?", ipAddress, false, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
