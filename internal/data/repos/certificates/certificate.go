package certificates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CertificateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cert *types.Certificate) (*types.Certificate, error)
	GetByID(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID) (*types.Certificate, error)
	GetByNumber(ctx context.Context, tx *gorm.DB, certificateNumber string) (*types.Certificate, error)
	// FindForVerification matches number and code together so a caller cannot
	// tell which of the two was wrong.
	FindForVerification(ctx context.Context, tx *gorm.DB, certificateNumber, verificationCode string) (*types.Certificate, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Certificate, error)
	VerificationCodeExists(ctx context.Context, tx *gorm.DB, code string) (bool, error)
	CountByNumberPrefix(ctx context.Context, tx *gorm.DB, prefix string) (int64, error)
	Revoke(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID, reason string, at time.Time) error
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	repoLog := baseLog.With("repo", "CertificateRepo")
	return &certificateRepo{db: db, log: repoLog}
}

func (r *certificateRepo) Create(ctx context.Context, tx *gorm.DB, cert *types.Certificate) (*types.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(cert).Error; err != nil {
		return nil, err
	}
	return cert, nil
}

func (r *certificateRepo) GetByID(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID) (*types.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Certificate
	if err := transaction.WithContext(ctx).Where("id = ?", certificateID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepo) GetByNumber(ctx context.Context, tx *gorm.DB, certificateNumber string) (*types.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Certificate
	if err := transaction.WithContext(ctx).
		Where("certificate_number = ?", certificateNumber).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepo) FindForVerification(ctx context.Context, tx *gorm.DB, certificateNumber, verificationCode string) (*types.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Certificate
	if err := transaction.WithContext(ctx).
		Where("certificate_number = ? AND verification_code = ?", certificateNumber, verificationCode).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Certificate
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *certificateRepo) VerificationCodeExists(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Certificate{}).
		Where("verification_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *certificateRepo) CountByNumberPrefix(ctx context.Context, tx *gorm.DB, prefix string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Certificate{}).
		Where(`certificate_number LIKE ? ESCAPE '\'`, escapeLike(prefix)+"-%").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Revoke is idempotent for already revoked certificates but keeps the first
// revocation time and reason.
func (r *certificateRepo) Revoke(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID, reason string, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Certificate
	if err := transaction.WithContext(ctx).Where("id = ?", certificateID).First(&c).Error; err != nil {
		return err
	}
	if c.Revoked {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Certificate{}).
		Where("id = ? AND revoked = ?", certificateID, false).
		Updates(map[string]interface{}{
			"revoked":           true,
			"revoked_at":        at,
			"revocation_reason": reason,
			"updated_at":        time.Now(),
		}).Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
