package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error)
	// GetByID preloads Course.
	GetByID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, at time.Time) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(enrollments) == 0 {
		return []*types.Enrollment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var e types.Enrollment
	if err := transaction.WithContext(ctx).
		Preload("Course").
		Where("id = ?", enrollmentID).
		First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var e types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at DESC").
		First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{
			"status":       types.EnrollmentStatusCompleted,
			"completed_at": at,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
