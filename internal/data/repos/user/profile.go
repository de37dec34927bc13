package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.Profile) (*types.Profile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Profile, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

func (pr *profileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.Profile) (*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "professional_title", "license_number", "license_state", "updated_at"}),
		}).
		Create(profile).Error; err != nil {
		return nil, err
	}
	return pr.GetByUserID(ctx, transaction, profile.UserID)
}

// GetByUserID loads the profile with its user. If the user has no profile row
// yet, a profile is synthesized from the account so callers can still read a name.
func (pr *profileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var u types.User
	if err := transaction.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	var p types.Profile
	err := transaction.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = types.Profile{UserID: userID}
	default:
		return nil, err
	}
	p.User = &u
	return &p, nil
}
