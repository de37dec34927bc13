package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/data/repos"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/apierr"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

type ProfileInput struct {
	FullName          string
	ProfessionalTitle string
	LicenseNumber     string
	LicenseState      string
}

type ProfileService interface {
	Get(ctx context.Context) (*types.Profile, error)
	Update(ctx context.Context, in ProfileInput) (*types.Profile, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
	}
}

func (ps *profileService) Get(ctx context.Context) (*types.Profile, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := ps.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (ps *profileService) Update(ctx context.Context, in ProfileInput) (*types.Profile, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.Join(strings.Fields(in.FullName), " ")
	if name == "" {
		return nil, apierr.BadRequest("missing_name", fmt.Errorf("full name is required"))
	}
	p, err := ps.profileRepo.Upsert(ctx, nil, &types.Profile{
		UserID:            userID,
		FullName:          name,
		ProfessionalTitle: strings.TrimSpace(in.ProfessionalTitle),
		LicenseNumber:     strings.TrimSpace(in.LicenseNumber),
		LicenseState:      strings.ToUpper(strings.TrimSpace(in.LicenseState)),
	})
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	ps.log.Debug("Profile updated", "user_id", userID)
	return p, nil
}
