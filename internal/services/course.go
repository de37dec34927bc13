package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/data/repos"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

type CourseService interface {
	Search(ctx context.Context, query string, limit int) ([]*types.Course, error)
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
}

func NewCourseService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo) CourseService {
	return &courseService{
		db:         db,
		log:        log.With("service", "CourseService"),
		courseRepo: courseRepo,
	}
}

func (cs *courseService) Search(ctx context.Context, query string, limit int) ([]*types.Course, error) {
	if len(query) > 200 {
		query = query[:200]
	}
	courses, err := cs.courseRepo.Search(ctx, nil, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}
