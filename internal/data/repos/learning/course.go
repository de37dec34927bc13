package learning

import (
	"context"
	"strings"

	"github.com/google/uuid"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Course, error)
	GetByID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error)
	GetWithContent(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error)
	Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Course
	if err := transaction.WithContext(ctx).Where("id = ?", courseID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetWithContent loads the course with its modules and their lessons, ordered by index.
func (r *courseRepo) GetWithContent(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Course
	if err := transaction.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order(`"index" ASC`) }).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order(`"index" ASC`) }).
		Where("id = ?", courseID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := transaction.WithContext(ctx).
		Model(&types.Course{}).
		Where("published = ?", true)
	if term := strings.ToLower(strings.TrimSpace(query)); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(subject) LIKE ? ESCAPE '\\' OR LOWER(code) LIKE ? ESCAPE '\\')", like, like, like)
	}
	var results []*types.Course
	if err := q.Order("title ASC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
