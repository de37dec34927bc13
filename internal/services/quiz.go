package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/data/repos"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/learning/quiz"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

type QuizSubmission struct {
	AttemptID    uuid.UUID             `json:"attemptId"`
	Score        float64               `json:"score"`
	EarnedPoints float64               `json:"earnedPoints"`
	TotalPoints  float64               `json:"totalPoints"`
	PassingScore float64               `json:"passingScore"`
	Passed       bool                  `json:"passed"`
	CEEligible   bool                  `json:"ceEligible"`
	Breakdown    []quiz.QuestionResult `json:"breakdown"`
}

type QuizService interface {
	Submit(ctx context.Context, lessonID uuid.UUID, answers map[string]quiz.Values) (*QuizSubmission, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	lessonRepo   repos.LessonRepo
	courseRepo   repos.CourseRepo
	questionRepo repos.QuizQuestionRepo
	attemptRepo  repos.QuizAttemptRepo
	now          func() time.Time
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	lessonRepo repos.LessonRepo,
	courseRepo repos.CourseRepo,
	questionRepo repos.QuizQuestionRepo,
	attemptRepo repos.QuizAttemptRepo,
) QuizService {
	return &quizService{
		db:           db,
		log:          log.With("service", "QuizService"),
		lessonRepo:   lessonRepo,
		courseRepo:   courseRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		now:          time.Now,
	}
}

func (qs *quizService) Submit(ctx context.Context, lessonID uuid.UUID, answers map[string]quiz.Values) (*QuizSubmission, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	lesson, err := qs.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	rows, err := qs.questionRepo.GetByLessonID(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrQuizNotFound
	}
	questions, err := toQuizQuestions(rows)
	if err != nil {
		return nil, err
	}

	result := quiz.Grade(questions, answers, float64(lesson.PassingScore))

	ceEligible := false
	if result.Passed && lesson.Module != nil {
		course, err := qs.courseRepo.GetByID(ctx, nil, lesson.Module.CourseID)
		if err != nil {
			return nil, fmt.Errorf("load course: %w", err)
		}
		ceEligible = course.CEHours > 0
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	breakdownJSON, err := json.Marshal(result.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	now := qs.now().UTC()
	attempt, err := qs.attemptRepo.Create(ctx, nil, &types.QuizAttempt{
		UserID:       userID,
		LessonID:     lessonID,
		Answers:      datatypes.JSON(answersJSON),
		Breakdown:    datatypes.JSON(breakdownJSON),
		EarnedPoints: result.EarnedPoints,
		TotalPoints:  result.TotalPoints,
		Score:        result.Score,
		PassingScore: result.PassingScore,
		Passed:       result.Passed,
		CEEligible:   ceEligible,
		GradedAt:     now,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("save quiz attempt: %w", err)
	}
	qs.log.Debug("Quiz graded", "lesson_id", lessonID, "score", result.Score, "passed", result.Passed)

	return &QuizSubmission{
		AttemptID:    attempt.ID,
		Score:        result.Score,
		EarnedPoints: result.EarnedPoints,
		TotalPoints:  result.TotalPoints,
		PassingScore: result.PassingScore,
		Passed:       result.Passed,
		CEEligible:   ceEligible,
		Breakdown:    result.Breakdown,
	}, nil
}

func toQuizQuestions(rows []*types.QuizQuestion) ([]quiz.Question, error) {
	out := make([]quiz.Question, 0, len(rows))
	for _, r := range rows {
		var key quiz.Values
		if err := json.Unmarshal(r.Answer, &key); err != nil {
			return nil, fmt.Errorf("decode answer key for question %s: %w", r.ID, err)
		}
		out = append(out, quiz.Question{
			ID:          r.ID.String(),
			Kind:        r.Kind,
			Key:         key,
			Points:      r.Points,
			Explanation: r.Explanation,
		})
	}
	return out, nil
}
