package certificates

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	types "github.com/yungbote/cecredit-backend/internal/domain"
)

// HoursSource loads a course with modules and lessons preloaded.
type HoursSource interface {
	CourseWithContent(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
}

// ComputeCEHours loads the course and returns its credit hours.
func ComputeCEHours(ctx context.Context, src HoursSource, courseID uuid.UUID) (float64, error) {
	course, err := src.CourseWithContent(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("load course content: %w", err)
	}
	return CEHoursForCourse(course), nil
}

// CEHoursForCourse converts timed content to hours rounded to one decimal.
// A module's own duration only counts when none of its lessons are timed, so
// a module and its lessons are never added together. With no timed content
// the stored ce_hours value is used. The result is never negative.
func CEHoursForCourse(course *types.Course) float64 {
	if course == nil {
		return 0
	}
	minutes := 0
	for _, m := range course.Modules {
		if m == nil {
			continue
		}
		lessonMinutes := 0
		for _, l := range m.Lessons {
			if l != nil && l.DurationMinutes > 0 {
				lessonMinutes += l.DurationMinutes
			}
		}
		if lessonMinutes > 0 {
			minutes += lessonMinutes
		} else if m.DurationMinutes > 0 {
			minutes += m.DurationMinutes
		}
	}
	if hours := RoundHours(float64(minutes) / 60); hours > 0 {
		return hours
	}
	if course.CEHours > 0 {
		return RoundHours(course.CEHours)
	}
	return 0
}

// RoundHours rounds to one decimal place, half away from zero.
func RoundHours(h float64) float64 {
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	return math.Round(h*10) / 10
}

// FormatHours renders hours the way they appear on the certificate: "6.0 hours".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1f hours", RoundHours(h))
}
