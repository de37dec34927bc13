package certificates

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/cecredit-backend/internal/domain"
)

type stubHours struct {
	course *types.Course
	err    error
}

func (s stubHours) CourseWithContent(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	return s.course, s.err
}

func TestCEHoursForCourse(t *testing.T) {
	lesson := func(min int) *types.Lesson { return &types.Lesson{DurationMinutes: min} }

	tests := []struct {
		name   string
		course *types.Course
		want   float64
	}{
		{"nil course", nil, 0},
		{"no content uses stored", &types.Course{CEHours: 6}, 6},
		{"no content no stored", &types.Course{}, 0},
		{"negative stored clamps", &types.Course{CEHours: -2}, 0},
		{
			"lessons win over module duration",
			&types.Course{CEHours: 10, Modules: []*types.CourseModule{
				{DurationMinutes: 600, Lessons: []*types.Lesson{lesson(45), lesson(45)}},
			}},
			1.5,
		},
		{
			"module duration when lessons untimed",
			&types.Course{Modules: []*types.CourseModule{
				{DurationMinutes: 90, Lessons: []*types.Lesson{lesson(0)}},
				{DurationMinutes: 50},
			}},
			2.3,
		},
		{
			"negative durations ignored",
			&types.Course{CEHours: 3, Modules: []*types.CourseModule{
				{DurationMinutes: -60, Lessons: []*types.Lesson{lesson(-30)}},
			}},
			3,
		},
		{
			"rounds to one decimal",
			&types.Course{Modules: []*types.CourseModule{{Lessons: []*types.Lesson{lesson(100)}}}},
			1.7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CEHoursForCourse(tt.course); got != tt.want {
				t.Fatalf("want=%v got=%v", tt.want, got)
			}
		})
	}
}

func TestComputeCEHours(t *testing.T) {
	got, err := ComputeCEHours(context.Background(), stubHours{course: &types.Course{CEHours: 6}}, uuid.New())
	if err != nil || got != 6 {
		t.Fatalf("want 6, got %v err=%v", got, err)
	}
	boom := errors.New("missing")
	if _, err := ComputeCEHours(context.Background(), stubHours{err: boom}, uuid.New()); !errors.Is(err, boom) {
		t.Fatalf("want wrapped error, got %v", err)
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(6); got != "6.0 hours" {
		t.Fatalf("got %q", got)
	}
	if got := FormatHours(1.25); got != "1.3 hours" {
		t.Fatalf("got %q", got)
	}
}
