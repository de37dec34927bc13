package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/cecredit-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, fullName, license string) *types.Profile {
	tb.Helper()
	p := &types.Profile{
		ID:            uuid.New(),
		UserID:        userID,
		FullName:      fullName,
		LicenseNumber: license,
		LicenseState:  "CA",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, ceHours float64) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:        uuid.New(),
		Title:     title,
		Subject:   "ethics",
		Published: true,
		CEHours:   ceHours,
		Metadata:  datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, index, minutes int) *types.CourseModule {
	tb.Helper()
	m := &types.CourseModule{
		ID:              uuid.New(),
		CourseID:        courseID,
		Index:           index,
		Title:           "module",
		DurationMinutes: minutes,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, index, minutes int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:              uuid.New(),
		ModuleID:        moduleID,
		Index:           index,
		Title:           "lesson",
		DurationMinutes: minutes,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, status string) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		Status:   status,
	}
	if status == types.EnrollmentStatusCompleted {
		now := time.Now().UTC()
		e.CompletedAt = &now
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedQuizQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, index int, kind, answerJSON string, points float64) *types.QuizQuestion {
	tb.Helper()
	q := &types.QuizQuestion{
		ID:       uuid.New(),
		LessonID: lessonID,
		Index:    index,
		Kind:     kind,
		Prompt:   "prompt",
		Options:  datatypes.JSON([]byte("[]")),
		Answer:   datatypes.JSON([]byte(answerJSON)),
		Points:   points,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz question: %v", err)
	}
	return q
}

func SeedCertificate(tb testing.TB, ctx context.Context, tx *gorm.DB, e *types.Enrollment, number, code string) *types.Certificate {
	tb.Helper()
	c := &types.Certificate{
		ID:                uuid.New(),
		UserID:            e.UserID,
		CourseID:          e.CourseID,
		EnrollmentID:      e.ID,
		CertificateNumber: number,
		VerificationCode:  code,
		StudentName:       "Ada Lovelace",
		CourseTitle:       "Ethics 101",
		CEHours:           6,
		IssuedAt:          time.Now().UTC(),
		PDFKey:            "certificates/" + number + ".pdf",
		PDFURL:            "https://storage.example.com/certificates/" + number + ".pdf",
		SigningHash:       "deadbeef",
		Payload:           datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed certificate: %v", err)
	}
	return c
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
