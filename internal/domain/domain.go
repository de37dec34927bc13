package domain

import (
	"github.com/yungbote/cecredit-backend/internal/domain/certificates"
	"github.com/yungbote/cecredit-backend/internal/domain/learning"
	"github.com/yungbote/cecredit-backend/internal/domain/user"
)

const (
	EnrollmentStatusEnrolled   = learning.EnrollmentStatusEnrolled
	EnrollmentStatusInProgress = learning.EnrollmentStatusInProgress
	EnrollmentStatusCompleted  = learning.EnrollmentStatusCompleted
	EnrollmentStatusExpired    = learning.EnrollmentStatusExpired

	AuditActionIssued  = certificates.AuditActionIssued
	AuditActionRevoked = certificates.AuditActionRevoked
)

type (
	User    = user.User
	Profile = user.Profile

	Course       = learning.Course
	CourseModule = learning.CourseModule
	Lesson       = learning.Lesson
	Enrollment   = learning.Enrollment
	QuizQuestion = learning.QuizQuestion
	QuizAttempt  = learning.QuizAttempt

	Certificate         = certificates.Certificate
	VerificationAttempt = certificates.VerificationAttempt
	CertificateAuditLog = certificates.CertificateAuditLog
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Course{},
		&CourseModule{},
		&Lesson{},
		&Enrollment{},
		&QuizQuestion{},
		&QuizAttempt{},
		&Certificate{},
		&VerificationAttempt{},
		&CertificateAuditLog{},
	}
}
