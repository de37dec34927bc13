package repos

import (
	"github.com/yungbote/cecredit-backend/internal/data/repos/certificates"
	"github.com/yungbote/cecredit-backend/internal/data/repos/learning"
	"github.com/yungbote/cecredit-backend/internal/data/repos/user"
)

type UserRepo = user.UserRepo
type ProfileRepo = user.ProfileRepo

type CourseRepo = learning.CourseRepo
type LessonRepo = learning.LessonRepo
type EnrollmentRepo = learning.EnrollmentRepo
type QuizQuestionRepo = learning.QuizQuestionRepo
type QuizAttemptRepo = learning.QuizAttemptRepo

type CertificateRepo = certificates.CertificateRepo
type VerificationAttemptRepo = certificates.VerificationAttemptRepo
type CertificateAuditLogRepo = certificates.CertificateAuditLogRepo

var (
	NewUserRepo    = user.NewUserRepo
	NewProfileRepo = user.NewProfileRepo

	NewCourseRepo       = learning.NewCourseRepo
	NewLessonRepo       = learning.NewLessonRepo
	NewEnrollmentRepo   = learning.NewEnrollmentRepo
	NewQuizQuestionRepo = learning.NewQuizQuestionRepo
	NewQuizAttemptRepo  = learning.NewQuizAttemptRepo

	NewCertificateRepo         = certificates.NewCertificateRepo
	NewVerificationAttemptRepo = certificates.NewVerificationAttemptRepo
	NewCertificateAuditLogRepo = certificates.NewCertificateAuditLogRepo
)
