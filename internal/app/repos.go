package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/data/repos"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

type Repos struct {
	User    repos.UserRepo
	Profile repos.ProfileRepo

	Course       repos.CourseRepo
	Lesson       repos.LessonRepo
	Enrollment   repos.EnrollmentRepo
	QuizQuestion repos.QuizQuestionRepo
	QuizAttempt  repos.QuizAttemptRepo

	Certificate         repos.CertificateRepo
	VerificationAttempt repos.VerificationAttemptRepo
	CertificateAudit    repos.CertificateAuditLogRepo
}

func WireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:    repos.NewUserRepo(db, log),
		Profile: repos.NewProfileRepo(db, log),

		Course:       repos.NewCourseRepo(db, log),
		Lesson:       repos.NewLessonRepo(db, log),
		Enrollment:   repos.NewEnrollmentRepo(db, log),
		QuizQuestion: repos.NewQuizQuestionRepo(db, log),
		QuizAttempt:  repos.NewQuizAttemptRepo(db, log),

		Certificate:         repos.NewCertificateRepo(db, log),
		VerificationAttempt: repos.NewVerificationAttemptRepo(db, log),
		CertificateAudit:    repos.NewCertificateAuditLogRepo(db, log),
	}
}
