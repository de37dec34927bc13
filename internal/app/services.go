package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/certificates"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"github.com/yungbote/cecredit-backend/internal/services"
)

type Services struct {
	Signer *certificates.Signer

	Auth          services.AuthService
	Profile       services.ProfileService
	Issuance      services.IssuanceService
	Verification  services.VerificationService
	Certificate   services.CertificateService
	Quiz          services.QuizService
	Course        services.CourseService
	SearchLimiter services.RateLimiter
	Mailer        services.Mailer
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	signer, err := NewSigner(cfg)
	if err != nil {
		return Services{}, err
	}
	tpl, err := certificates.LoadTemplate(cfg.TemplatePath)
	if err != nil {
		return Services{}, fmt.Errorf("load certificate template: %w", err)
	}

	mailer := services.NewMailer(log, c.SendGrid)

	return Services{
		Signer: signer,

		Auth:    services.NewAuthService(db, log, r.User, r.Profile, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Profile: services.NewProfileService(db, log, r.Profile),
		Issuance: services.NewIssuanceService(
			db, log,
			r.Enrollment, r.Profile, r.Course, r.Certificate, r.CertificateAudit,
			c.Bucket, mailer, signer,
			services.IssuanceConfig{
				PublicBaseURL: cfg.PublicBaseURL,
				Template:      tpl,
				CodeLength:    cfg.CodeLength,
			},
		),
		Verification: services.NewVerificationService(db, log, r.Certificate, r.VerificationAttempt, services.VerificationConfig{
			MaxFailedAttempts: cfg.VerifyMaxFailedAttempts,
			Window:            cfg.VerifyWindow,
		}),
		Certificate:   NewCertificateService(db, log, r, signer),
		Quiz:          services.NewQuizService(db, log, r.Lesson, r.Course, r.QuizQuestion, r.QuizAttempt),
		Course:        services.NewCourseService(db, log, r.Course),
		SearchLimiter: services.NewRateLimiter(log, c.Counter, cfg.SearchRateLimit, cfg.SearchRateWindow),
		Mailer:        mailer,
	}, nil
}

// NewCertificateService builds the certificate admin service from a repo set.
func NewCertificateService(db *gorm.DB, log *logger.Logger, r Repos, signer *certificates.Signer) services.CertificateService {
	return services.NewCertificateService(db, log, r.Certificate, r.CertificateAudit, signer)
}

func NewSigner(cfg Config) (*certificates.Signer, error) {
	signer, err := certificates.NewSigner(cfg.SigningSecret)
	if err != nil {
		return nil, fmt.Errorf("init signer: %w", err)
	}
	return signer, nil
}
