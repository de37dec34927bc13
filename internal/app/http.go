package app

import (
	"context"

	"gorm.io/gorm"

	apphttp "github.com/yungbote/cecredit-backend/internal/http"
	httpH "github.com/yungbote/cecredit-backend/internal/http/handlers"
	httpMW "github.com/yungbote/cecredit-backend/internal/http/middleware"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	Profile      *httpH.ProfileHandler
	Certificate  *httpH.CertificateHandler
	Verification *httpH.VerificationHandler
	Quiz         *httpH.QuizHandler
	Course       *httpH.CourseHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(pingDB(db)),
		Auth:         httpH.NewAuthHandler(services.Auth),
		Profile:      httpH.NewProfileHandler(services.Profile),
		Certificate:  httpH.NewCertificateHandler(log, services.Issuance, services.Certificate),
		Verification: httpH.NewVerificationHandler(services.Verification),
		Quiz:         httpH.NewQuizHandler(services.Quiz),
		Course:       httpH.NewCourseHandler(services.Course),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, services Services, handlers Handlers, middleware Middleware) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.Otel.ServiceName,
		TracingEnabled: cfg.Otel.Enabled,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,

		HealthHandler:       handlers.Health,
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      middleware.Auth,
		ProfileHandler:      handlers.Profile,
		CertificateHandler:  handlers.Certificate,
		VerificationHandler: handlers.Verification,
		QuizHandler:         handlers.Quiz,
		CourseHandler:       handlers.Course,
		SearchRateLimiter:   services.SearchLimiter,
	})
}

func pingDB(db *gorm.DB) httpH.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
