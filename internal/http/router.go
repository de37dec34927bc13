package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/cecredit-backend/internal/http/handlers"
	httpMW "github.com/yungbote/cecredit-backend/internal/http/middleware"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"github.com/yungbote/cecredit-backend/internal/services"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string
	// TrustedProxies lists the proxy IPs/CIDRs whose X-Forwarded-For is
	// honored. Empty means the peer address is the client IP.
	TrustedProxies []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	ProfileHandler      *httpH.ProfileHandler
	CertificateHandler  *httpH.CertificateHandler
	VerificationHandler *httpH.VerificationHandler
	QuizHandler         *httpH.QuizHandler
	CourseHandler       *httpH.CourseHandler
	SearchRateLimiter   services.RateLimiter

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	trustProxies(r, cfg.Log, cfg.TrustedProxies)
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachClientContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Verification (public)
		if cfg.VerificationHandler != nil {
			api.GET("/verify-certificate", cfg.VerificationHandler.Verify)
		}

		// Course search (public, rate limited)
		if cfg.CourseHandler != nil {
			api.GET("/courses", httpMW.RateLimitByIP("courses", cfg.SearchRateLimiter), cfg.CourseHandler.Search)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Profile
		if cfg.ProfileHandler != nil {
			protected.GET("/profile", cfg.ProfileHandler.GetProfile)
			protected.PUT("/profile", cfg.ProfileHandler.UpdateProfile)
		}

		// Certificates
		if cfg.CertificateHandler != nil {
			protected.POST("/certificates/generate", cfg.CertificateHandler.Generate)
			protected.GET("/certificates", cfg.CertificateHandler.ListMine)
			protected.GET("/certificates/:id", cfg.CertificateHandler.GetMine)
		}

		// Quiz
		if cfg.QuizHandler != nil {
			protected.POST("/lessons/:id/quiz", cfg.QuizHandler.Submit)
		}
	}

	return r
}

// trustProxies makes c.ClientIP() ignore forwarding headers unless the peer
// is a configured proxy. Per-IP limits key on that value.
func trustProxies(r *gin.Engine, log *logger.Logger, proxies []string) {
	if len(proxies) > 0 {
		err := r.SetTrustedProxies(proxies)
		if err == nil {
			return
		}
		if log != nil {
			log.Warn("Invalid trusted proxies (trusting none)", "proxies", proxies, "error", err)
		}
	}
	_ = r.SetTrustedProxies(nil)
}
