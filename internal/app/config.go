package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/cecredit-backend/internal/certificates"
	dbpkg "github.com/yungbote/cecredit-backend/internal/db"
	"github.com/yungbote/cecredit-backend/internal/observability"
	"github.com/yungbote/cecredit-backend/internal/platform/envutil"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

const devSigningSecret = "cecredit-dev-signing-secret"

var ErrMissingSigningSecret = errors.New("CERT_SIGNING_SECRET is required in production")

type Config struct {
	Port    string
	LogMode string

	DB dbpkg.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	SigningSecret string
	PublicBaseURL string
	TemplatePath  string
	CodeLength    int
	CORSOrigins   []string

	TrustedProxies []string

	VerifyMaxFailedAttempts int
	VerifyWindow            time.Duration

	SearchRateLimit  int
	SearchRateWindow time.Duration

	Otel observability.OtelConfig
}

// LoadDotEnv reads ENV_FILE (default .env) into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv() error {
	path := envutil.String("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func LogModeFromEnv() string {
	return envutil.String("LOG_MODE", "development")
}

func isProduction(mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		return true
	}
	return false
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: LogModeFromEnv(),

		DB: dbpkg.ConfigFromEnv(),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL: time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,

		SigningSecret: envutil.String("CERT_SIGNING_SECRET", ""),
		PublicBaseURL: strings.TrimRight(envutil.String("PUBLIC_BASE_URL", "http://localhost:5173"), "/"),
		TemplatePath:  envutil.String("CERT_TEMPLATE_PATH", ""),
		CodeLength:    envutil.Int("VERIFICATION_CODE_LENGTH", certificates.DefaultCodeLength),
		CORSOrigins:   splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),

		TrustedProxies: splitList(envutil.String("TRUSTED_PROXIES", "")),

		VerifyMaxFailedAttempts: envutil.Int("VERIFY_MAX_FAILED_ATTEMPTS", 5),
		VerifyWindow:            envutil.Duration("VERIFY_WINDOW", 15*time.Minute),

		SearchRateLimit:  envutil.Int("SEARCH_RATE_LIMIT", 30),
		SearchRateWindow: envutil.Duration("SEARCH_RATE_WINDOW", time.Minute),

		Otel: observability.OtelConfigFromEnv(),
	}

	prod := isProduction(cfg.LogMode)
	if cfg.SigningSecret == "" {
		if prod {
			return cfg, ErrMissingSigningSecret
		}
		log.Warn("CERT_SIGNING_SECRET not set, using development secret")
		cfg.SigningSecret = devSigningSecret
	}
	if cfg.JWTSecretKey == "" {
		if prod {
			return cfg, errors.New("JWT_SECRET_KEY is required in production")
		}
		log.Warn("JWT_SECRET_KEY not set, using development secret")
		cfg.JWTSecretKey = "defaultsecret"
	}
	if cfg.CodeLength < 8 {
		return cfg, fmt.Errorf("VERIFICATION_CODE_LENGTH must be at least 8, got %d", cfg.CodeLength)
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
