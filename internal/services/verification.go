package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/certificates"
	"github.com/yungbote/cecredit-backend/internal/data/repos"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

const (
	reasonMissingParams = "missing_parameters"
	reasonRateLimited   = "rate_limited"
	reasonNotFound      = "not_found"
	reasonRevoked       = "Revoked"
)

type VerifyRequest struct {
	CertificateNumber string
	VerificationCode  string
	IPAddress         string
	UserAgent         string
}

// VerifyResult is the public answer. It never carries internal ids.
type VerifyResult struct {
	Valid             bool       `json:"valid"`
	CertificateNumber string     `json:"certificateNumber,omitempty"`
	IssuedAt          *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	Expired           *bool      `json:"expired,omitempty"`
	CEHours           *float64   `json:"ceHours,omitempty"`
	CourseTitle       string     `json:"courseTitle,omitempty"`
	StudentName       string     `json:"studentName,omitempty"`
	PDFURL            string     `json:"pdfUrl,omitempty"`
	Revoked           bool       `json:"revoked,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	// RetryAfter is set on throttled lookups: seconds until the failed
	// attempt window has fully rolled over.
	RetryAfter int `json:"retryAfter,omitempty"`
}

type VerificationConfig struct {
	MaxFailedAttempts int
	Window            time.Duration
}

// VerificationService answers anonymous certificate lookups. Verify always
// returns a result; a non-nil error carries the HTTP status for it.
type VerificationService interface {
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
}

type verificationService struct {
	db          *gorm.DB
	log         *logger.Logger
	certRepo    repos.CertificateRepo
	attemptRepo repos.VerificationAttemptRepo
	cfg         VerificationConfig
	now         func() time.Time
}

func NewVerificationService(
	db *gorm.DB,
	log *logger.Logger,
	certRepo repos.CertificateRepo,
	attemptRepo repos.VerificationAttemptRepo,
	cfg VerificationConfig,
) VerificationService {
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return &verificationService{
		db:          db,
		log:         log.With("service", "VerificationService"),
		certRepo:    certRepo,
		attemptRepo: attemptRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (vs *verificationService) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	number := strings.TrimSpace(req.CertificateNumber)
	code := strings.ToUpper(strings.TrimSpace(req.VerificationCode))
	if number == "" || code == "" {
		return &VerifyResult{Valid: false, Reason: reasonMissingParams}, ErrMissingVerifyParams
	}

	now := vs.now().UTC()
	attempt := &types.VerificationAttempt{
		CertificateNumber:    number,
		VerificationCodeHash: certificates.HashCode(code),
		IPAddress:            req.IPAddress,
		UserAgent:            req.UserAgent,
		CreatedAt:            now,
	}
	defer vs.record(ctx, attempt)

	failed, err := vs.attemptRepo.CountFailedSince(ctx, nil, req.IPAddress, now.Add(-vs.cfg.Window))
	if err != nil {
		vs.log.Warn("Verification attempt count failed (not limiting)", "client_ip", req.IPAddress, "error", err)
	} else if failed >= int64(vs.cfg.MaxFailedAttempts) {
		attempt.Reason = reasonRateLimited
		vs.log.Warn("Verification rate limited", "client_ip", req.IPAddress, "failed_attempts", failed)
		return &VerifyResult{
			Valid:      false,
			Reason:     reasonRateLimited,
			RetryAfter: int(math.Ceil(vs.cfg.Window.Seconds())),
		}, ErrTooManyAttempts
	}

	cert, err := vs.certRepo.FindForVerification(ctx, nil, number, code)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			vs.log.Error("Certificate lookup failed (reported as not found)", "certificate_number", number, "error", err)
		}
		attempt.Reason = reasonNotFound
		return &VerifyResult{Valid: false, Reason: reasonNotFound}, ErrVerificationFailed
	}

	if cert.Revoked {
		attempt.Reason = reasonRevoked
		return &VerifyResult{
			Valid:             false,
			CertificateNumber: cert.CertificateNumber,
			Revoked:           true,
			Reason:            reasonRevoked,
		}, nil
	}

	attempt.Success = true
	return redact(cert, now), nil
}

func redact(cert *types.Certificate, now time.Time) *VerifyResult {
	issued := cert.IssuedAt.UTC()
	hours := cert.CEHours
	expired := cert.IsExpired(now)
	res := &VerifyResult{
		Valid:             true,
		CertificateNumber: cert.CertificateNumber,
		IssuedAt:          &issued,
		Expired:           &expired,
		CEHours:           &hours,
		CourseTitle:       cert.CourseTitle,
		StudentName:       cert.StudentName,
		PDFURL:            cert.PDFURL,
	}
	if cert.ExpiresAt != nil {
		exp := cert.ExpiresAt.UTC()
		res.ExpiresAt = &exp
	}
	return res
}

func (vs *verificationService) record(ctx context.Context, attempt *types.VerificationAttempt) {
	if err := vs.attemptRepo.Create(context.WithoutCancel(ctx), nil, attempt); err != nil {
		vs.log.Error("Verification attempt insert failed", "certificate_number", attempt.CertificateNumber, "error", err)
	}
}
