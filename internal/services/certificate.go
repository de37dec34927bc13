package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/certificates"
	"github.com/yungbote/cecredit-backend/internal/data/repos"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/apierr"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

type HashCheck struct {
	CertificateNumber string `json:"certificate_number"`
	Match             bool   `json:"match"`
	StoredHash        string `json:"stored_hash"`
}

type CertificateService interface {
	ListMine(ctx context.Context) ([]*types.Certificate, error)
	GetMine(ctx context.Context, id uuid.UUID) (*types.Certificate, error)
	Revoke(ctx context.Context, number, reason string, actor *uuid.UUID) (*types.Certificate, error)
	VerifyHash(ctx context.Context, number string) (*HashCheck, error)
	AuditTrail(ctx context.Context, number string) ([]*types.CertificateAuditLog, error)
}

type certificateService struct {
	db        *gorm.DB
	log       *logger.Logger
	certRepo  repos.CertificateRepo
	auditRepo repos.CertificateAuditLogRepo
	signer    *certificates.Signer
	now       func() time.Time
}

func NewCertificateService(
	db *gorm.DB,
	log *logger.Logger,
	certRepo repos.CertificateRepo,
	auditRepo repos.CertificateAuditLogRepo,
	signer *certificates.Signer,
) CertificateService {
	return &certificateService{
		db:        db,
		log:       log.With("service", "CertificateService"),
		certRepo:  certRepo,
		auditRepo: auditRepo,
		signer:    signer,
		now:       time.Now,
	}
}

func (cs *certificateService) ListMine(ctx context.Context) ([]*types.Certificate, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := cs.certRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

func (cs *certificateService) GetMine(ctx context.Context, id uuid.UUID) (*types.Certificate, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	cert, err := cs.certRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	if cert.UserID != userID {
		return nil, ErrCertificateForbidden
	}
	return cert, nil
}

func (cs *certificateService) byNumber(ctx context.Context, tx *gorm.DB, number string) (*types.Certificate, error) {
	cert, err := cs.certRepo.GetByNumber(ctx, tx, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	return cert, nil
}

// Revoke marks the certificate revoked and records who did it. Revoking twice
// keeps the original reason.
func (cs *certificateService) Revoke(ctx context.Context, number, reason string, actor *uuid.UUID) (*types.Certificate, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apierr.BadRequest("missing_reason", fmt.Errorf("revocation reason is required"))
	}
	var out *types.Certificate
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cert, err := cs.byNumber(ctx, tx, number)
		if err != nil {
			return err
		}
		if cert.Revoked {
			out = cert
			return nil
		}
		now := cs.now().UTC()
		if err := cs.certRepo.Revoke(ctx, tx, cert.ID, reason, now); err != nil {
			return fmt.Errorf("revoke certificate: %w", err)
		}
		details, _ := json.Marshal(map[string]interface{}{
			"certificate_number": cert.CertificateNumber,
			"reason":             reason,
		})
		if err := cs.auditRepo.Create(ctx, tx, &types.CertificateAuditLog{
			CertificateID: cert.ID,
			Action:        types.AuditActionRevoked,
			ActorUserID:   actor,
			Details:       datatypes.JSON(details),
			CreatedAt:     now,
		}); err != nil {
			return fmt.Errorf("audit revocation: %w", err)
		}
		out, err = cs.certRepo.GetByID(ctx, tx, cert.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	cs.log.Info("Certificate revoked", "certificate_number", out.CertificateNumber, "reason", out.RevocationReason)
	return out, nil
}

// VerifyHash recomputes the signing hash over the stored payload snapshot.
func (cs *certificateService) VerifyHash(ctx context.Context, number string) (*HashCheck, error) {
	cert, err := cs.byNumber(ctx, nil, number)
	if err != nil {
		return nil, err
	}
	check := &HashCheck{CertificateNumber: cert.CertificateNumber, StoredHash: cert.SigningHash}
	if len(cert.Payload) == 0 {
		return check, nil
	}
	ok, err := cs.signer.Verify([]byte(cert.Payload), cert.SigningHash)
	if err != nil {
		return nil, fmt.Errorf("verify signing hash: %w", err)
	}
	check.Match = ok && payloadMatchesRow(cert)
	return check, nil
}

// payloadMatchesRow catches a row edited without re-signing its snapshot.
func payloadMatchesRow(cert *types.Certificate) bool {
	var p certificates.IssuancePayload
	if err := json.Unmarshal(cert.Payload, &p); err != nil {
		return false
	}
	return p.CertificateNumber == cert.CertificateNumber &&
		p.VerificationCode == cert.VerificationCode &&
		p.StudentName == cert.StudentName &&
		p.CourseTitle == cert.CourseTitle &&
		p.CEHours == cert.CEHours &&
		p.IssuedAt.Equal(cert.IssuedAt)
}

func (cs *certificateService) AuditTrail(ctx context.Context, number string) ([]*types.CertificateAuditLog, error) {
	cert, err := cs.byNumber(ctx, nil, number)
	if err != nil {
		return nil, err
	}
	return cs.auditRepo.ListByCertificateID(ctx, nil, cert.ID)
}
