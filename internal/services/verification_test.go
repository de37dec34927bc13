package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/certificates"
	"github.com/yungbote/cecredit-backend/internal/data/repos"
	"github.com/yungbote/cecredit-backend/internal/data/repos/testutil"
	types "github.com/yungbote/cecredit-backend/internal/domain"
)

var verifyNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func (d *deps) verification() *verificationService {
	svc := NewVerificationService(d.db, d.log, d.certs, d.verifies, VerificationConfig{}).(*verificationService)
	svc.now = func() time.Time { return verifyNow }
	return svc
}

func seedCertificate(t *testing.T, d *deps, number, code string) *types.Certificate {
	t.Helper()
	f := seedCompletedEnrollment(t, d, "Ethics 101", 6)
	return testutil.SeedCertificate(t, context.Background(), d.db, f.enrollment, number, code)
}

func attemptsFor(t *testing.T, d *deps, number string) []types.VerificationAttempt {
	t.Helper()
	var out []types.VerificationAttempt
	require.NoError(t, d.db.Where("certificate_number = ?", number).Order("created_at").Find(&out).Error)
	return out
}

func TestVerifyValidCertificate(t *testing.T) {
	d := newDeps(t)
	cert := seedCertificate(t, d, "ETHICS-101-20240102-001", "ABCDEFGHJKLM")

	res, err := d.verification().Verify(context.Background(), VerifyRequest{
		CertificateNumber: cert.CertificateNumber,
		VerificationCode:  "abcdefghjklm",
		IPAddress:         "203.0.113.7",
		UserAgent:         "test",
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, cert.CertificateNumber, res.CertificateNumber)
	assert.Equal(t, "Ada Lovelace", res.StudentName)
	assert.Equal(t, "Ethics 101", res.CourseTitle)
	require.NotNil(t, res.CEHours)
	assert.Equal(t, 6.0, *res.CEHours)
	require.NotNil(t, res.Expired)
	assert.False(t, *res.Expired)
	assert.Equal(t, cert.PDFURL, res.PDFURL)

	attempts := attemptsFor(t, d, cert.CertificateNumber)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Success)
	assert.Equal(t, certificates.HashCode("ABCDEFGHJKLM"), attempts[0].VerificationCodeHash)
	assert.NotContains(t, attempts[0].VerificationCodeHash, "ABCDEFGHJKLM")
}

func TestVerifyMissingParams(t *testing.T) {
	d := newDeps(t)
	res, err := d.verification().Verify(context.Background(), VerifyRequest{CertificateNumber: "X", IPAddress: "203.0.113.7"})
	assert.ErrorIs(t, err, ErrMissingVerifyParams)
	assert.False(t, res.Valid)
}

func TestVerifyNotFoundIsGeneric(t *testing.T) {
	d := newDeps(t)
	cert := seedCertificate(t, d, "ETHICS-101-20240102-001", "ABCDEFGHJKLM")
	svc := d.verification()

	wrongCode, err := svc.Verify(context.Background(), VerifyRequest{CertificateNumber: cert.CertificateNumber, VerificationCode: "ZZZZZZZZZZZZ", IPAddress: "203.0.113.7"})
	assert.ErrorIs(t, err, ErrVerificationFailed)
	wrongNumber, err := svc.Verify(context.Background(), VerifyRequest{CertificateNumber: "NOPE-20240102-001", VerificationCode: "ABCDEFGHJKLM", IPAddress: "203.0.113.7"})
	assert.ErrorIs(t, err, ErrVerificationFailed)

	assert.Equal(t, wrongCode, wrongNumber, "responses must not reveal which half was wrong")
	assert.False(t, wrongCode.Valid)

	attempts := attemptsFor(t, d, cert.CertificateNumber)
	require.Len(t, attempts, 1)
	assert.False(t, attempts[0].Success)
}

func TestVerifyRevoked(t *testing.T) {
	d := newDeps(t)
	cert := seedCertificate(t, d, "ETHICS-101-20240102-001", "ABCDEFGHJKLM")
	require.NoError(t, d.certs.Revoke(context.Background(), nil, cert.ID, "issued in error", verifyNow))

	res, err := d.verification().Verify(context.Background(), VerifyRequest{CertificateNumber: cert.CertificateNumber, VerificationCode: cert.VerificationCode, IPAddress: "203.0.113.7"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.Revoked)
	assert.Equal(t, "Revoked", res.Reason)
	assert.Empty(t, res.StudentName)
}

func TestVerifyExpiredStillValid(t *testing.T) {
	d := newDeps(t)
	cert := seedCertificate(t, d, "ETHICS-101-20230102-001", "ABCDEFGHJKLM")
	past := verifyNow.Add(-24 * time.Hour)
	require.NoError(t, d.db.Model(cert).Update("expires_at", past).Error)

	res, err := d.verification().Verify(context.Background(), VerifyRequest{CertificateNumber: cert.CertificateNumber, VerificationCode: cert.VerificationCode, IPAddress: "203.0.113.7"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	require.NotNil(t, res.Expired)
	assert.True(t, *res.Expired)
	require.NotNil(t, res.ExpiresAt)
	assert.True(t, past.Equal(*res.ExpiresAt))
}

func TestVerifyRateLimitsByIP(t *testing.T) {
	d := newDeps(t)
	cert := seedCertificate(t, d, "ETHICS-101-20240102-001", "ABCDEFGHJKLM")
	svc := d.verification()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Verify(ctx, VerifyRequest{CertificateNumber: cert.CertificateNumber, VerificationCode: "WRONGWRONGWR", IPAddress: "198.51.100.9"})
		require.ErrorIs(t, err, ErrVerificationFailed)
	}

	res, err := svc.Verify(ctx, VerifyRequest{CertificateNumber: cert.CertificateNumber, VerificationCode: cert.VerificationCode, IPAddress: "198.51.100.9"})
	assert.ErrorIs(t, err, ErrTooManyAttempts, "correct credentials are still blocked")
	assert.False(t, res.Valid)
	assert.Equal(t, 900, res.RetryAfter, "retry after the 15 minute window")

	other, err := svc.Verify(ctx, VerifyRequest{CertificateNumber: cert.CertificateNumber, VerificationCode: cert.VerificationCode, IPAddress: "198.51.100.10"})
	require.NoError(t, err)
	assert.True(t, other.Valid)

	assert.Len(t, attemptsFor(t, d, cert.CertificateNumber), 7, "every request is logged")
}

func TestVerifyWindowExpires(t *testing.T) {
	d := newDeps(t)
	cert := seedCertificate(t, d, "ETHICS-101-20240102-001", "ABCDEFGHJKLM")
	old := verifyNow.Add(-16 * time.Minute)
	for i := 0; i < 5; i++ {
		require.NoError(t, d.verifies.Create(context.Background(), nil, &types.VerificationAttempt{
			CertificateNumber:    cert.CertificateNumber,
			VerificationCodeHash: certificates.HashCode("WRONG"),
			IPAddress:            "198.51.100.9",
			CreatedAt:            old,
		}))
	}
	res, err := d.verification().Verify(context.Background(), VerifyRequest{CertificateNumber: cert.CertificateNumber, VerificationCode: cert.VerificationCode, IPAddress: "198.51.100.9"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

type brokenCertRepo struct {
	repos.CertificateRepo
}

func (brokenCertRepo) FindForVerification(ctx context.Context, tx *gorm.DB, number, code string) (*types.Certificate, error) {
	return nil, errors.New("connection reset")
}

func TestVerifyLookupErrorReportsNotFound(t *testing.T) {
	d := newDeps(t)
	svc := NewVerificationService(d.db, d.log, brokenCertRepo{d.certs}, d.verifies, VerificationConfig{})

	res, err := svc.Verify(context.Background(), VerifyRequest{CertificateNumber: "ETHICS-101-20240102-001", VerificationCode: "ABCDEFGHJKLM", IPAddress: "203.0.113.7"})
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.False(t, res.Valid)
	assert.Equal(t, "not_found", res.Reason)
}
