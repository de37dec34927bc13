package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/certificates"
	"github.com/yungbote/cecredit-backend/internal/data/repos"
	dbpkg "github.com/yungbote/cecredit-backend/internal/db"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/dbctx"
	"github.com/yungbote/cecredit-backend/internal/platform/gcp"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

const maxInsertAttempts = 3

type IssueRequest struct {
	EnrollmentID uuid.UUID
	// RequesterID must own the enrollment unless it is uuid.Nil (operator issuance).
	RequesterID uuid.UUID
	// CEHours overrides the computed value when positive.
	CEHours float64
}

type IssueResult struct {
	CertificateID     uuid.UUID          `json:"certificateId"`
	CertificateNumber string             `json:"certificateNumber"`
	VerificationCode  string             `json:"verificationCode"`
	PDFURL            string             `json:"pdfUrl"`
	PreviewURL        string             `json:"previewUrl,omitempty"`
	QRCodeDataURL     string             `json:"qrCode,omitempty"`
	Certificate       *types.Certificate `json:"-"`
}

type IssuanceConfig struct {
	PublicBaseURL string
	Template      certificates.Template
	CodeLength    int
}

// IssuanceService issues certificates for completed enrollments. Issue is not
// idempotent: every call creates a new certificate.
type IssuanceService interface {
	Issue(ctx context.Context, req IssueRequest) (*IssueResult, error)
}

type issuanceService struct {
	db             *gorm.DB
	log            *logger.Logger
	enrollmentRepo repos.EnrollmentRepo
	profileRepo    repos.ProfileRepo
	courseRepo     repos.CourseRepo
	certRepo       repos.CertificateRepo
	auditRepo      repos.CertificateAuditLogRepo
	bucket         gcp.BucketService
	mailer         Mailer
	signer         *certificates.Signer
	cfg            IssuanceConfig
	now            func() time.Time
}

func NewIssuanceService(
	db *gorm.DB,
	log *logger.Logger,
	enrollmentRepo repos.EnrollmentRepo,
	profileRepo repos.ProfileRepo,
	courseRepo repos.CourseRepo,
	certRepo repos.CertificateRepo,
	auditRepo repos.CertificateAuditLogRepo,
	bucket gcp.BucketService,
	mailer Mailer,
	signer *certificates.Signer,
	cfg IssuanceConfig,
) IssuanceService {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = certificates.DefaultCodeLength
	}
	if cfg.Template.Title == "" {
		cfg.Template = certificates.DefaultTemplate()
	}
	return &issuanceService{
		db:             db,
		log:            log.With("service", "IssuanceService"),
		enrollmentRepo: enrollmentRepo,
		profileRepo:    profileRepo,
		courseRepo:     courseRepo,
		certRepo:       certRepo,
		auditRepo:      auditRepo,
		bucket:         bucket,
		mailer:         mailer,
		signer:         signer,
		cfg:            cfg,
		now:            time.Now,
	}
}

// courseContent adapts CourseRepo to certificates.HoursSource.
type courseContent struct {
	repo repos.CourseRepo
}

func (c courseContent) CourseWithContent(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	return c.repo.GetWithContent(ctx, nil, courseID)
}

// artifacts are the uploaded files for one issuance attempt.
type artifacts struct {
	pdf        []byte
	pdfKey     string
	previewKey string
}

func (is *issuanceService) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	enrollment, err := is.enrollmentRepo.GetByID(ctx, nil, req.EnrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if req.RequesterID != uuid.Nil && enrollment.UserID != req.RequesterID {
		return nil, ErrEnrollmentNotOwned
	}
	if !enrollment.IsCompleted() {
		return nil, ErrEnrollmentIncomplete
	}
	course := enrollment.Course
	if course == nil {
		if course, err = is.courseRepo.GetByID(ctx, nil, enrollment.CourseID); err != nil {
			return nil, fmt.Errorf("load course: %w", err)
		}
	}

	var (
		profile *types.Profile
		ceHours = req.CEHours
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := is.profileRepo.GetByUserID(gctx, nil, enrollment.UserID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		profile = p
		return nil
	})
	if ceHours <= 0 {
		g.Go(func() error {
			h, err := certificates.ComputeCEHours(gctx, courseContent{repo: is.courseRepo}, course.ID)
			if err != nil {
				return err
			}
			ceHours = h
			return nil
		})
	} else {
		ceHours = certificates.RoundHours(ceHours)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	studentName := profile.DisplayName()
	if studentName == "" {
		return nil, ErrProfileIncomplete
	}

	issuedAt := is.now().UTC().Truncate(time.Second)
	var expiresAt *time.Time
	if course.CertificateValidityDays > 0 {
		exp := issuedAt.AddDate(0, 0, course.CertificateValidityDays)
		expiresAt = &exp
	}
	courseCode := certificates.CourseCode(course.Title)
	if strings.TrimSpace(course.Code) != "" {
		courseCode = certificates.CourseCode(course.Code)
	}

	var (
		cert *types.Certificate
		art  artifacts
		url  string
	)
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		offset := int64(attempt)
		number, err := certificates.GenerateCertificateNumber(ctx, courseCode, issuedAt, func(ctx context.Context, prefix string) (int64, error) {
			n, err := is.certRepo.CountByNumberPrefix(ctx, nil, prefix)
			return n + offset, err
		})
		if err != nil {
			return nil, err
		}
		code, err := certificates.GenerateVerificationCode(ctx, is.cfg.CodeLength, func(ctx context.Context, code string) (bool, error) {
			return is.certRepo.VerificationCodeExists(ctx, nil, code)
		})
		if err != nil {
			return nil, err
		}
		url = certificates.VerificationURL(is.cfg.PublicBaseURL, number, code)

		payload := certificates.IssuancePayload{
			CertificateNumber: number,
			VerificationCode:  code,
			UserID:            enrollment.UserID,
			CourseID:          course.ID,
			EnrollmentID:      enrollment.ID,
			StudentName:       studentName,
			LicenseNumber:     profile.LicenseNumber,
			CourseTitle:       course.Title,
			CEHours:           ceHours,
			IssuedAt:          issuedAt,
			ExpiresAt:         expiresAt,
		}
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		hash, err := is.signer.Sign(payloadJSON)
		if err != nil {
			return nil, fmt.Errorf("sign payload: %w", err)
		}
		qr, err := certificates.QRPNG(url, certificates.DefaultQRSize)
		if err != nil {
			return nil, err
		}
		rd := certificates.RenderData{
			StudentName:       studentName,
			LicenseNumber:     profile.LicenseNumber,
			LicenseState:      profile.LicenseState,
			CourseTitle:       course.Title,
			AccreditationBody: course.AccreditationBody,
			CEHours:           ceHours,
			CertificateNumber: number,
			VerificationCode:  code,
			VerificationURL:   url,
			IssuedAt:          issuedAt,
			ExpiresAt:         expiresAt,
			SigningHash:       hash,
			QRPNG:             qr,
		}

		art, err = is.renderAndUpload(ctx, enrollment.UserID, rd)
		if err != nil {
			return nil, err
		}

		cert = &types.Certificate{
			UserID:            enrollment.UserID,
			CourseID:          course.ID,
			EnrollmentID:      enrollment.ID,
			CertificateNumber: number,
			VerificationCode:  code,
			StudentName:       studentName,
			CourseTitle:       course.Title,
			LicenseNumber:     profile.LicenseNumber,
			CEHours:           ceHours,
			IssuedAt:          issuedAt,
			ExpiresAt:         expiresAt,
			PDFKey:            art.pdfKey,
			PDFURL:            is.bucket.GetPublicURL(gcp.BucketCategoryCertificate, art.pdfKey),
			SigningHash:       hash,
			Payload:           datatypes.JSON(payloadJSON),
		}
		if art.previewKey != "" {
			cert.PreviewURL = is.bucket.GetPublicURL(gcp.BucketCategoryPreview, art.previewKey)
		}

		_, err = is.certRepo.Create(ctx, nil, cert)
		if err == nil {
			break
		}
		is.discard(ctx, art)
		if dbpkg.IsUniqueViolation(err) && attempt < maxInsertAttempts-1 {
			is.log.Warn("Certificate number or code collided, retrying",
				"certificate_number", number,
				"attempt", attempt+1,
			)
			continue
		}
		return nil, fmt.Errorf("insert certificate: %w", err)
	}

	is.log.Info("Certificate issued",
		"certificate_id", cert.ID,
		"certificate_number", cert.CertificateNumber,
		"user_id", cert.UserID,
		"ce_hours", cert.CEHours,
	)

	is.writeAudit(ctx, cert, req)
	is.sendEmail(ctx, cert, profile, url, art.pdf)

	qrDataURL, err := certificates.QRDataURL(url)
	if err != nil {
		is.log.Warn("QR data url failed (ignored)", "certificate_number", cert.CertificateNumber, "error", err)
	}

	return &IssueResult{
		CertificateID:     cert.ID,
		CertificateNumber: cert.CertificateNumber,
		VerificationCode:  cert.VerificationCode,
		PDFURL:            cert.PDFURL,
		PreviewURL:        cert.PreviewURL,
		QRCodeDataURL:     qrDataURL,
		Certificate:       cert,
	}, nil
}

// renderAndUpload renders the PDF and preview and stores them. The preview is
// best effort; any PDF failure aborts.
func (is *issuanceService) renderAndUpload(ctx context.Context, userID uuid.UUID, rd certificates.RenderData) (artifacts, error) {
	pdf, err := certificates.RenderPDF(rd, is.cfg.Template)
	if err != nil {
		return artifacts{}, fmt.Errorf("render certificate: %w", err)
	}
	art := artifacts{
		pdf:    pdf,
		pdfKey: fmt.Sprintf("certificates/%s/%s.pdf", userID, rd.CertificateNumber),
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := is.bucket.UploadFile(dbc, gcp.BucketCategoryCertificate, art.pdfKey, bytes.NewReader(pdf)); err != nil {
		return artifacts{}, fmt.Errorf("upload certificate pdf: %w", err)
	}

	png, err := certificates.RenderPreview(rd, is.cfg.Template)
	if err != nil {
		is.log.Warn("Certificate preview render failed (ignored)", "certificate_number", rd.CertificateNumber, "error", err)
		return art, nil
	}
	previewKey := fmt.Sprintf("previews/%s/%s.png", userID, rd.CertificateNumber)
	if err := is.bucket.UploadFile(dbc, gcp.BucketCategoryPreview, previewKey, bytes.NewReader(png)); err != nil {
		is.log.Warn("Certificate preview upload failed (ignored)", "certificate_number", rd.CertificateNumber, "error", err)
		return art, nil
	}
	art.previewKey = previewKey
	return art, nil
}

// discard removes files whose certificate row was never written.
func (is *issuanceService) discard(ctx context.Context, art artifacts) {
	dbc := dbctx.Context{Ctx: ctx}
	if err := is.bucket.DeleteFile(dbc, gcp.BucketCategoryCertificate, art.pdfKey); err != nil {
		is.log.Warn("Orphaned certificate pdf not deleted", "key", art.pdfKey, "error", err)
	}
	if art.previewKey == "" {
		return
	}
	if err := is.bucket.DeleteFile(dbc, gcp.BucketCategoryPreview, art.previewKey); err != nil {
		is.log.Warn("Orphaned certificate preview not deleted", "key", art.previewKey, "error", err)
	}
}

func (is *issuanceService) writeAudit(ctx context.Context, cert *types.Certificate, req IssueRequest) {
	details, _ := json.Marshal(map[string]interface{}{
		"certificate_number": cert.CertificateNumber,
		"enrollment_id":      cert.EnrollmentID,
		"ce_hours":           cert.CEHours,
		"signing_hash":       cert.SigningHash,
	})
	entry := &types.CertificateAuditLog{
		CertificateID: cert.ID,
		Action:        types.AuditActionIssued,
		Details:       datatypes.JSON(details),
		CreatedAt:     is.now().UTC(),
	}
	if req.RequesterID != uuid.Nil {
		actor := req.RequesterID
		entry.ActorUserID = &actor
	}
	if err := is.auditRepo.Create(ctx, nil, entry); err != nil {
		is.log.Warn("Certificate audit log insert failed (ignored)", "certificate_id", cert.ID, "error", err)
	}
}

func (is *issuanceService) sendEmail(ctx context.Context, cert *types.Certificate, profile *types.Profile, url string, pdf []byte) {
	if is.mailer == nil || profile == nil || profile.User == nil {
		return
	}
	err := is.mailer.SendCertificateIssued(ctx, CertificateEmail{
		ToEmail:           profile.User.Email,
		ToName:            cert.StudentName,
		CourseTitle:       cert.CourseTitle,
		CertificateNumber: cert.CertificateNumber,
		VerificationCode:  cert.VerificationCode,
		VerificationURL:   url,
		CEHours:           certificates.FormatHours(cert.CEHours),
		PDF:               pdf,
	})
	if err != nil {
		is.log.Warn("Certificate email failed (ignored)", "certificate_id", cert.ID, "error", err)
	}
}
