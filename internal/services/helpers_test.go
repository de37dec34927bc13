package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cecredit-backend/internal/certificates"
	"github.com/yungbote/cecredit-backend/internal/data/repos"
	"github.com/yungbote/cecredit-backend/internal/data/repos/testutil"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/platform/ctxutil"
	"github.com/yungbote/cecredit-backend/internal/platform/dbctx"
	"github.com/yungbote/cecredit-backend/internal/platform/gcp"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) path(cat gcp.BucketCategory, key string) string {
	return string(cat) + "/" + key
}

func (b *fakeBucket) UploadFile(dbc dbctx.Context, cat gcp.BucketCategory, key string, file io.Reader) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	raw, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[b.path(cat, key)] = raw
	return nil
}

func (b *fakeBucket) DeleteFile(dbc dbctx.Context, cat gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, b.path(cat, key))
	b.deleted = append(b.deleted, b.path(cat, key))
	return nil
}

func (b *fakeBucket) DownloadFile(ctx context.Context, cat gcp.BucketCategory, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.objects[b.path(cat, key)]
	if !ok {
		return nil, gcp.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (b *fakeBucket) GetPublicURL(cat gcp.BucketCategory, key string) string {
	return "https://storage.test/" + b.path(cat, key)
}

func (b *fakeBucket) Close() error { return nil }

func (b *fakeBucket) get(cat gcp.BucketCategory, key string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[b.path(cat, key)]
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []CertificateEmail
	err  error
}

func (m *fakeMailer) SendCertificateIssued(ctx context.Context, msg CertificateEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type failingAuditRepo struct {
	repos.CertificateAuditLogRepo
}

func (failingAuditRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.CertificateAuditLog) error {
	return errors.New("audit table unavailable")
}

type deps struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repos.UserRepo
	profiles  repos.ProfileRepo
	courses   repos.CourseRepo
	lessons   repos.LessonRepo
	enrolls   repos.EnrollmentRepo
	questions repos.QuizQuestionRepo
	attempts  repos.QuizAttemptRepo
	certs     repos.CertificateRepo
	verifies  repos.VerificationAttemptRepo
	audits    repos.CertificateAuditLogRepo
	bucket    *fakeBucket
	mailer    *fakeMailer
	signer    *certificates.Signer
}

func newDeps(t *testing.T) *deps {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	signer, err := certificates.NewSigner("test-signing-secret")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	return &deps{
		db:        db,
		log:       log,
		users:     repos.NewUserRepo(db, log),
		profiles:  repos.NewProfileRepo(db, log),
		courses:   repos.NewCourseRepo(db, log),
		lessons:   repos.NewLessonRepo(db, log),
		enrolls:   repos.NewEnrollmentRepo(db, log),
		questions: repos.NewQuizQuestionRepo(db, log),
		attempts:  repos.NewQuizAttemptRepo(db, log),
		certs:     repos.NewCertificateRepo(db, log),
		verifies:  repos.NewVerificationAttemptRepo(db, log),
		audits:    repos.NewCertificateAuditLogRepo(db, log),
		bucket:    newFakeBucket(),
		mailer:    &fakeMailer{},
		signer:    signer,
	}
}

func (d *deps) issuance(now time.Time) *issuanceService {
	svc := NewIssuanceService(d.db, d.log, d.enrolls, d.profiles, d.courses, d.certs, d.audits,
		d.bucket, d.mailer, d.signer, IssuanceConfig{PublicBaseURL: "https://ce.example.com"}).(*issuanceService)
	svc.now = func() time.Time { return now }
	return svc
}

func asUser(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

func uniqueEmail() string {
	return fmt.Sprintf("learner-%s@example.com", uuid.NewString()[:8])
}
