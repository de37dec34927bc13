package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/learning/quiz"
	"github.com/yungbote/cecredit-backend/internal/platform/ctxutil"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"github.com/yungbote/cecredit-backend/internal/services"
)

type mockIssuance struct{ mock.Mock }

func (m *mockIssuance) Issue(ctx context.Context, req services.IssueRequest) (*services.IssueResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.IssueResult)
	return res, args.Error(1)
}

type mockCertificates struct{ mock.Mock }

func (m *mockCertificates) ListMine(ctx context.Context) ([]*types.Certificate, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*types.Certificate)
	return res, args.Error(1)
}

func (m *mockCertificates) GetMine(ctx context.Context, id uuid.UUID) (*types.Certificate, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*types.Certificate)
	return res, args.Error(1)
}

func (m *mockCertificates) Revoke(ctx context.Context, number, reason string, actor *uuid.UUID) (*types.Certificate, error) {
	args := m.Called(ctx, number, reason, actor)
	res, _ := args.Get(0).(*types.Certificate)
	return res, args.Error(1)
}

func (m *mockCertificates) VerifyHash(ctx context.Context, number string) (*services.HashCheck, error) {
	args := m.Called(ctx, number)
	res, _ := args.Get(0).(*services.HashCheck)
	return res, args.Error(1)
}

func (m *mockCertificates) AuditTrail(ctx context.Context, number string) ([]*types.CertificateAuditLog, error) {
	args := m.Called(ctx, number)
	res, _ := args.Get(0).([]*types.CertificateAuditLog)
	return res, args.Error(1)
}

type mockVerification struct{ mock.Mock }

func (m *mockVerification) Verify(ctx context.Context, req services.VerifyRequest) (*services.VerifyResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.VerifyResult)
	return res, args.Error(1)
}

type mockQuiz struct{ mock.Mock }

func (m *mockQuiz) Submit(ctx context.Context, lessonID uuid.UUID, answers map[string]quiz.Values) (*services.QuizSubmission, error) {
	args := m.Called(ctx, lessonID, answers)
	res, _ := args.Get(0).(*services.QuizSubmission)
	return res, args.Error(1)
}

// withUser stands in for RequireAuth.
func withUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: id})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGenerateCertificate(t *testing.T) {
	userID := uuid.New()
	enrollmentID := uuid.New()
	certID := uuid.New()

	issuance := &mockIssuance{}
	issuance.On("Issue", mock.Anything, services.IssueRequest{EnrollmentID: enrollmentID, RequesterID: userID}).
		Return(&services.IssueResult{
			CertificateID:     certID,
			CertificateNumber: "ETHICS-101-20240517-001",
			VerificationCode:  "ABCDEFGHJKLM",
			PDFURL:            "https://storage.test/certificates/x.pdf",
			QRCodeDataURL:     "data:image/png;base64,iVBORw0KGgo=",
		}, nil)

	h := NewCertificateHandler(logger.Nop(), issuance, &mockCertificates{})
	r := newEngine()
	r.POST("/api/certificates/generate", withUser(userID), h.Generate)

	rec := doJSON(r, http.MethodPost, "/api/certificates/generate", `{"enrollmentId":"`+enrollmentID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, certID.String(), body["certificateId"])
	assert.Equal(t, "ETHICS-101-20240517-001", body["certificateNumber"])
	assert.Equal(t, "ABCDEFGHJKLM", body["verificationCode"])
	assert.Equal(t, "https://storage.test/certificates/x.pdf", body["pdfUrl"])
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", body["qrCode"])
	issuance.AssertExpectations(t)
}

func TestGenerateCertificateErrors(t *testing.T) {
	userID := uuid.New()
	enrollmentID := uuid.New()

	tests := []struct {
		name       string
		body       string
		user       bool
		issueErr   error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed body", body: `{`, user: true, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "bad id", body: `{"enrollmentId":"nope"}`, user: true, wantStatus: http.StatusBadRequest, wantCode: "invalid_enrollment_id"},
		{name: "no caller", body: `{"enrollmentId":"` + enrollmentID.String() + `"}`, wantStatus: http.StatusUnauthorized, wantCode: "unauthenticated"},
		{name: "not found", body: `{"enrollmentId":"` + enrollmentID.String() + `"}`, user: true, issueErr: services.ErrEnrollmentNotFound, wantStatus: http.StatusNotFound, wantCode: "enrollment_not_found"},
		{name: "not owned", body: `{"enrollmentId":"` + enrollmentID.String() + `"}`, user: true, issueErr: services.ErrEnrollmentNotOwned, wantStatus: http.StatusForbidden, wantCode: "enrollment_forbidden"},
		{name: "incomplete", body: `{"enrollmentId":"` + enrollmentID.String() + `"}`, user: true, issueErr: services.ErrEnrollmentIncomplete, wantStatus: http.StatusBadRequest, wantCode: "enrollment_incomplete"},
		{name: "storage down", body: `{"enrollmentId":"` + enrollmentID.String() + `"}`, user: true, issueErr: errors.New("upload pdf: bucket unreachable"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issuance := &mockIssuance{}
			if tc.issueErr != nil {
				issuance.On("Issue", mock.Anything, mock.Anything).Return(nil, tc.issueErr)
			}
			h := NewCertificateHandler(logger.Nop(), issuance, &mockCertificates{})
			r := newEngine()
			if tc.user {
				r.POST("/gen", withUser(userID), h.Generate)
			} else {
				r.POST("/gen", h.Generate)
			}

			rec := doJSON(r, http.MethodPost, "/gen", tc.body)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			errBody, _ := decode(t, rec)["error"].(map[string]any)
			require.NotNil(t, errBody)
			assert.Equal(t, tc.wantCode, errBody["code"])
			assert.NotContains(t, rec.Body.String(), "bucket unreachable")
			issuance.AssertExpectations(t)
		})
	}
}

func TestGetCertificate(t *testing.T) {
	userID := uuid.New()
	certID := uuid.New()
	certs := &mockCertificates{}
	certs.On("GetMine", mock.Anything, certID).Return(&types.Certificate{
		ID:                certID,
		CertificateNumber: "ETHICS-101-20240517-001",
		VerificationCode:  "ABCDEFGHJKLM",
		SigningHash:       "deadbeef",
	}, nil)
	certs.On("ListMine", mock.Anything).Return([]*types.Certificate{}, nil)

	h := NewCertificateHandler(logger.Nop(), &mockIssuance{}, certs)
	r := newEngine()
	r.GET("/api/certificates", withUser(userID), h.ListMine)
	r.GET("/api/certificates/:id", withUser(userID), h.GetMine)

	rec := doJSON(r, http.MethodGet, "/api/certificates/"+certID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ETHICS-101-20240517-001")
	assert.NotContains(t, rec.Body.String(), "ABCDEFGHJKLM")
	assert.NotContains(t, rec.Body.String(), "deadbeef")

	rec = doJSON(r, http.MethodGet, "/api/certificates/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodGet, "/api/certificates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"certificates":[]}`, rec.Body.String())
}

func TestVerifyCertificateStatuses(t *testing.T) {
	valid := &services.VerifyResult{Valid: true, CertificateNumber: "ETHICS-101-20240517-001", CourseTitle: "Ethics 101"}
	tests := []struct {
		name           string
		query          string
		res            *services.VerifyResult
		err            error
		wantStatus     int
		wantValid      bool
		wantRetryAfter string
	}{
		{name: "valid", query: "?cert=ETHICS-101-20240517-001&code=ABCDEFGHJKLM", res: valid, wantStatus: http.StatusOK, wantValid: true},
		{name: "missing", query: "?cert=X", res: &services.VerifyResult{Reason: "missing_parameters"}, err: services.ErrMissingVerifyParams, wantStatus: http.StatusBadRequest},
		{name: "throttled", query: "?cert=X&code=Y", res: &services.VerifyResult{Reason: "rate_limited", RetryAfter: 900}, err: services.ErrTooManyAttempts, wantStatus: http.StatusTooManyRequests, wantRetryAfter: "900"},
		{name: "unknown", query: "?cert=X&code=Y", res: &services.VerifyResult{Reason: "not_found"}, err: services.ErrVerificationFailed, wantStatus: http.StatusNotFound},
		{name: "revoked", query: "?cert=X&code=Y", res: &services.VerifyResult{Revoked: true, Reason: "Revoked"}, wantStatus: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockVerification{}
			svc.On("Verify", mock.Anything, mock.MatchedBy(func(req services.VerifyRequest) bool {
				return req.IPAddress == "192.0.2.10" && req.UserAgent == "verifier/1.0"
			})).Return(tc.res, tc.err)

			r := newEngine()
			r.GET("/api/verify-certificate", NewVerificationHandler(svc).Verify)

			req := httptest.NewRequest(http.MethodGet, "/api/verify-certificate"+tc.query, nil)
			req.RemoteAddr = "192.0.2.10:40000"
			req.Header.Set("User-Agent", "verifier/1.0")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.wantValid, body["valid"])
			assert.Equal(t, tc.wantRetryAfter, rec.Header().Get("Retry-After"))
			svc.AssertExpectations(t)
		})
	}
}

func TestQuizSubmit(t *testing.T) {
	lessonID := uuid.New()
	svc := &mockQuiz{}
	svc.On("Submit", mock.Anything, lessonID, map[string]quiz.Values{
		"q1": {"b"},
		"q2": {"a", "c"},
	}).Return(&services.QuizSubmission{Score: 100, Passed: true, CEEligible: true, Breakdown: []quiz.QuestionResult{}}, nil)
	svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, services.ErrQuizNotFound)

	r := newEngine()
	r.POST("/api/lessons/:id/quiz", withUser(uuid.New()), NewQuizHandler(svc).Submit)

	rec := doJSON(r, http.MethodPost, "/api/lessons/"+lessonID.String()+"/quiz", `{"answers":{"q1":"b","q2":["a","c"]}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["passed"])
	assert.Equal(t, true, body["ceEligible"])

	rec = doJSON(r, http.MethodPost, "/api/lessons/"+uuid.NewString()+"/quiz", `{"answers":{}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(r, http.MethodPost, "/api/lessons/abc/quiz", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	r := newEngine()
	r.GET("/ok", NewHealthHandler(func(context.Context) error { return nil }).HealthCheck)
	r.GET("/down", NewHealthHandler(func(context.Context) error { return errors.New("dial tcp: refused") }).HealthCheck)

	rec := doJSON(r, http.MethodGet, "/ok", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doJSON(r, http.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
