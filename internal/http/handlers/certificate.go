package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cecredit-backend/internal/http/response"
	"github.com/yungbote/cecredit-backend/internal/platform/ctxutil"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"github.com/yungbote/cecredit-backend/internal/services"
)

type CertificateHandler struct {
	log                *logger.Logger
	issuanceService    services.IssuanceService
	certificateService services.CertificateService
}

func NewCertificateHandler(
	log *logger.Logger,
	issuanceService services.IssuanceService,
	certificateService services.CertificateService,
) *CertificateHandler {
	return &CertificateHandler{
		log:                log.With("handler", "CertificateHandler"),
		issuanceService:    issuanceService,
		certificateService: certificateService,
	}
}

// POST /api/certificates/generate
func (h *CertificateHandler) Generate(c *gin.Context) {
	var req struct {
		EnrollmentID string `json:"enrollmentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	enrollmentID, err := uuid.Parse(req.EnrollmentID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", errors.New("enrollmentId must be a uuid"))
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		respondServiceError(c, services.ErrUnauthenticated)
		return
	}

	res, err := h.issuanceService.Issue(c.Request.Context(), services.IssueRequest{
		EnrollmentID: enrollmentID,
		RequesterID:  rd.UserID,
	})
	if err != nil {
		h.log.Warn("Certificate generation failed", "enrollment_id", enrollmentID, "error", err)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":           true,
		"certificateId":     res.CertificateID,
		"certificateNumber": res.CertificateNumber,
		"verificationCode":  res.VerificationCode,
		"pdfUrl":            res.PDFURL,
		"qrCode":            res.QRCodeDataURL,
	})
}

// GET /api/certificates
func (h *CertificateHandler) ListMine(c *gin.Context) {
	certs, err := h.certificateService.ListMine(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"certificates": certs})
}

// GET /api/certificates/:id
func (h *CertificateHandler) GetMine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_certificate_id", err)
		return
	}
	cert, err := h.certificateService.GetMine(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"certificate": cert})
}
