package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cecredit-backend/internal/platform/apierr"
	"github.com/yungbote/cecredit-backend/internal/services"
)

type VerificationHandler struct {
	verificationService services.VerificationService
}

func NewVerificationHandler(verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// GET /api/verify-certificate?cert=<number>&code=<code>
//
// The body is always a verification result. The status tells the caller
// whether the lookup was malformed, throttled, unknown or answered.
func (h *VerificationHandler) Verify(c *gin.Context) {
	res, err := h.verificationService.Verify(c.Request.Context(), services.VerifyRequest{
		CertificateNumber: c.Query("cert"),
		VerificationCode:  c.Query("code"),
		IPAddress:         c.ClientIP(),
		UserAgent:         c.Request.UserAgent(),
	})
	if res == nil {
		res = &services.VerifyResult{Valid: false}
	}
	status := http.StatusOK
	if err != nil {
		status, _ = apierr.From(err)
		if status == http.StatusInternalServerError {
			_ = c.Error(err)
		}
	}
	if status == http.StatusTooManyRequests && res.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(res.RetryAfter))
	}
	c.JSON(status, res)
}
