package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cecredit-backend/internal/http/response"
	"github.com/yungbote/cecredit-backend/internal/platform/apierr"
)

var errInternal = errors.New("internal server error")

// respondServiceError writes err with the status it carries. Errors without
// a status are reported as a bare 500.
func respondServiceError(c *gin.Context, err error) {
	status, code := apierr.From(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		response.RespondError(c, status, code, errInternal)
		return
	}
	response.RespondError(c, status, code, err)
}
