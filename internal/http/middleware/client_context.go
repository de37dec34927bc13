package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/cecredit-backend/internal/platform/ctxutil"
)

// AttachClientContext records the caller's IP and user agent on the request
// context. RequireAuth keeps both when it adds the user.
func AttachClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
