package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cecredit-backend/internal/http/response"
	"github.com/yungbote/cecredit-backend/internal/services"
)

// RateLimitByIP limits requests per client IP under the given key prefix.
func RateLimitByIP(prefix string, limiter services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		d := limiter.Allow(c.Request.Context(), prefix+":"+c.ClientIP())
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		if !d.Allowed {
			h.Set("Retry-After", strconv.Itoa(retryAfterSeconds(d.ResetAt, time.Now())))
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", services.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
