package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"github.com/yungbote/cecredit-backend/internal/services"
)

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := services.NewRateLimiter(logger.Nop(), services.NewMemoryCounterStore(), 2, time.Minute)

	r := gin.New()
	r.GET("/api/courses", RateLimitByIP("courses", limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("198.51.100.1").Code)
	second := call("198.51.100.1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "2", second.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := call("198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Contains(t, third.Body.String(), `"code":"rate_limited"`)
	retry, err := strconv.Atoi(third.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.True(t, retry >= 1 && retry <= 60, "Retry-After=%d", retry)

	assert.Equal(t, http.StatusOK, call("198.51.100.2").Code)
}

func TestRateLimitNilLimiterPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RateLimitByIP("x", nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRetryAfterSeconds(t *testing.T) {
	now := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, retryAfterSeconds(now.Add(29500*time.Millisecond), now))
	assert.Equal(t, 1, retryAfterSeconds(now.Add(-time.Second), now))
}
