package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiterEndpointOverrides(t *testing.T) {
	limiter := NewRateLimiter()

	login, ok := limiter.endpointLimits["/api/auth/login"]
	require.True(t, ok)
	assert.Less(t, login.limit, limiter.defaultLimit)

	posts, ok := limiter.endpointLimits["/api/posts"]
	require.True(t, ok)
	assert.Greater(t, posts.limit, limiter.defaultLimit)
}

func runRateLimited(t *testing.T, limiter *RateLimiter, target string) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(target)

	handler := limiter.RateLimit()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	return rec.Code
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	limiter := NewRateLimiter()

	// forgot-password allows a burst of 3 from a single IP
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, runRateLimited(t, limiter, "/api/auth/forgot-password"))
	}
	assert.Equal(t, http.StatusTooManyRequests, runRateLimited(t, limiter, "/api/auth/forgot-password"))

	// The IP stays blocked on subsequent requests
	assert.Equal(t, http.StatusTooManyRequests, runRateLimited(t, limiter, "/api/auth/forgot-password"))
}

func TestRateLimitSkipsUploads(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 100; i++ {
		assert.Equal(t, http.StatusOK, runRateLimited(t, limiter, "/uploads/avatar.png"))
	}
}
