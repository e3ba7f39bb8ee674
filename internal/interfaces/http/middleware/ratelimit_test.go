package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ok, remaining := limiter.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining = limiter.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _ = limiter.Allow("a")
	assert.False(t, ok)

	ok, _ = limiter.Allow("b")
	assert.True(t, ok, "clients are limited separately")

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow("a")
	assert.True(t, ok, "a new window restores the budget")
}

func TestRateLimit_Middleware(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	r := newTestRouter(RequestID(), RateLimit(limiter))

	first := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	errInfo := decodeError(t, second)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", errInfo.Code)
	assert.NotEmpty(t, errInfo.RequestID)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewRateLimiter(1, time.Millisecond)
	limiter.Stop()
	limiter.Stop()
}
