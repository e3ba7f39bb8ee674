package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/invoicing/backend/internal/infrastructure/auth"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-at-least-32-chars"

func newJWTTestRouter(t *testing.T, scope string) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	svc := auth.NewJWTService(config.AuthConfig{Secret: testSecret, Issuer: "invoicing"})

	r := gin.New()
	r.Use(RequestID(), JWTAuth(DefaultJWTConfig(svc)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/invoices", RequireScope(scope), func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetSubject(c.Request.Context()))
	})
	return r, svc
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	return req
}

func TestJWTAuth(t *testing.T) {
	r, svc := newJWTTestRouter(t, auth.ScopeInvoicesRead)

	t.Run("valid token passes and tags the subject", func(t *testing.T) {
		token, _, err := svc.GenerateToken("billing-ui", []string{auth.ScopeInvoicesRead}, time.Minute)
		require.NoError(t, err)

		w := serve(r, bearer(httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil), token))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "billing-ui", w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, w).Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
		req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")

		w := serve(r, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		token, _, err := svc.GenerateToken("billing-ui", []string{auth.ScopeInvoicesRead}, time.Minute)
		require.NoError(t, err)

		w := serve(r, bearer(httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil), token+"x"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", decodeError(t, w).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "billing-ui",
			Issuer:    "invoicing",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		w := serve(r, bearer(httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil), token))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, w).Code)
	})

	t.Run("health is public", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireScope(t *testing.T) {
	r, svc := newJWTTestRouter(t, auth.ScopeInvoicesWrite)
	token, _, err := svc.GenerateToken("reporting", []string{auth.ScopeInvoicesRead}, time.Minute)
	require.NoError(t, err)

	w := serve(r, bearer(httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil), token))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, w).Code)
}

func TestRequireScope_WithoutAuthentication(t *testing.T) {
	r := gin.New()
	r.GET("/test", RequireScope(auth.ScopeInvoicesRead), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
