package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deepthinker-backend/pkg/auth"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, *auth.JWTValidator) {
	t.Helper()
	validator := auth.NewJWTValidator(auth.JWTConfig{
		Secret: "test-secret",
		Issuer: "deepthinker",
	})
	return NewAuthenticator(
		validator,
		auth.NewIPRateLimiter(1000),
		auth.NewUserRateLimiter(1000),
		zap.NewNop(),
	), validator
}

func capturedUser(t *testing.T) (http.Handler, **auth.UserContext) {
	t.Helper()
	var captured *auth.UserContext
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		require.True(t, ok)
		captured = user
		w.WriteHeader(http.StatusOK)
	})
	return handler, &captured
}

func TestRequireUser_ValidToken(t *testing.T) {
	authenticator, validator := newTestAuthenticator(t)
	handler, captured := capturedUser(t)

	token, err := validator.IssueToken("user123", "ada@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	authenticator.RequireUser(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, *captured)
	assert.Equal(t, "user123", (*captured).UserID)
	assert.Equal(t, "ada@example.com", (*captured).Email)
}

func TestRequireUser_MissingToken(t *testing.T) {
	authenticator, _ := newTestAuthenticator(t)
	handler, _ := capturedUser(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()

	authenticator.RequireUser(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authentication token")
}

func TestRequireUser_IgnoresSessionHeader(t *testing.T) {
	authenticator, _ := newTestAuthenticator(t)
	handler, _ := capturedUser(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
	req.Header.Set("X-Session-ID", "abc-123")
	rec := httptest.NewRecorder()

	authenticator.RequireUser(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAllowSession_AnonymousSession(t *testing.T) {
	authenticator, _ := newTestAuthenticator(t)
	handler, captured := capturedUser(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.Header.Set("X-Session-ID", "abc-123")
	rec := httptest.NewRecorder()

	authenticator.AllowSession(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, *captured)
	assert.Equal(t, auth.SessionUserID("abc-123"), (*captured).UserID)
	assert.True(t, auth.IsSessionUser((*captured).UserID))
}

func TestAllowSession_TokenWinsOverSession(t *testing.T) {
	authenticator, validator := newTestAuthenticator(t)
	handler, captured := capturedUser(t)

	token, err := validator.IssueToken("user123", "ada@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Session-ID", "abc-123")
	rec := httptest.NewRecorder()

	authenticator.AllowSession(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, *captured)
	assert.Equal(t, "user123", (*captured).UserID)
}

func TestAllowSession_NoCredentials(t *testing.T) {
	authenticator, _ := newTestAuthenticator(t)
	handler, _ := capturedUser(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	rec := httptest.NewRecorder()

	authenticator.AllowSession(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
