package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtected(jwtService jwt.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
	r.Use(AuthRequired(jwtService))
	r.Use(Actor)
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(audit.ActorFromContext(r.Context())))
	})
	r.With(AdminOnly).Post("/admin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour)
	h := newProtected(svc)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/me", "not-a-token").Code)

	token, exp, err := svc.GenerateAccessToken("u1", "hr@example.com", false)
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hr@example.com", rec.Body.String())

	svc.RevokeToken(token, exp)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/me", token).Code)
}

func TestAdminOnly(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour)
	h := newProtected(svc)

	viewer, _, err := svc.GenerateAccessToken("u1", "viewer@example.com", false)
	require.NoError(t, err)
	admin, _, err := svc.GenerateAccessToken("u2", "admin@example.com", true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPost, "/admin", viewer).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/admin", admin).Code)
}
