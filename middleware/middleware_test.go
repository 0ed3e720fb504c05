package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ricci-ricci/backend/auth"
	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthService(t *testing.T) (*auth.Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return auth.NewService(st, auth.Hasher{Cost: bcrypt.MinCost}, auth.NewTokenManager("test-secret", time.Hour), nil), st
}

func issue(t *testing.T, svc *auth.Service, role models.Role) string {
	t.Helper()
	token, _, err := svc.Tokens().Issue(&models.User{ID: "u1", Email: "ada@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	svc, _ := newAuthService(t)
	r := gin.New()
	r.GET("/me", Authenticate(svc, "auth_token"), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: issue(t, svc, models.RoleUser)})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestAuthenticateRejectsMissingAndRevoked(t *testing.T) {
	svc, _ := newAuthService(t)
	r := gin.New()
	r.GET("/me", Authenticate(svc, "auth_token"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authenticated")

	token := issue(t, svc, models.RoleUser)
	require.NoError(t, svc.Logout(context.Background(), token))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestRequireAdmin(t *testing.T) {
	svc, _ := newAuthService(t)
	r := gin.New()
	r.GET("/admin", Authenticate(svc, "auth_token"), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for role, want := range map[models.Role]int{
		models.RoleUser:  http.StatusForbidden,
		models.RoleAdmin: http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: issue(t, svc, role)})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), internalErrorMessage)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestRecoveryHidesPanics(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), internalErrorMessage)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rl.Cleanup(-time.Second)
	assert.Empty(t, rl.visitors)
}

func TestValidateAPIKey(t *testing.T) {
	r := gin.New()
	r.GET("/metrics", ValidateAPIKey("k3y"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("X-API-KEY", "k3y")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
