package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mavi-suporte/helpdesk-service/internal/middleware"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/security"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthFixture(t *testing.T) (*middleware.AuthMiddleware, string, string) {
	t.Helper()
	logger := zap.NewNop()
	st := store.NewMemoryStore()
	keys, err := security.NewKeyManager(testSecret)
	require.NoError(t, err)
	authSvc := service.NewAuthService(keys, st, logger)

	ctx := context.Background()
	_, err = authSvc.CreateUser(ctx, "admin", "senha-admin", "", model.RoleAdmin)
	require.NoError(t, err)
	_, err = authSvc.CreateUser(ctx, "comum", "senha-comum", "", "user")
	require.NoError(t, err)

	adminToken, err := authSvc.Login(ctx, "admin", "senha-admin")
	require.NoError(t, err)
	userToken, err := authSvc.Login(ctx, "comum", "senha-comum")
	require.NoError(t, err)

	return middleware.NewAuthMiddleware(authSvc, logger), adminToken, userToken
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authMW, adminToken, userToken := newAuthFixture(t)

	handlerRuns := 0
	r := gin.New()
	r.PUT("/guarded", authMW.RequireAdmin, func(c *gin.Context) {
		handlerRuns++
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/guarded", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("no token", func(t *testing.T) {
		w := do("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, handlerRuns)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := do("not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, handlerRuns)
	})

	// A valid token without the admin role must be rejected before the
	// guarded handler executes, not after.
	t.Run("non-admin token", func(t *testing.T) {
		w := do(userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 0, handlerRuns)
	})

	t.Run("admin token", func(t *testing.T) {
		w := do(adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, handlerRuns)
	})
}

func TestAuthenticateStoresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authMW, adminToken, _ := newAuthFixture(t)

	r := gin.New()
	r.GET("/me", authMW.Authenticate, func(c *gin.Context) {
		u := middleware.UserFrom(c)
		require.NotNil(t, u)
		c.JSON(http.StatusOK, gin.H{"username": u.Username})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}
