package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
	"go.uber.org/zap"
)

const userContextKey = "user"

// AuthMiddleware gates routes behind JWT bearer tokens.
type AuthMiddleware struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthMiddleware(auth *service.AuthService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, logger: logger}
}

// Authenticate requires a valid bearer token and stores the user in the
// request context. It never calls c.Next itself so it can run as a plain
// pre-check inside composed handlers like RequireAdmin; gin continues the
// chain on its own when the context is not aborted.
func (m *AuthMiddleware) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
		return
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
		return
	}
	user, err := m.auth.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	c.Set(userContextKey, user)
}

// RequireAdmin runs Authenticate and then checks the admin role.
func (m *AuthMiddleware) RequireAdmin(c *gin.Context) {
	m.Authenticate(c)
	if c.IsAborted() {
		return
	}
	user := UserFrom(c)
	if !m.auth.IsAdmin(user) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
	}
}

// UserFrom returns the authenticated user stored by Authenticate, or nil.
func UserFrom(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
