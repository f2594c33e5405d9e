package ginserver

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/services/auth"
	domainauth "stayfinder/internal/domain/auth"
	domainuser "stayfinder/internal/domain/user"
)

const principalContextKey = "stayfinder.principal"

type principal struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      domainuser.Role
	Token     string
	CreatedAt time.Time
}

func (p principal) HasRole(role domainuser.Role) bool {
	return p.Role == role
}

// AuthMiddleware resolves the bearer token into a principal. Requests
// without a valid token pass through anonymous; per-route guards decide
// whether that is acceptable.
type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	user := resolved.User
	setPrincipal(c, principal{
		ID:        string(user.ID),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Token:     token,
		CreatedAt: user.CreatedAt,
	})
	c.Next()
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// requireRole fetches the principal and enforces the role, writing the
// 401/403 itself when the check fails. Admins pass every role gate.
func requireRole(c *gin.Context, role domainuser.Role) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		unauthorized(c)
		return principal{}, false
	}
	if role != "" && !p.HasRole(role) && !p.HasRole(domainuser.RoleAdmin) {
		forbidden(c)
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func bearerTokenFromContext(c *gin.Context) string {
	if p, ok := currentPrincipal(c); ok && p.Token != "" {
		return p.Token
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}
