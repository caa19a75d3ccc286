// Package middleware holds the gin middleware for session auth, admin
// authorization, and request telemetry.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authservice "reactiquiz/backend/internal/auth/service"
	"reactiquiz/backend/internal/authz"
	userdomain "reactiquiz/backend/internal/user/domain"
)

// userKey is the gin context key holding the authenticated *userdomain.User.
const userKey = "auth.user"

// RequireSession extracts the bearer token, validates it against the store,
// and puts the resolved user into the request context. Every request
// re-resolves the token; there is no per-request caching of identity.
func RequireSession(auth *authservice.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authservice.ErrUnauthenticated.Error()})
			return
		}
		user, err := auth.ValidateSession(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, authservice.ErrSessionExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authservice.ErrSessionExpired.Error()})
			case errors.Is(err, authservice.ErrUnauthenticated):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authservice.ErrUnauthenticated.Error()})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin gates a route on the admin policy. Must run after RequireSession.
func RequireAdmin(evaluator *authz.Evaluator, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authservice.ErrUnauthenticated.Error()})
			return
		}
		allowed, err := evaluator.Allow(c.Request.Context(), user, action, resource)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireSession, or nil.
func CurrentUser(c *gin.Context) *userdomain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*userdomain.User)
	return user
}

// bearerToken extracts the token from an Authorization header; "" if absent
// or malformed.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
