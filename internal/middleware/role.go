package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"wallspace/internal/domain"
	"wallspace/internal/pkg/response"
)

// RequireRole lets the request through when the caller has one of roles. Admins always pass.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("role")
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		role := domain.UserRole(raw.(string))
		if role != domain.RoleAdmin && !slices.Contains(roles, role) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
