package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wallspace/internal/domain"
	"wallspace/internal/pkg/jwt"
	"wallspace/internal/pkg/response"
)

// JWTAuth validates the bearer token and puts user_id and role on the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		tokenStr, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
			return
		}
		tokenStr = strings.TrimSpace(tokenStr)
		if tokenStr == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Empty token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// ActorFrom reads the authenticated caller set by JWTAuth.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: userID, Role: domain.UserRole(c.GetString("role"))}, true
}
