package middleware

import (
	"net/http"
	"strings"

	"innkeep/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthMiddleware verifies the bearer token issued by the auth provider and stores its
// subject under utils.UserIDKey.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.GetLogger().Debug("Token rejected", zap.Error(err), zap.String("ip", getClientIP(c)))
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token", "")
			return
		}

		c.Set(utils.UserIDKey, claims.Subject)
		c.Next()
	}
}

// CallerID returns the authenticated subject set by JWTAuthMiddleware.
func CallerID(c *gin.Context) string {
	return c.GetString(utils.UserIDKey)
}
