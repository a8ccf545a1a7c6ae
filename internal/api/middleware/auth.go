package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coderRohan123/tempdescription/internal/logger"
	"github.com/coderRohan123/tempdescription/internal/service"
)

// ContextUserIDKey is the gin context key holding the authenticated user ID.
const ContextUserIDKey = "user_id"

// RequireAuth returns a middleware that rejects requests without a valid
// Bearer access token and stores the caller's user ID in the context.
// Parameters:
//   - auth: auth service used to verify tokens.
// Returns:
//   - gin.HandlerFunc: middleware handler.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is missing"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := auth.VerifyAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)

		// Propagate the user ID to downstream logging
		ctx := logger.SetUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserID extracts the authenticated user ID stored by RequireAuth.
// Parameters:
//   - c: Gin request context.
// Returns:
//   - string: user ID, empty if the request is unauthenticated.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
