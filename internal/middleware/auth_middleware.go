package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"school_ops_backend/internal/inventory"
	"school_ops_backend/pkg/utils"
)

// RequestID assigns each request a correlation id, echoed in the
// X-Request-ID response header and in the request log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(utils.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// AuthMiddleware validates the bearer token and places the caller's role
// context into the request context for downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized,
				utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized,
				utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized,
				utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		c.Set(utils.RoleContextKey, inventory.RoleContext{
			Role:      inventory.RoleFromAdminFlag(claims.IsAdmin),
			UserID:    claims.UserID,
			UserName:  claims.Username,
			SchoolIDs: claims.SchoolIDs,
		})
		c.Next()
	}
}

// RoleContextFrom extracts the role context set by AuthMiddleware.
func RoleContextFrom(c *gin.Context) (inventory.RoleContext, bool) {
	value, exists := c.Get(utils.RoleContextKey)
	if !exists {
		return inventory.RoleContext{}, false
	}
	rc, ok := value.(inventory.RoleContext)
	return rc, ok
}

// AdminOnly rejects requests whose role context is not an administrator.
// Services re-check capabilities defensively, so this is the first gate,
// not the only one.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := RoleContextFrom(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden,
				utils.ErrCodeForbidden, "Role context missing. Ensure AuthMiddleware runs first.", ""))
			return
		}
		if !rc.IsAdmin() {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden,
				utils.ErrCodeForbidden, "You do not have permission to access this resource", ""))
			return
		}
		c.Next()
	}
}
