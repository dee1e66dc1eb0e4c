package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/service"
)

// ContextAdmin holds the *service.AdminIdentity set by RequireAdmin
const ContextAdmin = "admin"

// RequireAdmin admits only callers whose profile carries the admin flag.
// It must run after Auth.
func RequireAdmin(identity service.IdentityService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uuid.UUID
		if v, ok := c.Get(ContextUserID); ok {
			userID, _ = v.(uuid.UUID)
		}

		admin, err := identity.ResolveAdmin(c.Request.Context(), userID)
		if err != nil {
			var appErr *response.AppError
			if !errors.As(err, &appErr) {
				appErr = response.NewInternalError("Failed to verify admin access", err)
			}
			status := http.StatusForbidden
			switch appErr.Code {
			case response.ErrCodeUnauthorized:
				status = http.StatusUnauthorized
			case response.ErrCodeInternal:
				status = http.StatusInternalServerError
				logger.Error("Admin check failed", zap.String("user_id", userID.String()), zap.Error(err))
			default:
				logger.Warn("Admin access denied",
					zap.String("user_id", userID.String()),
					zap.String("path", c.Request.URL.Path),
					zap.String("reason", appErr.Details),
				)
			}
			response.AbortWithError(c, status, appErr.Code, appErr.Message)
			return
		}

		c.Set(ContextAdmin, admin)
		c.Next()
	}
}
