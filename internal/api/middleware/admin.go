package middleware

import (
	"net/http"

	"zapdash/internal/api/constants"
	"zapdash/internal/api/dto/common"
	"zapdash/internal/logging"
	"zapdash/internal/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin ensures the authenticated caller has the admin role.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := logging.GetGlobalLogger()

		value, exists := c.Get(constants.ContextKeyProfile)
		if !exists {
			logger.Warn("Admin access attempted without authenticated user")
			c.JSON(http.StatusUnauthorized, common.NewErrorResponse(common.ErrCodeUnauthorized, "Authentication required", nil))
			c.Abort()
			return
		}

		profile, ok := value.(*models.Profile)
		if !ok {
			logger.Error("Invalid profile type in context during admin check")
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(common.ErrCodeInternalServer, "Internal server error", nil))
			c.Abort()
			return
		}

		if !profile.IsAdmin() {
			logger.Warn("Non-admin user attempted admin action: userID=%s email=%s role=%s",
				profile.ID, profile.Email, profile.Role)
			c.JSON(http.StatusForbidden, common.NewErrorResponse(common.ErrCodeForbidden, "Admin access required", nil))
			c.Abort()
			return
		}

		c.Next()
	}
}
