package middleware

import (
	"net/http"
	"strings"

	"zapdash/internal/api/constants"
	"zapdash/internal/api/dto/common"
	"zapdash/internal/config/firebase"
	"zapdash/internal/logging"
	"zapdash/internal/repository"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware authenticates requests against the identity provider and
// resolves the caller's local profile.
type AuthMiddleware struct {
	profiles repository.ProfileRepository
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(profiles repository.ProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{profiles: profiles}
}

// RequireAuth verifies the bearer token and loads (provisioning on first
// sight) the caller's profile. Unauthenticated callers are rejected before
// any handler side effect.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, common.NewErrorResponse(common.ErrCodeUnauthorized, "Authentication required", nil))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, common.NewErrorResponse(common.ErrCodeUnauthorized, "Invalid authorization header format", nil))
			c.Abort()
			return
		}

		token, err := firebase.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, common.NewErrorResponse(common.ErrCodeUnauthorized, "Invalid token", nil))
			c.Abort()
			return
		}

		// Some token flavors (custom tokens, phone sign-in) carry no email
		// claim; fall back to the provider's user record.
		email, _ := token.Claims["email"].(string)
		if email == "" {
			if user, err := firebase.GetUserByUID(c.Request.Context(), token.UID); err == nil {
				email = user.Email
			}
		}

		profile, err := m.profiles.GetOrCreate(c.Request.Context(), token.UID, email)
		if err != nil {
			logging.GetGlobalLogger().Error("Failed to resolve profile for uid=%s: %v", token.UID, err)
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(common.ErrCodeInternalServer, "Failed to resolve user profile", nil))
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProfile, profile)
		c.Set(constants.ContextKeyUserID, profile.ID)
		c.Next()
	}
}
