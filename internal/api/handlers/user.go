package handlers

import (
	"zapdash/internal/api/constants"
	teamdto "zapdash/internal/api/dto/v1/team"
	"zapdash/internal/models"
	"zapdash/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler handles requests about the authenticated caller
type UserHandler struct{}

// NewUserHandler creates a new user handler instance
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile := c.MustGet(constants.ContextKeyProfile).(*models.Profile)
	utils.HandleSuccess(c, teamdto.ProfileResponse{
		ID:    profile.ID,
		Email: profile.Email,
		Role:  string(profile.Role),
	})
}
