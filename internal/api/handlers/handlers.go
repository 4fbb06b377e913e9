package handlers

import (
	"zapdash/internal/api/constants"
	"zapdash/internal/models"
	"zapdash/internal/repository"

	"github.com/gin-gonic/gin"
)

// currentViewer reads the authenticated profile set by RequireAuth and turns
// it into the explicit access-policy input the services expect.
func currentViewer(c *gin.Context) repository.Viewer {
	profile := c.MustGet(constants.ContextKeyProfile).(*models.Profile)
	return repository.Viewer{
		UserID:  profile.ID,
		IsAdmin: profile.IsAdmin(),
	}
}
