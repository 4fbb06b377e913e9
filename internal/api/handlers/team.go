package handlers

import (
	"strconv"

	"zapdash/internal/api/dto/common"
	teamdto "zapdash/internal/api/dto/v1/team"
	"zapdash/internal/api/mapper"
	"zapdash/internal/logging"
	"zapdash/internal/service"
	"zapdash/internal/utils"

	"github.com/gin-gonic/gin"
)

// TeamHandler handles team-related HTTP requests
type TeamHandler struct {
	teamService service.TeamService
}

// NewTeamHandler creates a new team handler instance
func NewTeamHandler(teamService service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// ListTeams lists all teams with their members
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams(c.Request.Context())
	if err != nil {
		logging.GetGlobalLogger().Error("ListTeams failed: %v", err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to load teams")
		return
	}

	utils.HandleSuccess(c, mapper.ToTeamResponses(teams))
}

// CreateTeam creates a new team (admin only)
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req teamdto.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Team name is required")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), req.Name)
	if err != nil {
		logging.GetGlobalLogger().Error("CreateTeam failed for name=%s: %v", req.Name, err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to create team")
		return
	}

	utils.HandleCreated(c, mapper.ToTeamResponse(team))
}

// DeleteTeam deletes a team and its memberships (admin only)
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Invalid team ID")
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), uint(teamID)); err != nil {
		logging.GetGlobalLogger().Error("DeleteTeam failed for teamID=%d: %v", teamID, err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to delete team")
		return
	}

	utils.HandleNoContent(c)
}

// AddMembers adds profiles to a team by email
func (h *TeamHandler) AddMembers(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Invalid team ID")
		return
	}

	var req teamdto.AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "At least one valid email is required")
		return
	}

	count, err := h.teamService.AddMembers(c.Request.Context(), uint(teamID), req.Emails)
	if err != nil {
		logging.GetGlobalLogger().Error("AddMembers failed for teamID=%d: %v", teamID, err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to add team members")
		return
	}

	utils.HandleSuccess(c, gin.H{"added": count})
}

// RemoveMember removes one membership (admin only)
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Invalid team ID")
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), uint(teamID), c.Param("userId")); err != nil {
		logging.GetGlobalLogger().Error("RemoveMember failed for teamID=%d userID=%s: %v", teamID, c.Param("userId"), err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to remove team member")
		return
	}

	utils.HandleNoContent(c)
}

// ListProfiles returns the profile directory backing the member picker
func (h *TeamHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.teamService.ListProfiles(c.Request.Context())
	if err != nil {
		logging.GetGlobalLogger().Error("ListProfiles failed: %v", err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to load profiles")
		return
	}

	utils.HandleSuccess(c, mapper.ToProfileResponses(profiles))
}
