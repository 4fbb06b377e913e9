package mapper

import (
	teamdto "zapdash/internal/api/dto/v1/team"
	"zapdash/internal/models"
)

// ToTeamResponse maps a team with preloaded members to its API shape.
func ToTeamResponse(team *models.Team) teamdto.Response {
	members := make([]teamdto.MemberResponse, 0, len(team.Members))
	for _, member := range team.Members {
		members = append(members, teamdto.MemberResponse{
			UserID: member.UserID,
			Email:  member.Profile.Email,
			Role:   member.Role,
		})
	}

	return teamdto.Response{
		ID:        team.ID,
		Name:      team.Name,
		Members:   members,
		CreatedAt: team.CreatedAt,
	}
}

// ToTeamResponses maps a list of teams.
func ToTeamResponses(teams []models.Team) []teamdto.Response {
	out := make([]teamdto.Response, 0, len(teams))
	for i := range teams {
		out = append(out, ToTeamResponse(&teams[i]))
	}
	return out
}

// ToProfileResponse maps a profile to its directory entry.
func ToProfileResponse(profile *models.Profile) teamdto.ProfileResponse {
	return teamdto.ProfileResponse{
		ID:    profile.ID,
		Email: profile.Email,
	}
}

// ToProfileResponses maps a list of profiles.
func ToProfileResponses(profiles []models.Profile) []teamdto.ProfileResponse {
	out := make([]teamdto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, ToProfileResponse(&profiles[i]))
	}
	return out
}
