package service

import (
	"context"
	"fmt"
	"strings"

	"zapdash/internal/models"
	"zapdash/internal/repository"
)

// TeamService manages teams, memberships and the profile directory backing
// the member picker.
type TeamService interface {
	CreateTeam(ctx context.Context, name string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	DeleteTeam(ctx context.Context, id uint) error
	// AddMembers resolves profiles by email and upserts memberships keyed on
	// (team_id, user_id). Returns how many profiles were matched.
	AddMembers(ctx context.Context, teamID uint, emails []string) (int, error)
	RemoveMember(ctx context.Context, teamID uint, userID string) error
	ListProfiles(ctx context.Context) ([]models.Profile, error)
}

type teamService struct {
	teams    repository.TeamRepository
	profiles repository.ProfileRepository
}

// NewTeamService creates a new team service instance
func NewTeamService(teams repository.TeamRepository, profiles repository.ProfileRepository) TeamService {
	return &teamService{
		teams:    teams,
		profiles: profiles,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidation)
	}

	team := &models.Team{Name: name}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.teams.List(ctx)
}

func (s *teamService) DeleteTeam(ctx context.Context, id uint) error {
	if err := s.teams.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

func (s *teamService) AddMembers(ctx context.Context, teamID uint, emails []string) (int, error) {
	profiles, err := s.profiles.ListByEmails(ctx, emails)
	if err != nil {
		return 0, fmt.Errorf("failed to look up profiles: %w", err)
	}
	if len(profiles) == 0 {
		return 0, fmt.Errorf("%w: no users found for the given emails", ErrNotFound)
	}

	for _, profile := range profiles {
		member := &models.TeamMember{
			TeamID: teamID,
			UserID: profile.ID,
			Role:   "member",
		}
		if err := s.teams.UpsertMember(ctx, member); err != nil {
			return 0, fmt.Errorf("failed to add team member: %w", err)
		}
	}
	return len(profiles), nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID uint, userID string) error {
	if err := s.teams.RemoveMember(ctx, teamID, userID); err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return nil
}

func (s *teamService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return s.profiles.List(ctx)
}
