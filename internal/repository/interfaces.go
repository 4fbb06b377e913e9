package repository

import (
	"context"

	"zapdash/internal/models"
)

// Viewer is the explicit access-policy input for visibility-scoped reads. It
// replaces the implicit row-level policy of a hosted backend with a
// predicate the view-builder can be tested against.
type Viewer struct {
	UserID  string
	IsAdmin bool
}

// ConnectionRepository handles connection-related database operations
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	CreateBatch(ctx context.Context, conns []models.Connection) error
	GetByInstanceName(ctx context.Context, name string) (*models.Connection, error)
	// ListVisible returns the rows the viewer is allowed to see: everything
	// for admins, owned rows plus rows of the viewer's teams otherwise.
	ListVisible(ctx context.Context, viewer Viewer) ([]models.Connection, error)
	ListNames(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id uint) error
	// UpdateTeamByInstanceName reassigns a connection's team by instance
	// name and reports how many rows matched.
	UpdateTeamByInstanceName(ctx context.Context, name string, teamID *uint) (int64, error)
}

// TeamRepository handles team and membership database operations
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	List(ctx context.Context) ([]models.Team, error)
	Delete(ctx context.Context, id uint) error
	UpsertMember(ctx context.Context, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID uint, userID string) error
}

// ProfileRepository handles profile database operations
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, id, email string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	ListByEmails(ctx context.Context, emails []string) ([]models.Profile, error)
}
