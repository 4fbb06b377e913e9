package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zapdash/internal/gateway"
	"zapdash/internal/logging"
	"zapdash/internal/models"
	"zapdash/internal/repository"

	"gorm.io/gorm"
)

// SyncInstance is one gateway instance offered for promotion into a local
// row. The token may be absent when the gateway's list did not expose it.
type SyncInstance struct {
	InstanceName string `json:"instance_name" binding:"required"`
	Token        string `json:"token"`
}

// ConnectionService orchestrates gateway calls and local persistence for
// connections. Writes are remote-first: the gateway mutation runs before the
// local one, and a failure in either surfaces without leaving partial UI
// state (a remote-created instance with no local row is recovered via Sync).
type ConnectionService interface {
	ListConnections(ctx context.Context, viewer repository.Viewer) ([]MergedConnection, error)
	CreateConnection(ctx context.Context, viewer repository.Viewer, instanceName string) (*models.Connection, error)
	DeleteConnection(ctx context.Context, instanceName string) error
	SyncConnections(ctx context.Context, viewer repository.Viewer, instances []SyncInstance) (int, error)
	AssignTeam(ctx context.Context, viewer repository.Viewer, instanceName string, teamID *uint) error
	Connect(ctx context.Context, instanceName, phone string) (interface{}, error)
	Status(ctx context.Context, instanceName string) (interface{}, error)
	Logout(ctx context.Context, instanceName string) error
	GetWebhook(ctx context.Context, instanceName string) (gateway.WebhookConfig, error)
	SetWebhook(ctx context.Context, instanceName string, cfg gateway.WebhookConfig) error
}

type connectionService struct {
	repo    repository.ConnectionRepository
	gateway gateway.API
}

// NewConnectionService creates a new connection service instance
func NewConnectionService(repo repository.ConnectionRepository, gw gateway.API) ConnectionService {
	return &connectionService{
		repo:    repo,
		gateway: gw,
	}
}

// ListConnections builds the merged connection view for the viewer. A
// gateway fetch failure yields an empty list, not an error: "no instances"
// is ambiguous by contract.
func (s *connectionService) ListConnections(ctx context.Context, viewer repository.Viewer) ([]MergedConnection, error) {
	instances := s.gateway.FetchInstances(ctx)

	rows, err := s.repo.ListVisible(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to load connections: %w", err)
	}

	return BuildConnectionView(instances, rows, viewer), nil
}

// CreateConnection creates the instance on the gateway, then registers the
// local row carrying the extracted token.
func (s *connectionService) CreateConnection(ctx context.Context, viewer repository.Viewer, instanceName string) (*models.Connection, error) {
	instanceName = strings.TrimSpace(instanceName)
	if instanceName == "" {
		return nil, fmt.Errorf("%w: instance name is required", ErrValidation)
	}

	resp, err := s.gateway.CreateInstance(ctx, instanceName)
	if err != nil {
		return nil, err
	}

	token, ok := gateway.ExtractCreateToken(resp)
	if !ok {
		// A row without a token is permanently unusable, so a create that
		// yields no recoverable token fails loudly instead of inserting.
		logging.GetGlobalLogger().Error("Gateway create response missing token for instance %s: %+v", instanceName, resp)
		return nil, fmt.Errorf("%w: gateway did not return a token for instance %s, check the gateway logs", ErrTokenMissing, instanceName)
	}

	conn := &models.Connection{
		InstanceName: instanceName,
		UserID:       viewer.UserID,
		Token:        token,
	}
	if err := s.repo.Create(ctx, conn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: instance %s is already registered", ErrConflict, instanceName)
		}
		return nil, fmt.Errorf("failed to register connection: %w", err)
	}

	return conn, nil
}

// DeleteConnection removes the gateway instance (when a token is known) and
// then the local row. A missing local token skips the remote delete rather
// than blocking cleanup of a broken record.
func (s *connectionService) DeleteConnection(ctx context.Context, instanceName string) error {
	conn, err := s.repo.GetByInstanceName(ctx, instanceName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: instance %s not found in database", ErrNotFound, instanceName)
		}
		return fmt.Errorf("failed to load connection: %w", err)
	}

	if conn.Token != "" {
		if err := s.gateway.DeleteInstance(ctx, conn.Token); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, conn.ID); err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// SyncConnections promotes unregistered gateway instances into local rows
// owned by the caller. Already-registered names are skipped, which makes the
// operation idempotent.
func (s *connectionService) SyncConnections(ctx context.Context, viewer repository.Viewer, instances []SyncInstance) (int, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load registered instances: %w", err)
	}

	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[name] = true
	}

	var toInsert []models.Connection
	for _, inst := range instances {
		if existing[inst.InstanceName] {
			continue
		}
		existing[inst.InstanceName] = true
		toInsert = append(toInsert, models.Connection{
			InstanceName: inst.InstanceName,
			UserID:       viewer.UserID,
			Token:        inst.Token,
		})
	}

	if err := s.repo.CreateBatch(ctx, toInsert); err != nil {
		return 0, fmt.Errorf("failed to register instances: %w", err)
	}
	return len(toInsert), nil
}

// AssignTeam moves a connection into a team (or out of all teams with a nil
// id). Admin only; matched by instance name.
func (s *connectionService) AssignTeam(ctx context.Context, viewer repository.Viewer, instanceName string, teamID *uint) error {
	if !viewer.IsAdmin {
		return fmt.Errorf("%w: only administrators can manage team assignments", ErrForbidden)
	}

	affected, err := s.repo.UpdateTeamByInstanceName(ctx, instanceName, teamID)
	if err != nil {
		return fmt.Errorf("failed to update team assignment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: instance %s not found in database, refresh and try again", ErrNotFound, instanceName)
	}
	return nil
}

func (s *connectionService) Connect(ctx context.Context, instanceName, phone string) (interface{}, error) {
	token, err := s.resolveToken(ctx, instanceName)
	if err != nil {
		return nil, err
	}
	return s.gateway.ConnectInstance(ctx, token, phone)
}

func (s *connectionService) Status(ctx context.Context, instanceName string) (interface{}, error) {
	token, err := s.resolveToken(ctx, instanceName)
	if err != nil {
		return nil, err
	}
	// Nil status is a valid "try again" signal for pollers.
	return s.gateway.GetInstanceStatus(ctx, token), nil
}

func (s *connectionService) Logout(ctx context.Context, instanceName string) error {
	token, err := s.resolveToken(ctx, instanceName)
	if err != nil {
		return err
	}
	s.gateway.LogoutInstance(ctx, token)
	return nil
}

func (s *connectionService) GetWebhook(ctx context.Context, instanceName string) (gateway.WebhookConfig, error) {
	token, err := s.resolveToken(ctx, instanceName)
	if err != nil {
		return gateway.WebhookConfig{}, err
	}
	return gateway.NormalizeWebhook(s.gateway.FindWebhook(ctx, token)), nil
}

func (s *connectionService) SetWebhook(ctx context.Context, instanceName string, cfg gateway.WebhookConfig) error {
	token, err := s.resolveToken(ctx, instanceName)
	if err != nil {
		return err
	}
	if _, err := s.gateway.SetWebhook(ctx, token, cfg); err != nil {
		return err
	}
	return nil
}

// resolveToken looks up the per-instance gateway token registered for an
// instance name.
func (s *connectionService) resolveToken(ctx context.Context, instanceName string) (string, error) {
	conn, err := s.repo.GetByInstanceName(ctx, instanceName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to load connection: %w", err)
	}
	if conn == nil || conn.Token == "" {
		return "", fmt.Errorf("%w for instance %s, recreate the connection", ErrTokenMissing, instanceName)
	}
	return conn.Token, nil
}
