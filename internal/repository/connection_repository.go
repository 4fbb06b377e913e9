package repository

import (
	"context"

	"zapdash/internal/models"

	"gorm.io/gorm"
)

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository instance
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

func (r *connectionRepository) CreateBatch(ctx context.Context, conns []models.Connection) error {
	if len(conns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&conns).Error
}

func (r *connectionRepository) GetByInstanceName(ctx context.Context, name string) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).Preload("Team").
		Where("instance_name = ?", name).
		First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) ListVisible(ctx context.Context, viewer Viewer) ([]models.Connection, error) {
	query := r.db.WithContext(ctx).Preload("Team")
	if !viewer.IsAdmin {
		memberTeams := r.db.Model(&models.TeamMember{}).
			Select("team_id").
			Where("user_id = ?", viewer.UserID)
		query = query.Where("user_id = ? OR team_id IN (?)", viewer.UserID, memberTeams)
	}

	var conns []models.Connection
	if err := query.Order("instance_name").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *connectionRepository) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&models.Connection{}).
		Pluck("instance_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *connectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Connection{}, id).Error
}

func (r *connectionRepository) UpdateTeamByInstanceName(ctx context.Context, name string, teamID *uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("instance_name = ?", name).
		Update("team_id", teamID)
	return result.RowsAffected, result.Error
}
