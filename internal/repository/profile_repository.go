package repository

import (
	"context"

	"zapdash/internal/models"

	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate loads the profile for an identity-provider UID, provisioning
// the local row with the default role on first sight.
func (r *profileRepository) GetOrCreate(ctx context.Context, id, email string) (*models.Profile, error) {
	profile := models.Profile{ID: id, Email: email, Role: models.RoleMember}
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		FirstOrCreate(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Order("email").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) ListByEmails(ctx context.Context, emails []string) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("email IN ?", emails).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
