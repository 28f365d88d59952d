package campaigns

import (
	"context"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes campaign persistence operations.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.DB(ctx).Create(campaign).Error
}

func (r *Repository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.DB(ctx).Where("uuid = ?", id).First(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// List returns live campaigns, restricted to one license when licenseID is set.
func (r *Repository) List(ctx context.Context, licenseID *uint) ([]models.Campaign, error) {
	query := r.DB(ctx).Model(&models.Campaign{})
	if licenseID != nil {
		query = query.Where("license_id = ?", *licenseID)
	}

	var rows []models.Campaign
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, campaign *models.Campaign, changes map[string]any) error {
	return r.Updates(ctx, campaign, changes)
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.SoftDelete(ctx, &models.Campaign{}, id)
}
