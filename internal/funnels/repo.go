package funnels

import (
	"context"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes funnel persistence operations.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, funnel *models.Funnel) error {
	return r.DB(ctx).Create(funnel).Error
}

func (r *Repository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Funnel, error) {
	var funnel models.Funnel
	if err := r.DB(ctx).Where("uuid = ?", id).First(&funnel).Error; err != nil {
		return nil, err
	}
	return &funnel, nil
}

// List returns live funnels. With licenseID set, only funnels whose live
// campaign belongs to that license are returned.
func (r *Repository) List(ctx context.Context, licenseID *uint) ([]models.Funnel, error) {
	query := r.DB(ctx).Model(&models.Funnel{})
	if licenseID != nil {
		owned := r.DB(ctx).Model(&models.Campaign{}).Select("uuid").Where("license_id = ?", *licenseID)
		query = query.Where("campaign_uuid IN (?)", owned)
	}

	var rows []models.Funnel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, funnel *models.Funnel, changes map[string]any) error {
	return r.Updates(ctx, funnel, changes)
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.SoftDelete(ctx, &models.Funnel{}, id)
}
