package licenses

import (
	"context"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes license persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a license repository tied to the provided GORM DB or transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new license row.
func (r *Repository) Create(ctx context.Context, license *models.License) error {
	return r.DB(ctx).Create(license).Error
}

// FindByUUID loads a live license by its public id.
func (r *Repository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.License, error) {
	var license models.License
	if err := r.DB(ctx).Where("uuid = ?", id).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

// List returns live licenses, restricted to a single id when licenseID is set.
func (r *Repository) List(ctx context.Context, licenseID *uint) ([]models.License, error) {
	query := r.DB(ctx).Model(&models.License{})
	if licenseID != nil {
		query = query.Where("id = ?", *licenseID)
	}

	var rows []models.License
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies column changes to an existing license.
func (r *Repository) Update(ctx context.Context, license *models.License, changes map[string]any) error {
	return r.Updates(ctx, license, changes)
}

// Delete soft-deletes a license.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.SoftDelete(ctx, &models.License{}, id)
}
