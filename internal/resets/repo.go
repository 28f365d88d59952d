package resets

import (
	"context"
	"time"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists issued reset tokens.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, reset *models.Reset) error {
	return r.DB(ctx).Create(reset).Error
}

func (r *Repository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Reset, error) {
	var reset models.Reset
	if err := r.DB(ctx).Where("uuid = ?", id).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

// MarkUsed consumes the reset. Only an unused reset can be consumed; a lost
// race surfaces as gorm.ErrRecordNotFound.
func (r *Repository) MarkUsed(ctx context.Context, id uint, at time.Time) error {
	res := r.DB(ctx).Model(&models.Reset{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteStale hard-deletes resets that expired or were consumed before cutoff.
func (r *Repository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Unscoped().
		Where("valid_by < ? OR used_at < ?", cutoff, cutoff).
		Delete(&models.Reset{})
	return res.RowsAffected, res.Error
}
