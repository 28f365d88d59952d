package admins

import (
	"context"
	"strings"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes admin persistence operations.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, admin *models.Admin) error {
	return r.DB(ctx).Create(admin).Error
}

func (r *Repository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB(ctx).Where("uuid = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.DB(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Admin, error) {
	var rows []models.Admin
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, admin *models.Admin, changes map[string]any) error {
	return r.Updates(ctx, admin, changes)
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.SoftDelete(ctx, &models.Admin{}, id)
}

func (r *Repository) ExistsByUUID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Admin{}).Where("uuid = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) FindCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	admin, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return credentials(admin), nil
}

func (r *Repository) FindCredentialsByUUID(ctx context.Context, id uuid.UUID) (*auth.Credentials, error) {
	admin, err := r.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return credentials(admin), nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := r.DB(ctx).Model(&models.Admin{}).Where("uuid = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func credentials(admin *models.Admin) *auth.Credentials {
	return &auth.Credentials{
		Identity:     auth.Identity{Type: enums.PrincipalAdmin, UUID: admin.UUID},
		Email:        admin.Email,
		PasswordHash: admin.PasswordHash,
	}
}
