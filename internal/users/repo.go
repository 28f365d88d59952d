package users

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

// Repository exposes user persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a user repository tied to the provided GORM DB or transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Create(user).Error
}

func (r *Repository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("uuid = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns live users, restricted to one license when licenseUUID is set.
func (r *Repository) List(ctx context.Context, licenseUUID *uuid.UUID) ([]models.User, error) {
	query := r.DB(ctx).Model(&models.User{})
	if licenseUUID != nil {
		query = query.Where("license_uuid = ?", *licenseUUID)
	}

	var rows []models.User
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, user *models.User, changes map[string]any) error {
	return r.Updates(ctx, user, changes)
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.SoftDelete(ctx, &models.User{}, id)
}

// ExistsByUUID reports whether a live user with the id exists.
func (r *Repository) ExistsByUUID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.User{}).Where("uuid = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) FindCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return credentials(user), nil
}

func (r *Repository) FindCredentialsByUUID(ctx context.Context, id uuid.UUID) (*auth.Credentials, error) {
	user, err := r.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return credentials(user), nil
}

// UpdatePassword stores a new password hash for the user.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := r.DB(ctx).Model(&models.User{}).Where("uuid = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func credentials(user *models.User) *auth.Credentials {
	return &auth.Credentials{
		Identity:     auth.Identity{Type: enums.PrincipalUser, UUID: user.UUID},
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
}
