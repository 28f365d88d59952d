package admins

import (
	"context"
	"fmt"
	"time"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
)

// PermManageAdmins is the only capability flag an admin row carries.
const PermManageAdmins = "permManageAdmins"

type adminsRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	Update(ctx context.Context, admin *models.Admin, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Service manages backoffice staff. Callers are gated by permManageAdmins.
type Service interface {
	List(ctx context.Context) ([]models.Admin, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	Create(ctx context.Context, in Payload) (*Created, error)
	Update(ctx context.Context, id uuid.UUID, in Payload) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasPermission(ctx context.Context, id uuid.UUID, permission string) (bool, error)
}

// ServiceParams packages the dependencies of the admin service.
type ServiceParams struct {
	Repo   adminsRepository
	Hasher passwordHasher
	JWT    config.JWTConfig
	Now    func() time.Time
}

type service struct {
	repo   adminsRepository
	hasher passwordHasher
	jwt    config.JWTConfig
	now    func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("admins repository required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if params.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, hasher: params.Hasher, jwt: params.JWT, now: now}, nil
}

func (s *service) List(ctx context.Context) ([]models.Admin, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, repo.MapError(err, "admin", "list admins")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	admin, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "admin", "load admin")
	}
	return admin, nil
}

func (s *service) Create(ctx context.Context, in Payload) (*Created, error) {
	hash, err := s.hasher.Hash(*in.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	admin := &models.Admin{
		Email:        normalizeEmail(*in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		EmployeeID:   in.EmployeeID,
	}
	if in.PermManageAdmins != nil {
		admin.PermManageAdmins = *in.PermManageAdmins
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, repo.MapError(err, "admin", "create admin")
	}

	token, err := auth.MintToken(s.jwt, s.now(), auth.Identity{Type: enums.PrincipalAdmin, UUID: admin.UUID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint admin token")
	}
	return &Created{Admin: admin, Token: token}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in Payload) error {
	admin, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "admin", "load admin")
	}

	changes := in.changes()
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		changes["password"] = hash
	}

	if err := s.repo.Update(ctx, admin, changes); err != nil {
		return repo.MapError(err, "admin", "update admin")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	admin, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "admin", "load admin")
	}
	if err := s.repo.Delete(ctx, admin.ID); err != nil {
		return repo.MapError(err, "admin", "delete admin")
	}
	return nil
}

// HasPermission reads a capability flag from the admin's own row.
func (s *service) HasPermission(ctx context.Context, id uuid.UUID, permission string) (bool, error) {
	admin, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return false, repo.MapError(err, "admin", "load admin")
	}
	switch permission {
	case PermManageAdmins:
		return admin.PermManageAdmins, nil
	default:
		return false, pkgerrors.Newf(pkgerrors.CodeInternal, "unknown permission %q", permission)
	}
}
