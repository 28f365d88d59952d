package users

import (
	"context"
	"fmt"

	"github.com/funnelhub/funnelhub-backend/internal/licenses"
	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type usersRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, licenseUUID *uuid.UUID) ([]models.User, error)
	Update(ctx context.Context, user *models.User, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type licensesRepository interface {
	Create(ctx context.Context, license *models.License) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.License, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Service exposes tenancy-scoped user operations.
type Service interface {
	List(ctx context.Context, scope tenancy.Scope) ([]models.User, error)
	Get(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.User, error)
	// Create accepts a nil scope for anonymous callers, which may only
	// bootstrap a new team.
	Create(ctx context.Context, scope *tenancy.Scope, in Payload) (*models.User, error)
	Update(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in Payload) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
}

// ServiceParams packages the dependencies of the user service. The factories
// bind repositories to the team bootstrap transaction.
type ServiceParams struct {
	Users              usersRepository
	Licenses           licensesRepository
	DB                 txRunner
	Hasher             passwordHasher
	UserRepoFactory    func(tx *gorm.DB) usersRepository
	LicenseRepoFactory func(tx *gorm.DB) licensesRepository
}

type service struct {
	users       usersRepository
	licenses    licensesRepository
	db          txRunner
	hasher      passwordHasher
	userRepoFor func(tx *gorm.DB) usersRepository
	licenseFor  func(tx *gorm.DB) licensesRepository
}

// NewService builds a user service. Missing factories default to the gorm repositories.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Licenses == nil {
		return nil, fmt.Errorf("licenses repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}

	svc := &service{
		users:       params.Users,
		licenses:    params.Licenses,
		db:          params.DB,
		hasher:      params.Hasher,
		userRepoFor: params.UserRepoFactory,
		licenseFor:  params.LicenseRepoFactory,
	}
	if svc.userRepoFor == nil {
		svc.userRepoFor = func(tx *gorm.DB) usersRepository { return NewRepository(tx) }
	}
	if svc.licenseFor == nil {
		svc.licenseFor = func(tx *gorm.DB) licensesRepository { return licenses.NewRepository(tx) }
	}
	return svc, nil
}

// userTenant is the tenant of a user row: the license it belongs to.
func userTenant(u *models.User) tenancy.Tenant {
	return tenancy.Tenant{LicenseUUID: u.LicenseUUID}
}

func (s *service) List(ctx context.Context, scope tenancy.Scope) ([]models.User, error) {
	var filter *uuid.UUID
	if !scope.Unrestricted {
		filter = &scope.LicenseUUID
	}
	rows, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, repo.MapError(err, "user", "list users")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByUUID(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "user", "load user")
	}
	if err := scope.CheckRead(userTenant(user), "user"); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Create(ctx context.Context, scope *tenancy.Scope, in Payload) (*models.User, error) {
	hash, err := s.hasher.Hash(*in.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        normalizeEmail(*in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		Bio:          in.Bio,
	}

	if in.LicenseUUID == nil {
		return s.bootstrapTeam(ctx, user)
	}

	if scope == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to add users to a team")
	}
	if !scope.Manages(tenancy.Tenant{LicenseUUID: *in.LicenseUUID}) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the team's master admin may add users")
	}
	if _, err := s.licenses.FindByUUID(ctx, *in.LicenseUUID); err != nil {
		return nil, repo.MapError(err, "license", "load license")
	}

	user.LicenseUUID = *in.LicenseUUID
	if in.IsAdminMaster != nil {
		user.IsAdminMaster = *in.IsAdminMaster
	}
	if in.IsAdminBilling != nil {
		user.IsAdminBilling = *in.IsAdminBilling
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, repo.MapError(err, "user", "create user")
	}
	return user, nil
}

// bootstrapTeam creates a fresh FREE license and its first user, who becomes
// the team's master and billing admin. Both rows commit or neither does.
func (s *service) bootstrapTeam(ctx context.Context, user *models.User) (*models.User, error) {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		license := &models.License{
			Type:     enums.LicenseTypeFree,
			TeamName: licenses.TeamNameFor(user.Email),
			Active:   true,
		}
		if err := s.licenseFor(tx).Create(ctx, license); err != nil {
			return repo.MapError(err, "license", "create license")
		}

		user.LicenseUUID = license.UUID
		user.IsAdminMaster = true
		user.IsAdminBilling = true
		if err := s.userRepoFor(tx).Create(ctx, user); err != nil {
			return repo.MapError(err, "user", "create user")
		}
		return nil
	})
	if err != nil {
		return nil, repo.MapError(err, "user", "create team")
	}
	return user, nil
}

func (s *service) Update(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in Payload) error {
	target, err := s.users.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "user", "load user")
	}
	tenant := userTenant(target)
	if err := scope.CheckWrite(tenant, "user"); err != nil {
		return err
	}

	self := scope.UserUUID == target.UUID
	privileged := scope.Manages(tenant)
	if !self && !privileged {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the team's master admin may edit other users")
	}
	if in.touchesFlags() && !privileged {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only a master admin may change admin flags")
	}

	changes := in.profileChanges()
	if in.IsAdminMaster != nil {
		changes["is_admin_master"] = *in.IsAdminMaster
	}
	if in.IsAdminBilling != nil {
		changes["is_admin_billing"] = *in.IsAdminBilling
	}
	if in.LicenseUUID != nil && *in.LicenseUUID != target.LicenseUUID {
		if !scope.Unrestricted {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may move users between teams")
		}
		if _, err := s.licenses.FindByUUID(ctx, *in.LicenseUUID); err != nil {
			return repo.MapError(err, "license", "load license")
		}
		changes["license_uuid"] = *in.LicenseUUID
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		changes["password"] = hash
	}

	if err := s.users.Update(ctx, target, changes); err != nil {
		return repo.MapError(err, "user", "update user")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	target, err := s.users.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "user", "load user")
	}
	if err := scope.CheckManage(userTenant(target), "user"); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, target.ID); err != nil {
		return repo.MapError(err, "user", "delete user")
	}
	return nil
}
