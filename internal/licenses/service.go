package licenses

import (
	"context"
	"fmt"
	"strings"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
)

type licensesRepository interface {
	Create(ctx context.Context, license *models.License) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.License, error)
	List(ctx context.Context, licenseID *uint) ([]models.License, error)
	Update(ctx context.Context, license *models.License, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
}

// Service exposes tenancy-scoped license operations.
type Service interface {
	List(ctx context.Context, scope tenancy.Scope) ([]models.License, error)
	Get(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.License, error)
	Create(ctx context.Context, scope tenancy.Scope, in Payload) (*models.License, error)
	Update(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in Payload) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
}

type service struct {
	repo licensesRepository
}

// NewService builds a license service backed by the provided repository.
func NewService(r licensesRepository) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("license repository required")
	}
	return &service{repo: r}, nil
}

// licenseTenant is the tenant of a license row: the license itself.
func licenseTenant(l *models.License) tenancy.Tenant {
	return tenancy.Tenant{LicenseID: l.ID, LicenseUUID: l.UUID}
}

func (s *service) List(ctx context.Context, scope tenancy.Scope) ([]models.License, error) {
	var filter *uint
	if id, restricted := scope.LicenseFilter(); restricted {
		filter = &id
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repo.MapError(err, "license", "list licenses")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.License, error) {
	license, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "license", "load license")
	}
	if err := scope.CheckRead(licenseTenant(license), "license"); err != nil {
		return nil, err
	}
	return license, nil
}

func (s *service) Create(ctx context.Context, scope tenancy.Scope, in Payload) (*models.License, error) {
	if !scope.Unrestricted {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may create licenses")
	}

	license := &models.License{
		Type:      enums.LicenseTypeFree,
		TeamName:  strings.TrimSpace(*in.TeamName),
		Active:    true,
		Reference: in.Reference,
		Domain:    in.Domain,
	}
	if in.Type != nil {
		license.Type = *in.Type
	}
	if in.Active != nil {
		license.Active = *in.Active
	}

	if err := s.repo.Create(ctx, license); err != nil {
		return nil, repo.MapError(err, "license", "create license")
	}
	return license, nil
}

func (s *service) Update(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in Payload) error {
	license, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "license", "load license")
	}
	if err := scope.CheckManage(licenseTenant(license), "license"); err != nil {
		return err
	}
	if !scope.Unrestricted && !in.onlyTeamFields() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only teamName and domain may be changed")
	}

	if err := s.repo.Update(ctx, license, in.changes()); err != nil {
		return repo.MapError(err, "license", "update license")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if !scope.Unrestricted {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may delete licenses")
	}
	license, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "license", "load license")
	}
	if err := s.repo.Delete(ctx, license.ID); err != nil {
		return repo.MapError(err, "license", "delete license")
	}
	return nil
}
