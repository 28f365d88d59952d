package campaigns

import (
	"context"
	"fmt"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
)

type campaignsRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	List(ctx context.Context, licenseID *uint) ([]models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type licensesRepository interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.License, error)
}

// Service exposes tenancy-scoped campaign operations.
type Service interface {
	List(ctx context.Context, scope tenancy.Scope) ([]models.Campaign, error)
	Get(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Campaign, error)
	Create(ctx context.Context, scope tenancy.Scope, in Payload) (*models.Campaign, error)
	Update(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in Payload) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
}

type service struct {
	repo     campaignsRepository
	licenses licensesRepository
}

func NewService(r campaignsRepository, licenses licensesRepository) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("campaigns repository required")
	}
	if licenses == nil {
		return nil, fmt.Errorf("licenses repository required")
	}
	return &service{repo: r, licenses: licenses}, nil
}

// Tenant derives the tenant of a campaign row. Funnels reuse it.
func Tenant(c *models.Campaign) tenancy.Tenant {
	return tenancy.Tenant{LicenseID: c.LicenseID}
}

func (s *service) List(ctx context.Context, scope tenancy.Scope) ([]models.Campaign, error) {
	var filter *uint
	if id, restricted := scope.LicenseFilter(); restricted {
		filter = &id
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repo.MapError(err, "campaign", "list campaigns")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "campaign", "load campaign")
	}
	if err := scope.CheckRead(Tenant(campaign), "campaign"); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *service) Create(ctx context.Context, scope tenancy.Scope, in Payload) (*models.Campaign, error) {
	licenseID, err := s.targetLicense(ctx, scope, in.LicenseUUID)
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		LicenseID:   licenseID,
		Name:        *in.Name,
		Icon:        in.Icon,
		Color:       in.Color,
		Description: in.Description,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, repo.MapError(err, "campaign", "create campaign")
	}
	return campaign, nil
}

// targetLicense resolves the license a new campaign is filed under. Users are
// pinned to their own team; admins must name one.
func (s *service) targetLicense(ctx context.Context, scope tenancy.Scope, requested *uuid.UUID) (uint, error) {
	if !scope.Unrestricted {
		if requested != nil && *requested != scope.LicenseUUID {
			return 0, pkgerrors.New(pkgerrors.CodeForbidden, "campaigns can only be created for your own team")
		}
		return scope.LicenseID, nil
	}
	if requested == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"licenseUuid": "is required"})
	}
	license, err := s.licenses.FindByUUID(ctx, *requested)
	if err != nil {
		return 0, repo.MapError(err, "license", "load license")
	}
	return license.ID, nil
}

func (s *service) Update(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in Payload) error {
	campaign, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "campaign", "load campaign")
	}
	if err := scope.CheckWrite(Tenant(campaign), "campaign"); err != nil {
		return err
	}

	changes := in.changes()
	if in.LicenseUUID != nil {
		if !scope.Unrestricted {
			if *in.LicenseUUID != scope.LicenseUUID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may move campaigns between teams")
			}
		} else {
			license, err := s.licenses.FindByUUID(ctx, *in.LicenseUUID)
			if err != nil {
				return repo.MapError(err, "license", "load license")
			}
			changes["license_id"] = license.ID
		}
	}

	if err := s.repo.Update(ctx, campaign, changes); err != nil {
		return repo.MapError(err, "campaign", "update campaign")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	campaign, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "campaign", "load campaign")
	}
	if err := scope.CheckManage(Tenant(campaign), "campaign"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, campaign.ID); err != nil {
		return repo.MapError(err, "campaign", "delete campaign")
	}
	return nil
}
