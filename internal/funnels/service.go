package funnels

import (
	"context"
	"fmt"

	"github.com/funnelhub/funnelhub-backend/internal/campaigns"
	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
)

type funnelsRepository interface {
	Create(ctx context.Context, funnel *models.Funnel) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Funnel, error)
	List(ctx context.Context, licenseID *uint) ([]models.Funnel, error)
	Update(ctx context.Context, funnel *models.Funnel, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type campaignsRepository interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
}

// Service exposes tenancy-scoped funnel operations. A funnel's tenant is the
// license of its campaign.
type Service interface {
	List(ctx context.Context, scope tenancy.Scope) ([]models.Funnel, error)
	Get(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Funnel, error)
	Create(ctx context.Context, scope tenancy.Scope, in Payload) (*models.Funnel, error)
	Update(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in Payload) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
}

type service struct {
	repo      funnelsRepository
	campaigns campaignsRepository
}

func NewService(r funnelsRepository, campaigns campaignsRepository) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("funnels repository required")
	}
	if campaigns == nil {
		return nil, fmt.Errorf("campaigns repository required")
	}
	return &service{repo: r, campaigns: campaigns}, nil
}

// funnelTenant follows Funnel -> Campaign -> License. A funnel whose campaign
// is gone belongs to no tenant.
func (s *service) funnelTenant(ctx context.Context, f *models.Funnel) (tenancy.Tenant, error) {
	campaign, err := s.campaigns.FindByUUID(ctx, f.CampaignUUID)
	if err != nil {
		if repo.NotFound(err) {
			return tenancy.Tenant{}, nil
		}
		return tenancy.Tenant{}, repo.MapError(err, "campaign", "load campaign")
	}
	return campaigns.Tenant(campaign), nil
}

// requireCampaign checks that a campaign the caller wants to attach a funnel
// to exists inside the caller's scope.
func (s *service) requireCampaign(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	campaign, err := s.campaigns.FindByUUID(ctx, id)
	if err != nil {
		if repo.NotFound(err) && !scope.Unrestricted {
			return pkgerrors.New(pkgerrors.CodeForbidden, "campaign is not available to your team")
		}
		return repo.MapError(err, "campaign", "load campaign")
	}
	if !scope.Owns(campaigns.Tenant(campaign)) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "campaign is not available to your team")
	}
	return nil
}

func (s *service) List(ctx context.Context, scope tenancy.Scope) ([]models.Funnel, error) {
	var filter *uint
	if id, restricted := scope.LicenseFilter(); restricted {
		filter = &id
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repo.MapError(err, "funnel", "list funnels")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Funnel, error) {
	funnel, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "funnel", "load funnel")
	}
	tenant, err := s.funnelTenant(ctx, funnel)
	if err != nil {
		return nil, err
	}
	if err := scope.CheckRead(tenant, "funnel"); err != nil {
		return nil, err
	}
	return funnel, nil
}

func (s *service) Create(ctx context.Context, scope tenancy.Scope, in Payload) (*models.Funnel, error) {
	if err := s.requireCampaign(ctx, scope, *in.CampaignUUID); err != nil {
		return nil, err
	}

	funnel := &models.Funnel{
		CampaignUUID: *in.CampaignUUID,
		Name:         *in.Name,
		Type:         in.Type,
		Description:  in.Description,
	}
	if in.IsTemplate != nil {
		funnel.IsTemplate = *in.IsTemplate
	}
	if err := s.repo.Create(ctx, funnel); err != nil {
		return nil, repo.MapError(err, "funnel", "create funnel")
	}
	return funnel, nil
}

func (s *service) Update(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in Payload) error {
	funnel, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "funnel", "load funnel")
	}
	tenant, err := s.funnelTenant(ctx, funnel)
	if err != nil {
		return err
	}
	if err := scope.CheckWrite(tenant, "funnel"); err != nil {
		return err
	}

	changes := in.changes()
	if in.CampaignUUID != nil && *in.CampaignUUID != funnel.CampaignUUID {
		if err := s.requireCampaign(ctx, scope, *in.CampaignUUID); err != nil {
			return err
		}
		changes["campaign_uuid"] = *in.CampaignUUID
	}

	if err := s.repo.Update(ctx, funnel, changes); err != nil {
		return repo.MapError(err, "funnel", "update funnel")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	funnel, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return repo.MapError(err, "funnel", "load funnel")
	}
	tenant, err := s.funnelTenant(ctx, funnel)
	if err != nil {
		return err
	}
	if err := scope.CheckManage(tenant, "funnel"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, funnel.ID); err != nil {
		return repo.MapError(err, "funnel", "delete funnel")
	}
	return nil
}
