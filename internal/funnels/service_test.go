package funnels

import (
	"context"
	"testing"

	"github.com/funnelhub/funnelhub-backend/internal/campaigns"
	"github.com/funnelhub/funnelhub-backend/internal/licenses"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/pkg/db/dbtest"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	svc       Service
	repo      *Repository
	campaigns *campaigns.Repository
	licenses  *licenses.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.New(t)
	f := fixture{
		repo:      NewRepository(client.DB()),
		campaigns: campaigns.NewRepository(client.DB()),
		licenses:  licenses.NewRepository(client.DB()),
	}
	svc, err := NewService(f.repo, f.campaigns)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// team seeds a license with one campaign and returns a member scope for it.
func (f fixture) team(t *testing.T, name string) (*models.Campaign, tenancy.Scope) {
	t.Helper()
	ctx := context.Background()
	license := &models.License{Type: enums.LicenseTypeFree, TeamName: name, Active: true}
	require.NoError(t, f.licenses.Create(ctx, license))
	campaign := &models.Campaign{LicenseID: license.ID, Name: name + " launch"}
	require.NoError(t, f.campaigns.Create(ctx, campaign))
	return campaign, tenancy.Scope{LicenseID: license.ID, LicenseUUID: license.UUID, UserUUID: uuid.New()}
}

func TestCreateFunnel(t *testing.T) {
	f := newFixture(t)
	campaign, scope := f.team(t, "acme")

	funnel, err := f.svc.Create(context.Background(), scope, Payload{
		CampaignUUID: &campaign.UUID,
		Name:         strPtr("Checkout"),
		Description:  strPtr("Three-step checkout"),
	})
	require.NoError(t, err)
	require.Equal(t, "Checkout", funnel.Name)
	require.Equal(t, "Three-step checkout", *funnel.Description)
	require.False(t, funnel.IsTemplate)
}

func TestCreateRejectsForeignOrMissingCampaign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, acme := f.team(t, "acme")
	foreign, _ := f.team(t, "globex")
	missing := uuid.New()

	_, err := f.svc.Create(ctx, acme, Payload{CampaignUUID: &foreign.UUID, Name: strPtr("Steal")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = f.svc.Create(ctx, acme, Payload{CampaignUUID: &missing, Name: strPtr("Ghost")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = f.svc.Create(ctx, tenancy.AdminScope(), Payload{CampaignUUID: &missing, Name: strPtr("Ghost")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Create(ctx, tenancy.AdminScope(), Payload{CampaignUUID: &foreign.UUID, Name: strPtr("Allowed")})
	require.NoError(t, err)
}

func TestTransitiveTenantScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acmeCampaign, acme := f.team(t, "acme")
	globexCampaign, globex := f.team(t, "globex")

	mine, err := f.svc.Create(ctx, acme, Payload{CampaignUUID: &acmeCampaign.UUID, Name: strPtr("Mine")})
	require.NoError(t, err)
	theirs, err := f.svc.Create(ctx, globex, Payload{CampaignUUID: &globexCampaign.UUID, Name: strPtr("Theirs")})
	require.NoError(t, err)

	rows, err := f.svc.List(ctx, acme)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, mine.UUID, rows[0].UUID)

	rows, err = f.svc.List(ctx, tenancy.AdminScope())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = f.svc.Get(ctx, acme, theirs.UUID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = f.svc.Update(ctx, acme, theirs.UUID, Payload{Name: strPtr("Defaced")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	err = f.svc.Update(ctx, acme, mine.UUID, Payload{CampaignUUID: &globexCampaign.UUID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	got, err := f.svc.Get(ctx, globex, theirs.UUID)
	require.NoError(t, err)
	require.Equal(t, "Theirs", got.Name)
}

func TestFunnelsOfDeletedCampaignLeaveTheTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaign, scope := f.team(t, "acme")

	funnel, err := f.svc.Create(ctx, scope, Payload{CampaignUUID: &campaign.UUID, Name: strPtr("Orphaned")})
	require.NoError(t, err)
	require.NoError(t, f.campaigns.Delete(ctx, campaign.ID))

	rows, err := f.svc.List(ctx, scope)
	require.NoError(t, err)
	require.Empty(t, rows)

	_, err = f.svc.Get(ctx, scope, funnel.UUID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Get(ctx, tenancy.AdminScope(), funnel.UUID)
	require.NoError(t, err)
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaign, member := f.team(t, "acme")
	master := member
	master.IsMaster = true

	funnel, err := f.svc.Create(ctx, member, Payload{CampaignUUID: &campaign.UUID, Name: strPtr("Lead magnet")})
	require.NoError(t, err)

	isTemplate := true
	require.NoError(t, f.svc.Update(ctx, member, funnel.UUID, Payload{IsTemplate: &isTemplate, Type: strPtr("optin")}))
	got, err := f.repo.FindByUUID(ctx, funnel.UUID)
	require.NoError(t, err)
	require.True(t, got.IsTemplate)
	require.Equal(t, "optin", *got.Type)
	require.Equal(t, "Lead magnet", got.Name)

	err = f.svc.Delete(ctx, member, funnel.UUID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	require.NoError(t, f.svc.Delete(ctx, master, funnel.UUID))
	err = f.svc.Delete(ctx, master, funnel.UUID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNamesAreUniquePerCampaign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaign, scope := f.team(t, "acme")
	second := &models.Campaign{LicenseID: scope.LicenseID, Name: "second"}
	require.NoError(t, f.campaigns.Create(ctx, second))

	_, err := f.svc.Create(ctx, scope, Payload{CampaignUUID: &campaign.UUID, Name: strPtr("Webinar")})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, scope, Payload{CampaignUUID: &second.UUID, Name: strPtr("Webinar")})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, scope, Payload{CampaignUUID: &campaign.UUID, Name: strPtr("Webinar")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}
