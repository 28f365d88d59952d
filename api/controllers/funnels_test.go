package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/funnelhub/funnelhub-backend/internal/campaigns"
	"github.com/funnelhub/funnelhub-backend/internal/funnels"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubFunnelService struct {
	funnels.Service
	called bool
}

func (s *stubFunnelService) Create(_ context.Context, _ tenancy.Scope, in funnels.Payload) (*models.Funnel, error) {
	s.called = true
	return &models.Funnel{ID: 12, UUID: uuid.New(), CampaignUUID: *in.CampaignUUID, Name: *in.Name}, nil
}

type stubCampaignService struct {
	campaigns.Service
	rows []models.Campaign
}

func (s *stubCampaignService) List(context.Context, tenancy.Scope) ([]models.Campaign, error) {
	return s.rows, nil
}

func TestFunnelCreateRequiresCampaignAndName(t *testing.T) {
	svc := &stubFunnelService{}
	id := userIdentity()

	rec := serve(FunnelCreate(svc, stubResolver{}, nil), newRequest(http.MethodPost, "/api/funnels", `{"description":"Webinar"}`, &id, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, details := decodeError(t, rec)
	require.Equal(t, "is required", details["campaignUuid"])
	require.Equal(t, "is required", details["name"])
	require.False(t, svc.called)

	body := `{"campaignUuid":"` + uuid.NewString() + `","name":"Webinar"}`
	rec = serve(FunnelCreate(svc, stubResolver{}, nil), newRequest(http.MethodPost, "/api/funnels", body, &id, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeData(t, rec).(map[string]any)
	require.Equal(t, "Webinar", data["name"])
	require.NotContains(t, data, "funnelId")
}

func TestCampaignListHidesLicenseID(t *testing.T) {
	svc := &stubCampaignService{rows: []models.Campaign{{ID: 1, UUID: uuid.New(), LicenseID: 7, Name: "Spring"}}}
	id := userIdentity()

	rec := serve(CampaignList(svc, stubResolver{}, nil), newRequest(http.MethodGet, "/api/campaigns", "", &id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	row := decodeData(t, rec).([]any)[0].(map[string]any)
	require.Equal(t, "Spring", row["name"])
	require.NotContains(t, row, "licenseId")
	require.NotContains(t, row, "campaignId")
}
