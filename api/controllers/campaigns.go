package controllers

import (
	"net/http"

	"github.com/funnelhub/funnelhub-backend/api/responses"
	"github.com/funnelhub/funnelhub-backend/api/validators"
	"github.com/funnelhub/funnelhub-backend/internal/campaigns"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/fields"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
)

func campaignServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable")
}

// CampaignList returns every campaign visible to the caller.
func CampaignList(svc campaigns.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, campaignServiceUnavailable())
			return
		}
		scope, err := requestScope(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusOK, rows, fields.Campaign)
	}
}

func CampaignGet(svc campaigns.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, campaignServiceUnavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "uuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := requestScope(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.Get(r.Context(), scope, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusOK, campaign, fields.Campaign)
	}
}

func CampaignCreate(svc campaigns.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, campaignServiceUnavailable())
			return
		}
		var body campaigns.Payload
		if err := validators.DecodeCreate(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := requestScope(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.Create(r.Context(), scope, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusCreated, campaign, fields.Campaign)
	}
}

func CampaignUpdate(svc campaigns.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, campaignServiceUnavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "uuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body campaigns.Payload
		if err := validators.DecodePatch(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := requestScope(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Update(r.Context(), scope, id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func CampaignDelete(svc campaigns.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, campaignServiceUnavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "uuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := requestScope(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), scope, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Campaign deleted.")
	}
}
