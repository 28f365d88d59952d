package controllers

import (
	"net/http"

	"github.com/funnelhub/funnelhub-backend/api/responses"
	"github.com/funnelhub/funnelhub-backend/api/validators"
	"github.com/funnelhub/funnelhub-backend/internal/funnels"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/fields"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
)

func funnelServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "funnel service unavailable")
}

// FunnelList returns every funnel visible to the caller.
func FunnelList(svc funnels.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, funnelServiceUnavailable())
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
		responses.WriteFiltered(r.Context(), logg, w, http.StatusOK, rows, fields.Funnel)
	}
}

func FunnelGet(svc funnels.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, funnelServiceUnavailable())
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

		funnel, err := svc.Get(r.Context(), scope, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusOK, funnel, fields.Funnel)
	}
}

func FunnelCreate(svc funnels.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, funnelServiceUnavailable())
			return
		}
		var body funnels.Payload
		if err := validators.DecodeCreate(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := requestScope(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		funnel, err := svc.Create(r.Context(), scope, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusCreated, funnel, fields.Funnel)
	}
}

func FunnelUpdate(svc funnels.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, funnelServiceUnavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "uuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body funnels.Payload
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

func FunnelDelete(svc funnels.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, funnelServiceUnavailable())
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
		responses.WriteMessage(w, http.StatusOK, "Funnel deleted.")
	}
}
