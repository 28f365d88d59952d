package controllers

import (
	"net/http"

	"github.com/funnelhub/funnelhub-backend/api/responses"
	"github.com/funnelhub/funnelhub-backend/api/validators"
	"github.com/funnelhub/funnelhub-backend/internal/admins"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/fields"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
)

// Admin routes sit behind GateAdmin and the permManageAdmins check, so the
// handlers carry no scope.

func adminServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable")
}

func AdminList(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, adminServiceUnavailable())
			return
		}
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusOK, rows, fields.Admin)
	}
}

func AdminGet(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, adminServiceUnavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "uuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		admin, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusOK, admin, fields.Admin)
	}
}

// AdminCreate answers {admin, token} so the new admin can sign in at once.
func AdminCreate(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, adminServiceUnavailable())
			return
		}
		var body admins.Payload
		if err := validators.DecodeCreate(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		admin, err := fields.Filter(created.Admin, fields.Admin...)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "filter response"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"admin": admin,
			"token": created.Token,
		})
	}
}

func AdminUpdate(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, adminServiceUnavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "uuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body admins.Payload
		if err := validators.DecodePatch(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Update(r.Context(), id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminDelete(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, adminServiceUnavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "uuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Admin deleted.")
	}
}
