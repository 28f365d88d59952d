package controllers

import (
	"net/http"

	"github.com/funnelhub/funnelhub-backend/api/middleware"
	"github.com/funnelhub/funnelhub-backend/api/responses"
	"github.com/funnelhub/funnelhub-backend/api/validators"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/internal/users"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/fields"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
)

func userServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable")
}

// UserList returns the caller's team, or every user for admins.
func UserList(svc users.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, userServiceUnavailable())
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
		responses.WriteFiltered(r.Context(), logg, w, http.StatusOK, rows, fields.User)
	}
}

func UserGet(svc users.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, userServiceUnavailable())
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

		user, err := svc.Get(r.Context(), scope, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusOK, user, fields.User)
	}
}

// UserCreate is reachable anonymously: without an identity only the team
// bootstrap path is open.
func UserCreate(svc users.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, userServiceUnavailable())
			return
		}
		var body users.Payload
		if err := validators.DecodeCreate(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var scope *tenancy.Scope
		if _, ok := middleware.IdentityFromContext(r.Context()); ok {
			resolved, err := requestScope(r, resolver)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			scope = &resolved
		}

		user, err := svc.Create(r.Context(), scope, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFiltered(r.Context(), logg, w, http.StatusCreated, user, fields.User)
	}
}

func UserUpdate(svc users.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, userServiceUnavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "uuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body users.Payload
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

func UserDelete(svc users.Service, resolver ScopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, userServiceUnavailable())
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
		responses.WriteMessage(w, http.StatusOK, "User deleted.")
	}
}
