package middleware

import (
	"context"
	"net/http"

	"github.com/funnelhub/funnelhub-backend/api/responses"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
	"github.com/google/uuid"
)

// PermissionLoader reads a boolean capability flag from the caller's own row.
// Unknown permission names must surface as CodeInternal; a missing row as CodeNotFound.
type PermissionLoader interface {
	HasPermission(ctx context.Context, principal uuid.UUID, permission string) (bool, error)
}

// RequirePermission must run after Authorize.
func RequirePermission(loader PermissionLoader, requiredType enums.PrincipalType, permission string, denials DenialRecorder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reject := func(reason string) {
				if denials != nil {
					denials.IncAuthDenied(permission, reason)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
			}

			id, ok := IdentityFromContext(ctx)
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity"))
				return
			}
			if id.Type != requiredType {
				reject("wrong_principal")
				return
			}

			granted, err := loader.HasPermission(ctx, id.UUID, permission)
			switch {
			case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
				reject("principal_missing")
				return
			case err != nil:
				responses.WriteError(ctx, logg, w, err)
				return
			case !granted:
				reject("flag_unset")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
