package controllers

import (
	"net/http"
	"time"

	"github.com/funnelhub/funnelhub-backend/api/responses"
	"github.com/funnelhub/funnelhub-backend/api/validators"
	"github.com/funnelhub/funnelhub-backend/internal/auth"
	pkgAuth "github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
	"github.com/funnelhub/funnelhub-backend/pkg/types"
	"github.com/go-chi/chi/v5"
)

// principalKind reads the {kind} path segment ("admin" or "user").
func principalKind(r *http.Request) (enums.PrincipalType, error) {
	kind, err := enums.ParsePrincipalType(chi.URLParam(r, "kind"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid principal type").
			WithDetails(map[string]string{"kind": "must be admin or user"})
	}
	return kind, nil
}

// AuthLogin answers the token in the body and in an HttpOnly cookie.
func AuthLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := principalKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), kind, body)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) && logg != nil {
				logg.Info(logg.WithField(r.Context(), "principal_type", kind.String()), "auth.login.failed")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookieName := cfg.CookieName
		if cookieName == "" {
			cookieName = pkgAuth.DefaultCookieName
		}
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    result.Token,
			Path:     "/",
			Expires:  time.Now().Add(cfg.TTL()),
			MaxAge:   int(cfg.TTL().Seconds()),
			HttpOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		responses.WriteSuccess(w, types.TokenResponse{Token: result.Token})
	}
}
