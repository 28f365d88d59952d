package middleware

import (
	"context"
	"net/http"

	"github.com/funnelhub/funnelhub-backend/api/responses"
	"github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
)

// Gate selects which principal types may pass Authorize.
type Gate string

const (
	GateAdmin       Gate = "admin"
	GateUser        Gate = "user"
	GateUserOrAdmin Gate = "user_or_admin"
)

func (g Gate) allows(t enums.PrincipalType) bool {
	switch g {
	case GateAdmin:
		return t == enums.PrincipalAdmin
	case GateUser:
		return t == enums.PrincipalUser
	case GateUserOrAdmin:
		return t.IsValid()
	}
	return false
}

// PrincipalVerifier confirms that the principal behind a token still exists.
type PrincipalVerifier interface {
	PrincipalExists(ctx context.Context, id auth.Identity) (bool, error)
}

// DenialRecorder counts authorization rejections.
type DenialRecorder interface {
	IncAuthDenied(gate, reason string)
}

// Authorizer builds the identity gates shared by every protected route.
type Authorizer struct {
	cfg        config.JWTConfig
	principals PrincipalVerifier
	denials    DenialRecorder
	logg       *logger.Logger
}

func NewAuthorizer(cfg config.JWTConfig, principals PrincipalVerifier, denials DenialRecorder, logg *logger.Logger) *Authorizer {
	return &Authorizer{cfg: cfg, principals: principals, denials: denials, logg: logg}
}

// Authorize decodes the caller's token, re-fetches the principal and
// rejects anything the gate does not admit. Principals are never cached.
func (a *Authorizer) Authorize(gate Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id, ok := auth.Decode(a.cfg, auth.TokenFromRequest(r, a.cfg.CookieName))
			if !ok {
				a.deny(ctx, w, gate, "invalid_token", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing or invalid token"))
				return
			}
			if !gate.allows(id.Type) {
				a.deny(ctx, w, gate, "wrong_principal", pkgerrors.New(pkgerrors.CodeUnauthorized, "principal type not allowed"))
				return
			}

			exists, err := a.principals.PrincipalExists(ctx, id)
			if err != nil {
				responses.WriteError(ctx, a.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify principal"))
				return
			}
			if !exists {
				a.deny(ctx, w, gate, "principal_missing", pkgerrors.New(pkgerrors.CodeForbidden, "principal no longer exists"))
				return
			}

			next.ServeHTTP(w, r.WithContext(a.attach(ctx, id)))
		})
	}
}

// OptionalIdentity attaches a verified identity when the request carries one
// and passes anonymous requests through untouched.
func (a *Authorizer) OptionalIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := auth.TokenFromRequest(r, a.cfg.CookieName)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, ok := auth.Decode(a.cfg, raw)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			exists, err := a.principals.PrincipalExists(ctx, id)
			if err != nil {
				responses.WriteError(ctx, a.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify principal"))
				return
			}
			if !exists {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(a.attach(ctx, id)))
		})
	}
}

func (a *Authorizer) attach(ctx context.Context, id auth.Identity) context.Context {
	ctx = WithIdentity(ctx, id)
	if a.logg != nil {
		ctx = a.logg.WithPrincipal(ctx, string(id.Type), id.UUID.String())
	}
	return ctx
}

func (a *Authorizer) deny(ctx context.Context, w http.ResponseWriter, gate Gate, reason string, err error) {
	if a.denials != nil {
		a.denials.IncAuthDenied(string(gate), reason)
	}
	if a.logg != nil {
		ctx = a.logg.WithFields(ctx, map[string]any{"gate": string(gate), "reason": reason})
	}
	responses.WriteError(ctx, a.logg, w, err)
}
