package controllers

import (
	"context"
	"net/http"

	"github.com/funnelhub/funnelhub-backend/api/middleware"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/pkg/auth"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
)

// ScopeResolver turns the authenticated identity into a tenancy scope.
type ScopeResolver interface {
	Resolve(ctx context.Context, id auth.Identity) (tenancy.Scope, error)
}

func requestScope(r *http.Request, resolver ScopeResolver) (tenancy.Scope, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return tenancy.Scope{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if resolver == nil {
		return tenancy.Scope{}, pkgerrors.New(pkgerrors.CodeInternal, "scope resolver unavailable")
	}
	return resolver.Resolve(r.Context(), id)
}
