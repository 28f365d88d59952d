package tenancy

import (
	"context"
	"fmt"

	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
)

type usersRepository interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type licensesRepository interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.License, error)
}

// Resolver loads the tenant facts behind an identity. It is consulted on
// every request; nothing is cached.
type Resolver struct {
	users    usersRepository
	licenses licensesRepository
}

func NewResolver(users usersRepository, licenses licensesRepository) (*Resolver, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if licenses == nil {
		return nil, fmt.Errorf("licenses repository required")
	}
	return &Resolver{users: users, licenses: licenses}, nil
}

func (r *Resolver) Resolve(ctx context.Context, id auth.Identity) (Scope, error) {
	switch {
	case id.IsAdmin():
		return AdminScope(), nil
	case !id.IsUser():
		return Scope{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown principal type")
	}

	user, err := r.users.FindByUUID(ctx, id.UUID)
	if err != nil {
		if repo.NotFound(err) {
			return Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "principal no longer exists")
		}
		return Scope{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load caller")
	}

	license, err := r.licenses.FindByUUID(ctx, user.LicenseUUID)
	if err != nil {
		if repo.NotFound(err) {
			return Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "caller has no active team")
		}
		return Scope{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load caller license")
	}

	return Scope{
		LicenseID:   license.ID,
		LicenseUUID: license.UUID,
		UserUUID:    user.UUID,
		IsMaster:    user.IsAdminMaster,
	}, nil
}
