package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the login controller and the
// authorization middleware.
type Service interface {
	Login(ctx context.Context, kind enums.PrincipalType, req LoginRequest) (*LoginResponse, error)
	PrincipalExists(ctx context.Context, id pkgAuth.Identity) (bool, error)
}

// CredentialStore is implemented by the users and admins repositories.
type CredentialStore interface {
	FindCredentialsByEmail(ctx context.Context, email string) (*pkgAuth.Credentials, error)
	ExistsByUUID(ctx context.Context, id uuid.UUID) (bool, error)
}

type passwordVerifier interface {
	Verify(password, encoded string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users     CredentialStore
	Admins    CredentialStore
	Verifier  passwordVerifier
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type service struct {
	stores   map[enums.PrincipalType]CredentialStore
	verifier passwordVerifier
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user credential store is required")
	}
	if params.Admins == nil {
		return nil, fmt.Errorf("admin credential store is required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("password verifier is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		stores: map[enums.PrincipalType]CredentialStore{
			enums.PrincipalUser:  params.Users,
			enums.PrincipalAdmin: params.Admins,
		},
		verifier: params.Verifier,
		jwtCfg:   params.JWTConfig,
		now:      now,
	}, nil
}

func (s *service) Login(ctx context.Context, kind enums.PrincipalType, req LoginRequest) (*LoginResponse, error) {
	creds, err := s.authenticate(ctx, kind, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := pkgAuth.MintToken(s.jwtCfg, s.now().UTC(), creds.Identity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &LoginResponse{Token: token}, nil
}

// PrincipalExists re-fetches the principal a token names so deleted
// accounts lose access before their token expires.
func (s *service) PrincipalExists(ctx context.Context, id pkgAuth.Identity) (bool, error) {
	store, ok := s.stores[id.Type]
	if !ok {
		return false, nil
	}
	exists, err := store.ExistsByUUID(ctx, id.UUID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup principal")
	}
	return exists, nil
}

func (s *service) authenticate(ctx context.Context, kind enums.PrincipalType, email, password string) (*pkgAuth.Credentials, error) {
	store, ok := s.stores[kind]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown principal type")
	}

	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	creds, err := store.FindCredentialsByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup credentials")
	}

	valid, err := s.verifier.Verify(password, creds.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return creds, nil
}
