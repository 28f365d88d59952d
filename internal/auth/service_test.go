package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/funnelhub/funnelhub-backend/internal/admins"
	"github.com/funnelhub/funnelhub-backend/internal/users"
	pkgAuth "github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/db/dbtest"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "funnelhub",
	ExpirationMinutes: 30,
}

type fixture struct {
	svc    Service
	users  *users.Repository
	admins *admins.Repository
	hasher *security.PasswordHasher
	now    time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.New(t)
	f := fixture{
		users:  users.NewRepository(client.DB()),
		admins: admins.NewRepository(client.DB()),
		hasher: security.NewPasswordHasher(config.PasswordConfig{
			ArgonMemoryKB:    64,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		}),
		now: time.Now().UTC().Truncate(time.Second),
	}
	svc, err := NewService(ServiceParams{
		Users:     f.users,
		Admins:    f.admins,
		Verifier:  f.hasher,
		JWTConfig: testJWT,
		Now:       func() time.Time { return f.now },
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f fixture) seedUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	user := &models.User{LicenseUUID: uuid.New(), Email: email, PasswordHash: hash}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f fixture) seedAdmin(t *testing.T, email, password string) *models.Admin {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	admin := &models.Admin{Email: email, PasswordHash: hash}
	require.NoError(t, f.admins.Create(context.Background(), admin))
	return admin
}

func TestLoginMintsTokenForPrincipalKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "owner@acme.test", "correct-horse")
	admin := f.seedAdmin(t, "ops@funnelhub.test", "battery-staple")

	resp, err := f.svc.Login(ctx, enums.PrincipalUser, LoginRequest{Email: " Owner@Acme.test ", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := pkgAuth.ParseToken(testJWT, resp.Token)
	require.NoError(t, err)
	require.Equal(t, pkgAuth.Identity{Type: enums.PrincipalUser, UUID: user.UUID}, claims.Identity())
	require.Equal(t, f.now.Add(30*time.Minute), claims.ExpiresAt.Time.UTC())

	resp, err = f.svc.Login(ctx, enums.PrincipalAdmin, LoginRequest{Email: admin.Email, Password: "battery-staple"})
	require.NoError(t, err)
	claims, err = pkgAuth.ParseToken(testJWT, resp.Token)
	require.NoError(t, err)
	require.Equal(t, enums.PrincipalAdmin, claims.Auth.Type)
	require.Equal(t, admin.UUID, claims.Auth.UUID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "owner@acme.test", "correct-horse")
	f.seedAdmin(t, "ops@funnelhub.test", "battery-staple")

	cases := map[string]struct {
		kind enums.PrincipalType
		req  LoginRequest
	}{
		"wrong password": {enums.PrincipalUser, LoginRequest{Email: "owner@acme.test", Password: "wrong-horse"}},
		"short password": {enums.PrincipalAdmin, LoginRequest{Email: "ops@funnelhub.test", Password: "wrongpw"}},
		"unknown email":  {enums.PrincipalUser, LoginRequest{Email: "ghost@acme.test", Password: "correct-horse"}},
		"wrong kind":     {enums.PrincipalAdmin, LoginRequest{Email: "owner@acme.test", Password: "correct-horse"}},
		"blank email":    {enums.PrincipalUser, LoginRequest{Email: "  ", Password: "correct-horse"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tc.kind, tc.req)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized), "got %v", err)
		})
	}
}

func TestPrincipalExists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "owner@acme.test", "correct-horse")
	admin := f.seedAdmin(t, "ops@funnelhub.test", "battery-staple")

	ok, err := f.svc.PrincipalExists(ctx, pkgAuth.Identity{Type: enums.PrincipalUser, UUID: user.UUID})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.svc.PrincipalExists(ctx, pkgAuth.Identity{Type: enums.PrincipalAdmin, UUID: user.UUID})
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, f.admins.Delete(ctx, admin.ID))
	ok, err = f.svc.PrincipalExists(ctx, pkgAuth.Identity{Type: enums.PrincipalAdmin, UUID: admin.UUID})
	require.NoError(t, err)
	require.False(t, ok)
}

type brokenStore struct{}

func (brokenStore) FindCredentialsByEmail(context.Context, string) (*pkgAuth.Credentials, error) {
	return nil, errors.New("connection reset")
}

func (brokenStore) ExistsByUUID(context.Context, uuid.UUID) (bool, error) {
	return false, errors.New("connection reset")
}

func TestStoreFailuresAreDependencyErrors(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Users:     brokenStore{},
		Admins:    brokenStore{},
		Verifier:  security.NewPasswordHasher(config.PasswordConfig{}),
		JWTConfig: testJWT,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), enums.PrincipalUser, LoginRequest{Email: "a@b.test", Password: "12345678"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	_, err = svc.PrincipalExists(context.Background(), pkgAuth.Identity{Type: enums.PrincipalUser, UUID: uuid.New()})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Admins: brokenStore{}, Verifier: security.NewPasswordHasher(config.PasswordConfig{})})
	require.Error(t, err)
}
