package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/internal/users"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubUserService struct {
	users.Service
	gotScope *tenancy.Scope
	called   bool
	err      error
}

func (s *stubUserService) Create(_ context.Context, scope *tenancy.Scope, in users.Payload) (*models.User, error) {
	s.called, s.gotScope = true, scope
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: 3, UUID: uuid.New(), LicenseUUID: uuid.New(), Email: *in.Email, PasswordHash: "argon2id$secret", IsAdminMaster: true}, nil
}

func TestUserCreateAnonymousBootstrap(t *testing.T) {
	svc := &stubUserService{}
	req := newRequest(http.MethodPost, "/api/users", `{"email":"owner@acme.test","password":"correct-horse"}`, nil, nil)

	rec := serve(UserCreate(svc, stubResolver{err: pkgerrors.New(pkgerrors.CodeInternal, "must not resolve")}, nil), req)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, svc.called)
	require.Nil(t, svc.gotScope)

	body := decodeData(t, rec).(map[string]any)
	require.Equal(t, "owner@acme.test", body["email"])
	require.Equal(t, true, body["isAdminMaster"])
	require.NotContains(t, body, "password")
	require.NotContains(t, body, "userId")
}

func TestUserCreateResolvesScopeForAuthenticatedCaller(t *testing.T) {
	svc := &stubUserService{}
	id := userIdentity()
	scope := tenancy.Scope{LicenseID: 2, LicenseUUID: uuid.New(), UserUUID: id.UUID, IsMaster: true}
	body := `{"email":"new@acme.test","password":"correct-horse","licenseUuid":"` + scope.LicenseUUID.String() + `"}`

	rec := serve(UserCreate(svc, stubResolver{scope: scope}, nil), newRequest(http.MethodPost, "/api/users", body, &id, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.gotScope)
	require.Equal(t, scope, *svc.gotScope)
}

func TestUserCreateValidatesBeforeServiceCall(t *testing.T) {
	svc := &stubUserService{}
	cases := map[string]string{
		"missing password": `{"email":"owner@acme.test"}`,
		"short password":   `{"email":"owner@acme.test","password":"short"}`,
		"bad email":        `{"email":"not-an-email","password":"correct-horse"}`,
		"bad name":         `{"email":"owner@acme.test","password":"correct-horse","firstName":"R2D2"}`,
		"empty body":       ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(UserCreate(svc, stubResolver{}, nil), newRequest(http.MethodPost, "/api/users", body, nil, nil))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	require.False(t, svc.called)
}

func TestUserCreateConflict(t *testing.T) {
	svc := &stubUserService{err: pkgerrors.New(pkgerrors.CodeConflict, "user already exists")}
	rec := serve(UserCreate(svc, stubResolver{}, nil),
		newRequest(http.MethodPost, "/api/users", `{"email":"owner@acme.test","password":"correct-horse"}`, nil, nil))
	require.Equal(t, http.StatusConflict, rec.Code)
}
