package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const permManageAdmins = "permManageAdmins"

type stubPermissions struct {
	flags map[uuid.UUID]bool
}

func (s stubPermissions) HasPermission(_ context.Context, id uuid.UUID, permission string) (bool, error) {
	if permission != permManageAdmins {
		return false, pkgerrors.Newf(pkgerrors.CodeInternal, "unknown permission %q", permission)
	}
	granted, ok := s.flags[id]
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
	}
	return granted, nil
}

func permissionRequest(id auth.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admins", nil)
	return req.WithContext(WithIdentity(req.Context(), id))
}

func TestRequirePermission(t *testing.T) {
	granted := uuid.New()
	revoked := uuid.New()
	loader := stubPermissions{flags: map[uuid.UUID]bool{granted: true, revoked: false}}

	cases := []struct {
		name       string
		identity   *auth.Identity
		permission string
		want       int
	}{
		{"flag set", &auth.Identity{Type: enums.PrincipalAdmin, UUID: granted}, permManageAdmins, http.StatusOK},
		{"flag unset", &auth.Identity{Type: enums.PrincipalAdmin, UUID: revoked}, permManageAdmins, http.StatusForbidden},
		{"wrong principal type", &auth.Identity{Type: enums.PrincipalUser, UUID: granted}, permManageAdmins, http.StatusForbidden},
		{"row missing", &auth.Identity{Type: enums.PrincipalAdmin, UUID: uuid.New()}, permManageAdmins, http.StatusForbidden},
		{"unknown permission", &auth.Identity{Type: enums.PrincipalAdmin, UUID: granted}, "permLaunchRockets", http.StatusInternalServerError},
		{"no identity", nil, permManageAdmins, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequirePermission(loader, enums.PrincipalAdmin, tc.permission, nil, nil)(http.HandlerFunc(okHandler))

			req := httptest.NewRequest(http.MethodGet, "/api/admins", nil)
			if tc.identity != nil {
				req = permissionRequest(*tc.identity)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, tc.want, rec.Code)
		})
	}
}
