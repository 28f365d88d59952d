package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/funnelhub/funnelhub-backend/api/middleware"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	scope tenancy.Scope
	err   error
}

func (s stubResolver) Resolve(context.Context, auth.Identity) (tenancy.Scope, error) {
	return s.scope, s.err
}

func userIdentity() auth.Identity {
	return auth.Identity{Type: enums.PrincipalUser, UUID: uuid.New()}
}

// newRequest builds a request carrying an optional identity and chi params.
func newRequest(method, target, body string, id *auth.Identity, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if id != nil {
		ctx = middleware.WithIdentity(ctx, *id)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()
	var envelope struct {
		Data any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code string, details map[string]any) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Error.Code, envelope.Error.Details
}
