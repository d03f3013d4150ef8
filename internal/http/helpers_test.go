package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
)

var (
	buyer  = &domain.User{ID: "user-1", Email: "buyer@example.com", Role: domain.RoleUser}
	seller = &domain.User{ID: "seller-1", Email: "seller@example.com", Role: domain.RoleSeller}
	admin  = &domain.User{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
)

func newJSONRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUser(r *http.Request, u *domain.User) *http.Request {
	return r.WithContext(ContextWithUser(r.Context(), u))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp
}
