package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"herohub/internal/domain/auth"
	"herohub/internal/domain/authz"
)

type stubResolver struct {
	perms authz.ModulePermissionSet
	err   error
}

func (s *stubResolver) Resolve(context.Context, string, authz.Role) (authz.ModulePermissionSet, error) {
	return s.perms, s.err
}

func requestAs(user auth.UserContext) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(WithUser(req.Context(), user))
}

func TestRequireModule(t *testing.T) {
	resolver := &stubResolver{perms: authz.ModulePermissionSet{
		authz.ModuleLeaveRequests: {CanRead: true},
	}}
	gate := func(action authz.Action) http.Handler {
		return RequireModule(resolver, authz.ModuleLeaveRequests, action)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
	}

	rec := httptest.NewRecorder()
	gate(authz.ActionRead).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}

	user := auth.UserContext{UserID: "user-1", TenantID: "tenant-1", Role: "employee"}

	rec = httptest.NewRecorder()
	gate(authz.ActionRead).ServeHTTP(rec, requestAs(user))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("granted read: expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	gate(authz.ActionWrite).ServeHTTP(rec, requestAs(user))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing write: expected 403, got %d", rec.Code)
	}
}

func TestRequireModuleResolverError(t *testing.T) {
	resolver := &stubResolver{err: errors.New("db down")}
	handler := RequireModule(resolver, authz.ModuleEmployees, authz.ActionRead)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run when permissions cannot be resolved")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(auth.UserContext{UserID: "user-1", Role: "hr"}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
