package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"herohub/internal/domain/auth"
)

type stubSessions struct {
	valid  bool
	err    error
	userID string
	hash   string
}

func (s *stubSessions) SessionValid(_ context.Context, userID, tokenHash string) (bool, error) {
	s.userID = userID
	s.hash = tokenHash
	return s.valid, s.err
}

func TestAuthAttachesUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{
		UserID:   "user-1",
		TenantID: "tenant-1",
		Role:     "employee",
	}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	sessions := &stubSessions{valid: true}
	var got auth.UserContext
	var ok bool
	handler := Auth(secret, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("expected user in context")
	}
	if got.UserID != "user-1" || got.TenantID != "tenant-1" || got.Role != "employee" {
		t.Fatalf("unexpected user context: %+v", got)
	}
	if got.Token != token {
		t.Fatal("expected raw token on user context")
	}
	if sessions.hash != auth.HashToken(token) {
		t.Fatal("expected session lookup by token hash")
	}
}

func TestAuthRevokedSessionStaysAnonymous(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "user-1"}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler := Auth(secret, &stubSessions{valid: false})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("expected anonymous request for revoked session")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthBadTokenStaysAnonymous(t *testing.T) {
	handler := Auth("test-secret", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("expected anonymous request for bad token")
		}
	}))

	for _, header := range []string{"Bearer not-a-jwt", "Basic abc", "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "user-1"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
