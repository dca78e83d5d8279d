package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"herohub/internal/domain/authz"
	"herohub/internal/session"
)

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case payload.Email == "locked@acme.test":
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": map[string]string{"code": "account_locked"}})
		case payload.Password != "s3cret":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": map[string]string{"code": "invalid_credentials"}})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"token": "tok-123",
					"user": map[string]any{
						"id": "u1", "tenantId": "t1", "displayName": "Ada", "email": payload.Email, "role": "Employee",
						"permissions": map[string]any{
							"LEAVE_REQUESTS": map[string]bool{"can_read": true, "can_write": true},
						},
					},
				},
			})
		}
	})

	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id": "u1", "tenantId": "t1", "displayName": "Ada", "email": "ada@acme.test", "role": "Employee",
				"permissions": map[string]any{"EMPLOYEES": map[string]bool{"can_read": true}},
			},
		})
	})

	mux.HandleFunc("GET /api/v1/me/menu", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]string{
				{"name": "Home", "path": "/tabs/home"},
				{"name": "Leave", "path": "/tabs/leave"},
			},
		})
	})

	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]string{"status": "logged_out"}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBackendLogin(t *testing.T) {
	srv := newFakeServer(t)
	backend := NewBackend(srv.URL)

	result, err := backend.Login(context.Background(), session.Credentials{Email: "ada@acme.test", Password: "s3cret"})
	require.NoError(t, err)
	require.Equal(t, "tok-123", result.Token)
	require.Equal(t, authz.RoleEmployee, result.Identity.Role)
	require.True(t, result.Identity.Permissions.CanWrite(authz.ModuleLeaveRequests))
}

func TestBackendLoginMapsFailures(t *testing.T) {
	srv := newFakeServer(t)
	backend := NewBackend(srv.URL)

	_, err := backend.Login(context.Background(), session.Credentials{Email: "ada@acme.test", Password: "wrong"})
	require.ErrorIs(t, err, session.ErrInvalidCredentials)

	_, err = backend.Login(context.Background(), session.Credentials{Email: "locked@acme.test", Password: "s3cret"})
	require.ErrorIs(t, err, session.ErrAccountLocked)
}

func TestBackendFetchProfile(t *testing.T) {
	srv := newFakeServer(t)
	backend := NewBackend(srv.URL)

	ident, err := backend.FetchProfile(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, "u1", ident.ID)
	require.True(t, ident.Permissions.CanRead(authz.ModuleEmployees))

	_, err = backend.FetchProfile(context.Background(), "stale")
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestBackendMenu(t *testing.T) {
	srv := newFakeServer(t)
	backend := NewBackend(srv.URL)

	entries, err := backend.Menu(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, []MenuEntry{
		{Name: "Home", Path: "/tabs/home"},
		{Name: "Leave", Path: "/tabs/leave"},
	}, entries)

	_, err = backend.Menu(context.Background(), "stale")
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestBackendLogout(t *testing.T) {
	srv := newFakeServer(t)
	backend := NewBackend(srv.URL)
	require.NoError(t, backend.Logout(context.Background(), "tok-123"))
}
