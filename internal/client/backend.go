// Package client talks to a herohub server over its JSON API and adapts it
// to the session kernel's Backend and Storage contracts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"herohub/internal/domain/authz"
	"herohub/internal/session"
)

type Backend struct {
	BaseURL string
	HTTP    *http.Client
}

func NewBackend(baseURL string) *Backend {
	return &Backend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type wireIdentity struct {
	ID          string                    `json:"id"`
	TenantID    string                    `json:"tenantId"`
	DisplayName string                    `json:"displayName"`
	Email       string                    `json:"email"`
	AvatarURL   string                    `json:"avatarUrl"`
	Role        string                    `json:"role"`
	Permissions authz.ModulePermissionSet `json:"permissions"`
}

func (w wireIdentity) identity() *session.Identity {
	return &session.Identity{
		ID:          w.ID,
		TenantID:    w.TenantID,
		DisplayName: w.DisplayName,
		Email:       w.Email,
		AvatarURL:   w.AvatarURL,
		Role:        authz.ParseRole(w.Role),
		Permissions: w.Permissions,
	}
}

func (b *Backend) Login(ctx context.Context, creds session.Credentials) (session.LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
		"mfaCode":  creds.MFACode,
	})
	if err != nil {
		return session.LoginResult{}, err
	}

	var data struct {
		Token string       `json:"token"`
		User  wireIdentity `json:"user"`
	}
	status, err := b.do(ctx, http.MethodPost, "/api/v1/auth/login", "", bytes.NewReader(body), &data)
	switch {
	case err != nil:
		return session.LoginResult{}, err
	case status == http.StatusUnauthorized:
		return session.LoginResult{}, session.ErrInvalidCredentials
	case status == http.StatusTooManyRequests:
		return session.LoginResult{}, session.ErrAccountLocked
	case status != http.StatusOK:
		return session.LoginResult{}, fmt.Errorf("login: unexpected status %d", status)
	}
	return session.LoginResult{Token: data.Token, Identity: data.User.identity()}, nil
}

func (b *Backend) Logout(ctx context.Context, token string) error {
	status, err := b.do(ctx, http.MethodPost, "/api/v1/auth/logout", token, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("logout: unexpected status %d", status)
	}
	return nil
}

func (b *Backend) FetchProfile(ctx context.Context, token string) (*session.Identity, error) {
	var data wireIdentity
	status, err := b.do(ctx, http.MethodGet, "/api/v1/auth/me", token, nil, &data)
	switch {
	case err != nil:
		return nil, err
	case status == http.StatusUnauthorized:
		return nil, session.ErrNotAuthenticated
	case status != http.StatusOK:
		return nil, fmt.Errorf("profile: unexpected status %d", status)
	}
	return data.identity(), nil
}

// Menu fetches the caller's visible navigation entries; used by the CLI.
func (b *Backend) Menu(ctx context.Context, token string) ([]MenuEntry, error) {
	var entries []MenuEntry
	status, err := b.do(ctx, http.MethodGet, "/api/v1/me/menu", token, nil, &entries)
	switch {
	case err != nil:
		return nil, err
	case status == http.StatusUnauthorized:
		return nil, session.ErrNotAuthenticated
	case status != http.StatusOK:
		return nil, fmt.Errorf("menu: unexpected status %d", status)
	}
	return entries, nil
}

type MenuEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// do issues the request and decodes the envelope's data field into out. The
// HTTP status is returned even for API-level failures so callers can map it.
func (b *Backend) do(ctx context.Context, method, path, token string, body *bytes.Reader, out any) (int, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = body
	}
	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, reqBody)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, nil
	}
	if env.Success && out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}
