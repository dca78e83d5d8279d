package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"herohub/internal/domain/auth"
	"herohub/internal/domain/authz"
	cryptoutil "herohub/internal/platform/crypto"
)

// fakeAuthService serves a single account from memory and records the
// session writes the handler performs.
type fakeAuthService struct {
	user          auth.AuthUser
	findErr       error
	sessionHashes []string
	lastLoginSet  bool
}

var errNoAccount = errors.New("no such account")

func (f *fakeAuthService) FindActiveUserByEmail(_ context.Context, email string) (auth.AuthUser, error) {
	if f.findErr != nil {
		return auth.AuthUser{}, f.findErr
	}
	if email != f.user.Email {
		return auth.AuthUser{}, errNoAccount
	}
	return f.user, nil
}

func (f *fakeAuthService) FindUserByID(_ context.Context, userID string) (auth.AuthUser, error) {
	if userID != f.user.ID {
		return auth.AuthUser{}, errNoAccount
	}
	return f.user, nil
}

func (f *fakeAuthService) CreateSession(_ context.Context, _, tokenHash string, _ time.Time) error {
	f.sessionHashes = append(f.sessionHashes, tokenHash)
	return nil
}

func (f *fakeAuthService) RevokeSession(context.Context, string, string) error { return nil }
func (f *fakeAuthService) RotateSession(_ context.Context, _, _, newHash string, _ time.Time) error {
	f.sessionHashes = append(f.sessionHashes, newHash)
	return nil
}

func (f *fakeAuthService) UpdateLastLogin(context.Context, string) error {
	f.lastLoginSet = true
	return nil
}

func (f *fakeAuthService) UserIDByEmail(context.Context, string) (string, error) {
	return f.user.ID, nil
}
func (f *fakeAuthService) CreatePasswordReset(context.Context, string, string, time.Time) error {
	return nil
}
func (f *fakeAuthService) PasswordResetUserID(context.Context, string) (string, error) {
	return f.user.ID, nil
}
func (f *fakeAuthService) UpdateUserPassword(context.Context, string, string) error { return nil }
func (f *fakeAuthService) MarkPasswordResetUsed(context.Context, string) error      { return nil }
func (f *fakeAuthService) UpdateMFASecret(context.Context, string, []byte) error    { return nil }
func (f *fakeAuthService) GetMFASecret(context.Context, string) ([]byte, error) {
	return f.user.MFASecretEnc, nil
}
func (f *fakeAuthService) SetMFAEnabled(context.Context, string, bool) error { return nil }

type fakeResolver struct {
	perms authz.ModulePermissionSet
}

func (f *fakeResolver) Resolve(context.Context, string, authz.Role) (authz.ModulePermissionSet, error) {
	return f.perms, nil
}

// 32 bytes hex-encoded, test only.
const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestHandler(t *testing.T, mfaEnabled bool) (*Handler, *fakeAuthService, string) {
	t.Helper()

	crypto, err := cryptoutil.New(testEncryptionKey)
	if err != nil {
		t.Fatalf("crypto service: %v", err)
	}

	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := auth.AuthUser{
		ID:           "user-1",
		TenantID:     "tenant-1",
		Role:         "Employee",
		DisplayName:  "Ada",
		Email:        "ada@acme.test",
		PasswordHash: hash,
	}

	seed := ""
	if mfaEnabled {
		key, err := totp.Generate(totp.GenerateOpts{Issuer: "HeroHub", AccountName: user.Email})
		if err != nil {
			t.Fatalf("generate totp key: %v", err)
		}
		seed = key.Secret()
		enc, err := crypto.EncryptString(seed)
		if err != nil {
			t.Fatalf("encrypt seed: %v", err)
		}
		user.MFAEnabled = true
		user.MFASecretEnc = enc
	}

	svc := &fakeAuthService{user: user}
	h := &Handler{
		Auth:     svc,
		Authz:    &fakeResolver{perms: authz.DefaultsFor(authz.RoleEmployee)},
		Crypto:   crypto,
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	}
	return h, svc, seed
}

func postLogin(t *testing.T, h *Handler, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return env.Error.Code
}

func TestLoginWrongPassword(t *testing.T) {
	h, _, _ := newTestHandler(t, false)

	rec := postLogin(t, h, map[string]string{"email": "ada@acme.test", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "invalid_credentials" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestLoginMFARequired(t *testing.T) {
	h, svc, _ := newTestHandler(t, true)

	rec := postLogin(t, h, map[string]string{"email": "ada@acme.test", "password": "s3cret-pass"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "mfa_required" {
		t.Fatalf("unexpected error code %q", code)
	}
	if len(svc.sessionHashes) != 0 {
		t.Fatal("no session may be created before the mfa code is verified")
	}
}

func TestLoginMFAInvalidCode(t *testing.T) {
	h, svc, seed := newTestHandler(t, true)

	valid, err := totp.GenerateCode(seed, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	// Flip the first digit so the code is certainly wrong.
	wrong := string('0'+(valid[0]-'0'+1)%10) + valid[1:]

	rec := postLogin(t, h, map[string]string{"email": "ada@acme.test", "password": "s3cret-pass", "mfaCode": wrong})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "mfa_invalid" {
		t.Fatalf("unexpected error code %q", code)
	}
	if len(svc.sessionHashes) != 0 {
		t.Fatal("no session may be created for an invalid mfa code")
	}
}

func TestLoginMFASuccess(t *testing.T) {
	h, svc, seed := newTestHandler(t, true)

	code, err := totp.GenerateCode(seed, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	rec := postLogin(t, h, map[string]string{"email": "ada@acme.test", "password": "s3cret-pass", "mfaCode": code})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			User  struct {
				ID   string `json:"id"`
				Role string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success || env.Data.Token == "" {
		t.Fatalf("expected token in response, got %s", rec.Body.String())
	}
	if env.Data.User.ID != "user-1" || env.Data.User.Role != "Employee" {
		t.Fatalf("unexpected user payload: %+v", env.Data.User)
	}
	if len(svc.sessionHashes) != 1 || svc.sessionHashes[0] != auth.HashToken(env.Data.Token) {
		t.Fatalf("expected one session stored under the token hash, got %v", svc.sessionHashes)
	}
	if !svc.lastLoginSet {
		t.Fatal("expected last login update")
	}
}

func TestLoginMFAWithoutEncryptionKey(t *testing.T) {
	h, svc, seed := newTestHandler(t, true)
	h.Crypto = nil

	code, err := totp.GenerateCode(seed, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	rec := postLogin(t, h, map[string]string{"email": "ada@acme.test", "password": "s3cret-pass", "mfaCode": code})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "mfa_invalid" {
		t.Fatalf("unexpected error code %q", code)
	}
	if len(svc.sessionHashes) != 0 {
		t.Fatal("no session may be created when the seed cannot be decrypted")
	}
}
