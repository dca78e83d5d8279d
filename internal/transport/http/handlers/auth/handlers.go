package authhandler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"herohub/internal/domain/audit"
	"herohub/internal/domain/auth"
	"herohub/internal/domain/authz"
	cryptoutil "herohub/internal/platform/crypto"
	"herohub/internal/platform/email"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
)

// AuthService is the slice of the auth domain service these handlers use.
type AuthService interface {
	FindActiveUserByEmail(ctx context.Context, email string) (auth.AuthUser, error)
	FindUserByID(ctx context.Context, userID string) (auth.AuthUser, error)
	CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error
	RevokeSession(ctx context.Context, userID, tokenHash string) error
	RotateSession(ctx context.Context, userID, oldHash, newHash string, expires time.Time) error
	UpdateLastLogin(ctx context.Context, userID string) error
	UserIDByEmail(ctx context.Context, email string) (string, error)
	CreatePasswordReset(ctx context.Context, userID, tokenHash string, expires time.Time) error
	PasswordResetUserID(ctx context.Context, tokenHash string) (string, error)
	UpdateUserPassword(ctx context.Context, userID, hash string) error
	MarkPasswordResetUsed(ctx context.Context, tokenHash string) error
	UpdateMFASecret(ctx context.Context, userID string, secretEnc []byte) error
	GetMFASecret(ctx context.Context, userID string) ([]byte, error)
	SetMFAEnabled(ctx context.Context, userID string, enabled bool) error
}

// PermissionResolver builds a user's effective module permission set.
type PermissionResolver interface {
	Resolve(ctx context.Context, tenantID string, role authz.Role) (authz.ModulePermissionSet, error)
}

type Handler struct {
	Auth     AuthService
	Authz    PermissionResolver
	Lockout  *auth.Lockout
	Crypto   *cryptoutil.Service
	Mailer   email.Mailer
	Audit    *audit.Service
	Secret   string
	TokenTTL time.Duration
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

// identityPayload is the profile shape shared by login, refresh and /auth/me.
// Permissions always carry the caller's fully resolved module set, so clients
// never have to special-case admin roles.
type identityPayload struct {
	ID          string                    `json:"id"`
	TenantID    string                    `json:"tenantId"`
	DisplayName string                    `json:"displayName"`
	Email       string                    `json:"email"`
	AvatarURL   string                    `json:"avatarUrl,omitempty"`
	Role        string                    `json:"role"`
	Permissions authz.ModulePermissionSet `json:"permissions"`
}

func (h *Handler) identityFor(r *http.Request, user auth.AuthUser) (identityPayload, error) {
	perms, err := h.Authz.Resolve(r.Context(), user.TenantID, authz.ParseRole(user.Role))
	if err != nil {
		return identityPayload{}, err
	}
	return identityPayload{
		ID:          user.ID,
		TenantID:    user.TenantID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		AvatarURL:   user.AvatarURL,
		Role:        user.Role,
		Permissions: perms,
	}, nil
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", reqID)
		return
	}

	if h.Lockout != nil && h.Lockout.Locked(r.Context(), email) {
		api.Fail(w, http.StatusTooManyRequests, "account_locked", "too many failed attempts, try again later", reqID)
		return
	}

	user, err := h.Auth.FindActiveUserByEmail(r.Context(), email)
	if err != nil {
		h.recordFailure(r, email)
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		h.recordFailure(r, email)
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}

	if user.MFAEnabled {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", reqID)
			return
		}
		secret, err := h.mfaSecret(user)
		if err != nil || secret == "" || !totp.Validate(payload.MFACode, secret) {
			h.recordFailure(r, email)
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", reqID)
			return
		}
	}

	token, err := h.issueSession(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	if h.Lockout != nil {
		h.Lockout.Reset(r.Context(), email)
	}
	if err := h.Auth.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}
	h.audit(r, user.TenantID, user.ID, audit.ActionLogin, "", nil)

	identity, err := h.identityFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_error", "failed to resolve permissions", reqID)
		return
	}
	api.Success(w, map[string]any{"token": token, "user": identity}, reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok && user.Token != "" {
		if err := h.Auth.RevokeSession(r.Context(), user.UserID, auth.HashToken(user.Token)); err != nil {
			slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
		}
		h.audit(r, user.TenantID, user.UserID, audit.ActionLogout, "", nil)
	}
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

// HandleRefresh rotates the caller's session and issues a fresh token. The
// old token stops working the moment the rotation lands.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	user, err := h.Auth.FindUserByID(r.Context(), caller.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "account no longer active", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}
	if err := h.Auth.RotateSession(r.Context(), user.ID, auth.HashToken(caller.Token), auth.HashToken(token), time.Now().Add(h.TokenTTL)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to rotate session", reqID)
		return
	}

	identity, err := h.identityFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_error", "failed to resolve permissions", reqID)
		return
	}
	api.Success(w, map[string]any{"token": token, "user": identity}, reqID)
}

// HandleMe returns the caller's profile with freshly resolved permissions.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	user, err := h.Auth.FindUserByID(r.Context(), caller.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "account no longer active", reqID)
		return
	}
	identity, err := h.identityFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_error", "failed to resolve permissions", reqID)
		return
	}
	api.Success(w, identity, reqID)
}

func (h *Handler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload resetRequest
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	// Responds identically whether or not the address exists.
	if userID, err := h.Auth.UserIDByEmail(r.Context(), strings.ToLower(strings.TrimSpace(payload.Email))); err == nil {
		token, err := generateToken()
		if err != nil {
			slog.Warn("password reset token generation failed", "userId", userID, "err", err)
		} else {
			expires := time.Now().Add(2 * time.Hour)
			if err := h.Auth.CreatePasswordReset(r.Context(), userID, auth.HashToken(token), expires); err != nil {
				slog.Warn("password reset insert failed", "userId", userID, "err", err)
			} else if h.Mailer != nil {
				body := "A password reset was requested for your account.\nReset token: " + token + "\nThe token expires in 2 hours."
				if err := h.Mailer.Send(r.Context(), payload.Email, "Password reset", body); err != nil {
					slog.Warn("password reset mail failed", "userId", userID, "err", err)
				}
			}
		}
	}

	api.Success(w, map[string]string{"status": "reset_requested"}, reqID)
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload resetPasswordRequest
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if len(payload.NewPassword) < 8 {
		api.Fail(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters", reqID)
		return
	}

	userID, err := h.Auth.PasswordResetUserID(r.Context(), auth.HashToken(payload.Token))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_token", "invalid or expired token", reqID)
		return
	}
	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to update password", reqID)
		return
	}
	if err := h.Auth.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update password", reqID)
		return
	}
	if err := h.Auth.MarkPasswordResetUsed(r.Context(), auth.HashToken(payload.Token)); err != nil {
		slog.Warn("password reset mark used failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "password_reset"}, reqID)
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if h.Crypto == nil || !h.Crypto.Configured() {
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires encryption key", reqID)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "HeroHub",
		AccountName: user.UserID,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to generate mfa secret", reqID)
		return
	}
	encrypted, err := h.Crypto.EncryptString(key.Secret())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", reqID)
		return
	}
	if err := h.Auth.UpdateMFASecret(r.Context(), user.UserID, encrypted); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", reqID)
		return
	}
	api.Success(w, map[string]string{"secret": key.Secret(), "otpauthUrl": key.URL()}, reqID)
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.setMFA(w, r, true)
}

func (h *Handler) HandleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.setMFA(w, r, false)
}

func (h *Handler) setMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if h.Crypto == nil || !h.Crypto.Configured() {
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires encryption key", reqID)
		return
	}
	var payload mfaCodeRequest
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	secretEnc, err := h.Auth.GetMFASecret(r.Context(), user.UserID)
	if err != nil || len(secretEnc) == 0 {
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", reqID)
		return
	}
	secret, err := h.Crypto.DecryptString(secretEnc)
	if err != nil || !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", reqID)
		return
	}
	if err := h.Auth.SetMFAEnabled(r.Context(), user.UserID, enable); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_update_failed", "failed to update mfa", reqID)
		return
	}
	status := "disabled"
	if enable {
		status = "enabled"
	}
	api.Success(w, map[string]string{"status": status}, reqID)
}

// mfaSecret recovers the TOTP seed for a user whose MFA is enabled. Setup
// refuses to store a seed without an encryption key, so a missing key here
// means the deployment lost it.
func (h *Handler) mfaSecret(user auth.AuthUser) (string, error) {
	if h.Crypto == nil || !h.Crypto.Configured() {
		return "", errors.New("mfa verification requires encryption key")
	}
	return h.Crypto.DecryptString(user.MFASecretEnc)
}

func (h *Handler) issueSession(r *http.Request, user auth.AuthUser) (string, error) {
	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
	}, h.TokenTTL)
	if err != nil {
		return "", err
	}
	if err := h.Auth.CreateSession(r.Context(), user.ID, auth.HashToken(token), time.Now().Add(h.TokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func (h *Handler) recordFailure(r *http.Request, email string) {
	if h.Lockout != nil {
		h.Lockout.Fail(r.Context(), email)
	}
	h.audit(r, "", "", audit.ActionLoginFailed, "", map[string]string{"email": email})
}

func (h *Handler) audit(r *http.Request, tenantID, actorID, action, entityID string, detail any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), tenantID, actorID, action, "auth", entityID, middleware.GetRequestID(r.Context()), r.RemoteAddr, detail); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func generateToken() (string, error) {
	buff := make([]byte, 32)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buff), nil
}
