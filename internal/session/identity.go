package session

import (
	"context"
	"errors"
	"time"

	"herohub/internal/domain/authz"
)

// Identity is the in-memory representation of the authenticated user.
// Providers hand out copies; consumers never see shared mutable state.
type Identity struct {
	ID          string                    `json:"id"`
	TenantID    string                    `json:"tenantId"`
	DisplayName string                    `json:"displayName"`
	Email       string                    `json:"email"`
	AvatarURL   string                    `json:"avatarUrl,omitempty"`
	Role        authz.Role                `json:"role"`
	Permissions authz.ModulePermissionSet `json:"modulePermissions"`
}

func (i *Identity) clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	out.Permissions = i.Permissions.Clone()
	return &out
}

type Credentials struct {
	Email    string
	Password string
	MFACode  string
}

// LoginResult is what the backend returns on a successful credential
// exchange. Identity may arrive without a populated permission set, in
// which case the provider issues exactly one profile fetch.
type LoginResult struct {
	Token    string
	Identity *Identity
}

// Backend abstracts the remote authentication and profile services.
type Backend interface {
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
	Logout(ctx context.Context, token string) error
	FetchProfile(ctx context.Context, token string) (*Identity, error)
}

// PersistedSession is the opaque record remembered across process
// restarts. The token alone is enough to re-establish the session; the
// identity is always re-fetched.
type PersistedSession struct {
	Token   string    `json:"token"`
	UserID  string    `json:"userId"`
	SavedAt time.Time `json:"savedAt"`
}

// Storage is the key-value persistence behind session restore. Load
// returns (nil, nil) when nothing is stored.
type Storage interface {
	Load() (*PersistedSession, error)
	Save(*PersistedSession) error
	Clear() error
}

// ErrInvalidCredentials and ErrAccountLocked are the two authentication
// failures surfaced to the login caller. Every other failure kind is
// absorbed by the provider.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked, try again later")
	ErrNotAuthenticated   = errors.New("not authenticated")
)
