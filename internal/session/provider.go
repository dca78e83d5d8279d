package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State models the provider lifecycle:
// uninitialized -> initializing -> {authenticated, unauthenticated}.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Provider owns the process-wide "current identity" state. It is the
// only writer; everyone else reads snapshots through State, Current and
// the Evaluator. Operations are serialized: a login and a logout in
// flight at the same time cannot interleave, the one that finishes last
// determines the final state, and no partially updated identity is ever
// observable.
type Provider struct {
	backend Backend
	storage Storage

	opMu sync.Mutex // serializes Initialize/Login/Logout/RefreshIdentity

	mu       sync.RWMutex
	state    State
	identity *Identity
	token    string
}

func NewProvider(backend Backend, storage Storage) *Provider {
	return &Provider{
		backend: backend,
		storage: storage,
		state:   StateUninitialized,
	}
}

func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Current returns a snapshot of the active identity, or nil when
// unauthenticated. Mutating the snapshot has no effect on the provider.
func (p *Provider) Current() *Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.identity.clone()
}

// Token returns the active session token, empty when unauthenticated.
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *Provider) publish(state State, identity *Identity, token string) {
	p.mu.Lock()
	p.state = state
	p.identity = identity
	p.token = token
	p.mu.Unlock()
}

// Initialize restores a previously persisted session. Any failure (no
// stored session, expired token, network error, malformed record)
// resolves to unauthenticated; nothing here is user-visible. The
// resulting state is returned for convenience.
func (p *Provider) Initialize(ctx context.Context) State {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	p.publish(StateInitializing, nil, "")

	stored, err := p.storage.Load()
	if err != nil || stored == nil || stored.Token == "" {
		if err != nil {
			slog.Debug("session restore: load failed", "err", err)
		}
		p.publish(StateUnauthenticated, nil, "")
		return StateUnauthenticated
	}

	identity, err := p.backend.FetchProfile(ctx, stored.Token)
	if err != nil || identity == nil {
		// The stored token is kept: a transient network failure on this
		// launch should not force a fresh login on the next one.
		slog.Debug("session restore: profile fetch failed", "err", err)
		p.publish(StateUnauthenticated, nil, "")
		return StateUnauthenticated
	}

	p.publish(StateAuthenticated, identity, stored.Token)
	return StateAuthenticated
}

// Login exchanges credentials for a session. On failure the previous
// identity, if any, stays exactly as it was. On success the new identity
// replaces the old one wholesale.
func (p *Provider) Login(ctx context.Context, creds Credentials) (*Identity, error) {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	result, err := p.backend.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	identity := result.Identity.clone()
	if identity == nil {
		identity = &Identity{}
	}
	if identity.Permissions == nil {
		profile, err := p.backend.FetchProfile(ctx, result.Token)
		if err == nil && profile != nil {
			identity = profile
		} else {
			// Permission fetch failure is not a login failure; the user is
			// in, with the conservative all-false permission set.
			slog.Warn("login: permission fetch failed", "userId", identity.ID, "err", err)
		}
	}

	if err := p.storage.Save(&PersistedSession{Token: result.Token, UserID: identity.ID, SavedAt: time.Now()}); err != nil {
		slog.Warn("login: session persist failed", "err", err)
	}

	p.publish(StateAuthenticated, identity, result.Token)
	return identity.clone(), nil
}

// Logout invalidates the backend session best-effort and always clears
// the local state. The user asked to leave; backend trouble cannot keep
// them logged in.
func (p *Provider) Logout(ctx context.Context) {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	token := p.Token()
	if token != "" {
		if err := p.backend.Logout(ctx, token); err != nil {
			slog.Warn("logout: backend invalidation failed", "err", err)
		}
	}
	if err := p.storage.Clear(); err != nil {
		slog.Warn("logout: session clear failed", "err", err)
	}
	p.publish(StateUnauthenticated, nil, "")
}

// RefreshIdentity re-fetches the profile and replaces the permission set
// wholesale. A failed refresh keeps the previous known-good identity in
// effect and never downgrades to unauthenticated.
func (p *Provider) RefreshIdentity(ctx context.Context) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	token := p.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	identity, err := p.backend.FetchProfile(ctx, token)
	if err != nil {
		slog.Warn("identity refresh failed, keeping previous", "err", err)
		return err
	}
	if identity == nil {
		return nil
	}

	p.publish(StateAuthenticated, identity, token)
	return nil
}
