// Package navigation decides where a session may go. It performs no I/O:
// both the redirect decision and menu filtering are deterministic
// functions of the identity state.
package navigation

import (
	"herohub/internal/domain/authz"
	"herohub/internal/session"
)

const (
	LoginPath   = "/login"
	HomePath    = "/tabs/home"
	LandingPath = "/"
)

// Target is a named destination. An empty Roles list means any
// authenticated identity may reach it.
type Target struct {
	Name  string       `json:"name"`
	Path  string       `json:"path"`
	Roles []authz.Role `json:"roles,omitempty"`
}

func (t Target) allows(role authz.Role) bool {
	if len(t.Roles) == 0 {
		return true
	}
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultMenu is the application's static menu, in display order.
var DefaultMenu = []Target{
	{Name: "home", Path: HomePath},
	{Name: "directory", Path: "/tabs/directory"},
	{Name: "leave", Path: "/tabs/leave"},
	{Name: "pdks", Path: "/tabs/pdks"},
	{Name: "assets", Path: "/tabs/assets"},
	{Name: "documents", Path: "/tabs/documents"},
	{Name: "onboarding", Path: "/tabs/onboarding", Roles: []authz.Role{authz.RoleHR, authz.RoleAdmin}},
	{Name: "admin", Path: "/admin", Roles: []authz.Role{authz.RoleAdmin}},
	{Name: "system", Path: "/system", Roles: []authz.Role{authz.RoleSuperAdmin}},
}

// DecideRedirect returns the path the session should be steered to. When
// the provider is still initializing there is no decision yet; callers
// show a loading state and ask again.
func DecideRedirect(state session.State, location string) (string, bool) {
	switch state {
	case session.StateUninitialized, session.StateInitializing:
		return "", false
	case session.StateUnauthenticated:
		if location != LoginPath && location != LandingPath {
			return LoginPath, true
		}
		return "", false
	case session.StateAuthenticated:
		if location == LoginPath {
			return HomePath, true
		}
		return "", false
	}
	return "", false
}

// VisibleMenuEntries filters targets for an identity, preserving the
// declared order. A nil identity sees nothing.
func VisibleMenuEntries(ident *session.Identity, targets []Target) []Target {
	if ident == nil {
		return nil
	}
	var out []Target
	for _, target := range targets {
		if target.allows(ident.Role) {
			out = append(out, target)
		}
	}
	return out
}
