package navigation

import (
	"testing"

	"herohub/internal/domain/authz"
	"herohub/internal/session"
)

func TestDecideRedirectUnauthenticated(t *testing.T) {
	cases := []struct {
		location string
		wantTo   string
		wantOK   bool
	}{
		{"/tabs/home", LoginPath, true},
		{"/tabs/leave", LoginPath, true},
		{"/admin", LoginPath, true},
		{LoginPath, "", false},
		{LandingPath, "", false},
	}
	for _, tc := range cases {
		to, ok := DecideRedirect(session.StateUnauthenticated, tc.location)
		if to != tc.wantTo || ok != tc.wantOK {
			t.Fatalf("DecideRedirect(unauthenticated, %q) = (%q, %v), want (%q, %v)",
				tc.location, to, ok, tc.wantTo, tc.wantOK)
		}
	}
}

func TestDecideRedirectAuthenticated(t *testing.T) {
	if to, ok := DecideRedirect(session.StateAuthenticated, LoginPath); !ok || to != HomePath {
		t.Fatalf("authenticated at /login should bounce to home, got (%q, %v)", to, ok)
	}
	for _, location := range []string{HomePath, "/tabs/leave", LandingPath} {
		if to, ok := DecideRedirect(session.StateAuthenticated, location); ok {
			t.Fatalf("no redirect expected at %q, got %q", location, to)
		}
	}
}

func TestDecideRedirectWhileInitializing(t *testing.T) {
	for _, state := range []session.State{session.StateUninitialized, session.StateInitializing} {
		if to, ok := DecideRedirect(state, "/tabs/home"); ok {
			t.Fatalf("no decision may be made in state %s, got %q", state, to)
		}
	}
}

func TestVisibleMenuEntriesByRole(t *testing.T) {
	targets := []Target{
		{Name: "home", Path: "/tabs/home"},
		{Name: "admin", Path: "/admin", Roles: []authz.Role{authz.RoleAdmin}},
		{Name: "reports", Path: "/reports"},
	}

	admin := &session.Identity{Role: authz.RoleAdmin}
	got := VisibleMenuEntries(admin, targets)
	if len(got) != 3 {
		t.Fatalf("admin sees %d entries, want 3", len(got))
	}
	if got[0].Name != "home" || got[1].Name != "admin" || got[2].Name != "reports" {
		t.Fatalf("order not preserved: %+v", got)
	}

	manager := &session.Identity{Role: authz.RoleManager}
	got = VisibleMenuEntries(manager, targets)
	if len(got) != 2 {
		t.Fatalf("manager sees %d entries, want 2", len(got))
	}
	if got[0].Name != "home" || got[1].Name != "reports" {
		t.Fatalf("unexpected entries for manager: %+v", got)
	}
}

func TestVisibleMenuEntriesNilIdentity(t *testing.T) {
	if got := VisibleMenuEntries(nil, DefaultMenu); got != nil {
		t.Fatalf("nil identity sees %d entries, want none", len(got))
	}
}

func TestVisibleMenuEntriesUnknownRole(t *testing.T) {
	ident := &session.Identity{Role: authz.ParseRole("Intern")}
	got := VisibleMenuEntries(ident, DefaultMenu)
	for _, target := range got {
		if len(target.Roles) != 0 {
			t.Fatalf("unknown role reached restricted entry %q", target.Name)
		}
	}
	if len(got) == 0 {
		t.Fatal("unrestricted entries must stay visible to any authenticated identity")
	}
}

func TestSuperAdminIsNotAdminForMenus(t *testing.T) {
	super := &session.Identity{Role: authz.RoleSuperAdmin}
	for _, target := range VisibleMenuEntries(super, DefaultMenu) {
		if target.Name == "admin" {
			t.Fatal("admin entry is restricted to the Admin role exactly")
		}
	}
}
