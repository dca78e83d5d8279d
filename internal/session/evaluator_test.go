package session

import (
	"testing"

	"herohub/internal/domain/authz"
)

type fixedSource struct {
	ident *Identity
}

func (f fixedSource) Current() *Identity { return f.ident.clone() }

func TestEvaluatorEmployeeScenario(t *testing.T) {
	evaluator := NewEvaluator(fixedSource{ident: &Identity{
		ID:   "u1",
		Role: authz.RoleEmployee,
		Permissions: authz.ModulePermissionSet{
			authz.ModuleLeaveRequests: {CanRead: true, CanWrite: false, CanDelete: false},
		},
	}})

	if !evaluator.CanRead(authz.ModuleLeaveRequests) {
		t.Fatal("expected read access")
	}
	if evaluator.CanWrite(authz.ModuleLeaveRequests) {
		t.Fatal("expected no write access")
	}
	if evaluator.CanDelete(authz.ModuleLeaveRequests) {
		t.Fatal("expected no delete access")
	}
	if !evaluator.HasAnyPermission(authz.ModuleLeaveRequests) {
		t.Fatal("read access alone should count as any permission")
	}
	if evaluator.IsAdmin() {
		t.Fatal("employee is not admin")
	}
}

func TestEvaluatorMissingModule(t *testing.T) {
	evaluator := NewEvaluator(fixedSource{ident: &Identity{
		Role:        authz.RoleManager,
		Permissions: authz.ModulePermissionSet{authz.ModulePDKS: {CanRead: true}},
	}})

	for _, module := range []string{authz.ModuleAssets, "NOT_A_MODULE", ""} {
		if evaluator.CanRead(module) || evaluator.CanWrite(module) || evaluator.CanDelete(module) || evaluator.HasAnyPermission(module) {
			t.Fatalf("module %q must resolve to no access", module)
		}
	}
}

func TestEvaluatorNoIdentity(t *testing.T) {
	evaluator := NewEvaluator(fixedSource{})

	if evaluator.CanRead(authz.ModuleLeaveRequests) {
		t.Fatal("no identity, no access")
	}
	if evaluator.HasAnyPermission(authz.ModuleLeaveRequests) {
		t.Fatal("no identity, no access")
	}
	if evaluator.IsAdmin() {
		t.Fatal("no identity, not admin")
	}
}

func TestEvaluatorUnloadedPermissions(t *testing.T) {
	evaluator := NewEvaluator(fixedSource{ident: &Identity{ID: "u1", Role: authz.RoleHR}})
	if evaluator.CanRead(authz.ModuleEmployees) {
		t.Fatal("unloaded permission set must answer false, not error")
	}
}

func TestIsAdminExactMatch(t *testing.T) {
	cases := []struct {
		role authz.Role
		want bool
	}{
		{authz.RoleAdmin, true},
		{authz.RoleSuperAdmin, false},
		{authz.RoleHR, false},
		{authz.RoleManager, false},
		{authz.RoleEmployee, false},
		{authz.RoleUnknown, false},
	}
	for _, tc := range cases {
		evaluator := NewEvaluator(fixedSource{ident: &Identity{Role: tc.role}})
		if got := evaluator.IsAdmin(); got != tc.want {
			t.Fatalf("IsAdmin for role %q = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestHasAnyPermissionCombines(t *testing.T) {
	evaluator := NewEvaluator(fixedSource{ident: &Identity{
		Permissions: authz.ModulePermissionSet{
			authz.ModuleDocuments: {CanDelete: true},
		},
	}})
	if !evaluator.HasAnyPermission(authz.ModuleDocuments) {
		t.Fatal("delete alone should count as any permission")
	}
}
