package authz

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"Employee", RoleEmployee},
		{"Manager", RoleManager},
		{"HR", RoleHR},
		{"Admin", RoleAdmin},
		{"SuperAdmin", RoleSuperAdmin},
		{"", RoleUnknown},
		{"admin", RoleUnknown},
		{"Superadmin", RoleUnknown},
		{"root", RoleUnknown},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.in); got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPermissionSetMissingModuleIsFalse(t *testing.T) {
	perms := ModulePermissionSet{
		ModuleLeaveRequests: {CanRead: true},
	}
	if perms.CanRead("PAYROLL") || perms.CanWrite("PAYROLL") || perms.CanDelete("PAYROLL") {
		t.Fatal("absent module must have no access")
	}
	if perms.HasAny("PAYROLL") {
		t.Fatal("absent module must not report any permission")
	}

	var empty ModulePermissionSet
	if empty.CanRead(ModuleLeaveRequests) {
		t.Fatal("nil set must have no access")
	}
}

func TestPermissionSetAllows(t *testing.T) {
	perms := ModulePermissionSet{
		ModuleLeaveRequests: {CanRead: true, CanWrite: false, CanDelete: false},
	}
	if !perms.Allows(ModuleLeaveRequests, ActionRead) {
		t.Fatal("expected read allowed")
	}
	if perms.Allows(ModuleLeaveRequests, ActionWrite) {
		t.Fatal("expected write denied")
	}
	if perms.Allows(ModuleLeaveRequests, Action("approve")) {
		t.Fatal("unknown action must be denied")
	}
}

func TestPermissionSetEqual(t *testing.T) {
	a := ModulePermissionSet{ModulePDKS: {CanRead: true}}
	b := ModulePermissionSet{ModulePDKS: {CanRead: true}}
	if !a.Equal(b) {
		t.Fatal("expected equal sets")
	}

	// An explicit all-false entry is the same as no entry at all.
	c := ModulePermissionSet{ModulePDKS: {CanRead: true}, ModuleAssets: {}}
	if !a.Equal(c) {
		t.Fatal("all-false entry must compare equal to absence")
	}

	d := ModulePermissionSet{ModulePDKS: {CanRead: true, CanWrite: true}}
	if a.Equal(d) {
		t.Fatal("expected unequal sets")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := ModulePermissionSet{ModuleAssets: {CanRead: true}}
	copied := orig.Clone()
	copied[ModuleAssets] = ModulePermission{CanRead: true, CanDelete: true}
	if orig.CanDelete(ModuleAssets) {
		t.Fatal("mutating the clone must not affect the original")
	}
}
