package authz

// Module identifiers. A module missing from a ModulePermissionSet is
// all-false: no implicit access.
const (
	ModuleEmployees     = "EMPLOYEES"
	ModuleLeaveRequests = "LEAVE_REQUESTS"
	ModulePDKS          = "PDKS"
	ModuleAssets        = "ASSETS"
	ModuleDocuments     = "DOCUMENTS"
	ModuleOnboarding    = "ONBOARDING"
	ModuleAdminPanel    = "ADMIN_PANEL"
)

var Modules = []string{
	ModuleEmployees,
	ModuleLeaveRequests,
	ModulePDKS,
	ModuleAssets,
	ModuleDocuments,
	ModuleOnboarding,
	ModuleAdminPanel,
}

func KnownModule(name string) bool {
	for _, m := range Modules {
		if m == name {
			return true
		}
	}
	return false
}

type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

type ModulePermission struct {
	CanRead   bool `json:"can_read"`
	CanWrite  bool `json:"can_write"`
	CanDelete bool `json:"can_delete"`
}

func (p ModulePermission) Any() bool {
	return p.CanRead || p.CanWrite || p.CanDelete
}

// ModulePermissionSet maps a module identifier to its capability flags.
type ModulePermissionSet map[string]ModulePermission

func (s ModulePermissionSet) CanRead(module string) bool {
	return s[module].CanRead
}

func (s ModulePermissionSet) CanWrite(module string) bool {
	return s[module].CanWrite
}

func (s ModulePermissionSet) CanDelete(module string) bool {
	return s[module].CanDelete
}

func (s ModulePermissionSet) HasAny(module string) bool {
	return s[module].Any()
}

func (s ModulePermissionSet) Allows(module string, action Action) bool {
	perm := s[module]
	switch action {
	case ActionRead:
		return perm.CanRead
	case ActionWrite:
		return perm.CanWrite
	case ActionDelete:
		return perm.CanDelete
	}
	return false
}

func (s ModulePermissionSet) Clone() ModulePermissionSet {
	if s == nil {
		return nil
	}
	out := make(ModulePermissionSet, len(s))
	for module, perm := range s {
		out[module] = perm
	}
	return out
}

// Equal compares two sets by value, treating absent entries as all-false.
func (s ModulePermissionSet) Equal(other ModulePermissionSet) bool {
	for module, perm := range s {
		if other[module] != perm {
			return false
		}
	}
	for module, perm := range other {
		if s[module] != perm {
			return false
		}
	}
	return true
}
