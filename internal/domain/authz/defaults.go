package authz

func allModules(perm ModulePermission) ModulePermissionSet {
	out := make(ModulePermissionSet, len(Modules))
	for _, module := range Modules {
		out[module] = perm
	}
	return out
}

// DefaultGrants is the built-in role baseline. Tenants can override
// individual entries through the admin panel; overrides are stored in
// role_module_permissions and overlaid at resolution time.
//
// Admins receive a full permission set here instead of bypassing module
// checks at call sites: there is exactly one authorization rule in the
// system, the module lookup.
var DefaultGrants = map[Role]ModulePermissionSet{
	RoleEmployee: {
		ModuleEmployees:     {CanRead: true},
		ModuleLeaveRequests: {CanRead: true, CanWrite: true},
		ModulePDKS:          {CanRead: true},
		ModuleAssets:        {CanRead: true},
		ModuleDocuments:     {CanRead: true, CanWrite: true},
		ModuleOnboarding:    {CanRead: true, CanWrite: true},
	},
	RoleManager: {
		ModuleEmployees:     {CanRead: true},
		ModuleLeaveRequests: {CanRead: true, CanWrite: true},
		ModulePDKS:          {CanRead: true},
		ModuleAssets:        {CanRead: true, CanWrite: true},
		ModuleDocuments:     {CanRead: true, CanWrite: true},
		ModuleOnboarding:    {CanRead: true, CanWrite: true},
	},
	RoleHR: {
		ModuleEmployees:     {CanRead: true, CanWrite: true},
		ModuleLeaveRequests: {CanRead: true, CanWrite: true, CanDelete: true},
		ModulePDKS:          {CanRead: true, CanWrite: true},
		ModuleAssets:        {CanRead: true, CanWrite: true, CanDelete: true},
		ModuleDocuments:     {CanRead: true, CanWrite: true, CanDelete: true},
		ModuleOnboarding:    {CanRead: true, CanWrite: true, CanDelete: true},
	},
}

func init() {
	full := ModulePermission{CanRead: true, CanWrite: true, CanDelete: true}
	DefaultGrants[RoleAdmin] = allModules(full)
	DefaultGrants[RoleSuperAdmin] = allModules(full)
}

// DefaultsFor returns a copy of the baseline grants for a role. Unknown
// roles get an empty set.
func DefaultsFor(role Role) ModulePermissionSet {
	defaults, ok := DefaultGrants[role]
	if !ok {
		return ModulePermissionSet{}
	}
	return defaults.Clone()
}
