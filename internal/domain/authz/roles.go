package authz

// Role is the coarse classification attached to a user. Menu-level gating
// works on roles; module-level gating works on ModulePermissionSet.
type Role string

const (
	RoleUnknown    Role = ""
	RoleEmployee   Role = "Employee"
	RoleManager    Role = "Manager"
	RoleHR         Role = "HR"
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "SuperAdmin"
)

var AllRoles = []Role{
	RoleEmployee,
	RoleManager,
	RoleHR,
	RoleAdmin,
	RoleSuperAdmin,
}

// ParseRole maps a stored role label to the closed enumeration. Anything
// unrecognized becomes RoleUnknown, which carries no privileges.
func ParseRole(label string) Role {
	for _, role := range AllRoles {
		if string(role) == label {
			return role
		}
	}
	return RoleUnknown
}

func (r Role) Valid() bool {
	return ParseRole(string(r)) != RoleUnknown
}

func (r Role) String() string {
	return string(r)
}
