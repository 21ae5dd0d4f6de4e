package models

// Role is the closed set of roles a user can hold. Values outside the set
// decode to RoleUnknown at the storage and request boundaries.
type Role string

const (
	RoleProductManager Role = "Product Manager"
	RoleDeveloper      Role = "Developer"
	RoleDesigner       Role = "Designer"
	RoleUnknown        Role = "unknown"
)

var knownRoles = []Role{RoleProductManager, RoleDeveloper, RoleDesigner}

// ParseRole maps a raw role name onto the closed set. Matching is exact and
// case-sensitive; anything else yields RoleUnknown.
func ParseRole(raw string) Role {
	for _, r := range knownRoles {
		if string(r) == raw {
			return r
		}
	}
	return RoleUnknown
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return ParseRole(string(r)) != RoleUnknown
}

func (r Role) String() string { return string(r) }

// KnownRoles returns a copy of the assignable roles.
func KnownRoles() []Role {
	out := make([]Role, len(knownRoles))
	copy(out, knownRoles)
	return out
}
