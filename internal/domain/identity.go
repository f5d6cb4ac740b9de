package domain

// RoleAdmin is the role required to list or deactivate assets.
const RoleAdmin = "admin"

// Identity carries the caller id and roles supplied by the external
// identity/authorization provider. The engine trusts these as handed to it
// and enforces them as preconditions; it never authenticates callers itself.
type Identity struct {
	CallerID string
	Roles    []string
}

// HasRole reports whether the identity carries the given role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}
