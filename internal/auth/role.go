package auth

import "fmt"

// Role is the coarse access tier assigned to a user. Operations declare the
// set of roles allowed to invoke them; there are no per-resource ACLs.
type Role string

const (
	// RoleAdmin may upload, edit and delete gallery items.
	RoleAdmin Role = "admin"
	// RoleUser may only browse.
	RoleUser Role = "user"
)

// ParseRole validates a raw role string. Anything outside the known set is an
// error; callers at the token-decode boundary must treat that as an invalid
// credential, not as some third role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// OneOf reports whether r is a member of roles.
func (r Role) OneOf(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
