package client

import "vlabgallery/internal/auth"

// Route is a client-side view with an optional role requirement. An empty
// AllowedRoles means the view is public.
type Route struct {
	Path         string
	AllowedRoles []auth.Role
}

// Decision is the outcome of a navigation check.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// RedirectLogin sends a logged-out visitor to the login entry point.
	RedirectLogin
	// RedirectHome sends a logged-in visitor with the wrong role to the
	// public default view.
	RedirectHome
)

// CanEnter mirrors the server's role check for navigation. It is a usability
// optimization only: the server-side guard is the security boundary, and a
// client that skips this check simply gets the server's 401/403 instead.
func CanEnter(route Route, session *Session) Decision {
	if len(route.AllowedRoles) == 0 {
		return Allow
	}

	role, ok := session.Role()
	if !ok {
		return RedirectLogin
	}
	if !role.OneOf(route.AllowedRoles...) {
		return RedirectHome
	}
	return Allow
}
