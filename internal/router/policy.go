package router

// Access levels for API routes. Every registered route declares exactly one,
// so the full surface can be audited (and tested) in a single table instead
// of reading middleware chains off individual groups.
type Access int

const (
	// Public routes require no credentials.
	Public Access = iota
	// Authenticated routes require a valid access token.
	Authenticated
	// Admin routes additionally require the admin role.
	Admin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	}
	return "unknown"
}
