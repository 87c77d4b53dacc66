package client

import "context"

// GuardState is the route guard's lifecycle: every mount of a protected page
// starts at StateChecking and resolves to one of the other two states; no
// result is cached across navigations.
type GuardState int

const (
	StateChecking GuardState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s GuardState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Decision tells the navigation layer what to do with the current route.
type Decision struct {
	State GuardState
	// Redirect is the path to navigate to instead of rendering; empty means
	// render the protected content.
	Redirect string
	// ReplaceHistory avoids a back-navigation loop into the guarded page.
	ReplaceHistory bool
}

type Guard struct {
	client *Client
}

func NewGuard(c *Client) *Guard {
	return &Guard{client: c}
}

// Check resolves the guard for a protected route. Any authentication failure
// (missing token, expired token, unreachable service) redirects to the login
// route, replacing history.
func (g *Guard) Check(ctx context.Context) Decision {
	if !g.client.IsAuthenticated(ctx) {
		return Decision{State: StateUnauthenticated, Redirect: LoginPath, ReplaceHistory: true}
	}
	return Decision{State: StateAuthenticated}
}

// CheckAdmin resolves the guard for an admin-only route: once authenticated,
// the current user's role is loaded and non-admins are sent to the default
// page instead of rendering.
func (g *Guard) CheckAdmin(ctx context.Context) Decision {
	d := g.Check(ctx)
	if d.State != StateAuthenticated {
		return d
	}

	usr, err := g.client.Me(ctx)
	if err != nil {
		return Decision{State: StateUnauthenticated, Redirect: LoginPath, ReplaceHistory: true}
	}
	if !usr.IsAdmin() {
		return Decision{State: StateAuthenticated, Redirect: PageURL(DefaultPage())}
	}
	return d
}
