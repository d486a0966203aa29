package session

import "strings"

// Routes of the dashboard.
const (
	RouteRoot  = "/"
	RouteLogin = "/login"
	RouteAdmin = "/admin"
)

// AdminRoutes are the protected screens.
var AdminRoutes = []string{
	RouteAdmin,
	"/admin/products",
	"/admin/orders",
	"/admin/collections",
	"/admin/bundles",
	"/admin/offers",
	"/admin/shipping",
	"/admin/notifications",
	"/admin/popups",
	"/admin/settings",
}

// Decision is the outcome of a route check.
type Decision struct {
	Allow    bool
	Redirect string // set when Allow is false and the state is known
	Loading  bool   // the session has not been restored yet
}

// AuthState is what the guard needs from a session.
type AuthState interface {
	State() State
}

// Guard decides whether a route may render. It never touches the network.
type Guard struct {
	auth AuthState
}

// NewGuard returns a guard over a session.
func NewGuard(auth AuthState) *Guard {
	return &Guard{auth: auth}
}

// Protected reports whether route needs an authenticated session.
func Protected(route string) bool {
	return route == RouteAdmin || strings.HasPrefix(route, RouteAdmin+"/")
}

// Allow checks route against the current session state.
func (g *Guard) Allow(route string) Decision {
	if route == RouteRoot || route == "" {
		return Decision{Redirect: RouteAdmin}
	}
	if !Protected(route) {
		return Decision{Allow: true}
	}
	switch g.auth.State() {
	case StateAuthenticated:
		return Decision{Allow: true}
	case StateUnknown:
		return Decision{Loading: true}
	default:
		return Decision{Redirect: RouteLogin}
	}
}
