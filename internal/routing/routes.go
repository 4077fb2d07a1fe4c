package routing

import "github.com/spec-kit/pos-terminal/internal/identity"

// Client-side routes of the terminal.
const (
	RouteRoot      = "/"
	RouteLogin     = "/login"
	RouteHome      = "/home"
	RouteOrders    = "/orders"
	RouteInventory = "/inventory"
	RouteSupplier  = "/supplier"
	RouteMenu      = "/menu"
	RouteStaff     = "/staff"
	RouteCash      = "/cash"
	RouteSales     = "/sales"
	RouteExpenses  = "/expenses"
	RouteReports   = "/reports"
)

var knownRoutes = map[string]struct{}{
	RouteRoot:      {},
	RouteLogin:     {},
	RouteHome:      {},
	RouteOrders:    {},
	RouteInventory: {},
	RouteSupplier:  {},
	RouteMenu:      {},
	RouteStaff:     {},
	RouteCash:      {},
	RouteSales:     {},
	RouteExpenses:  {},
	RouteReports:   {},
}

// Known reports whether path is a registered route.
func Known(path string) bool {
	_, ok := knownRoutes[path]
	return ok
}

// LandingRoute is the canonical post-login destination for a user. The
// restricted supplier role is confined to the supplier view; everyone else
// lands on orders.
func LandingRoute(user identity.User) string {
	if user.IsSupplier() {
		return RouteSupplier
	}
	return RouteOrders
}
