package routing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/events"
	"github.com/spec-kit/pos-terminal/internal/identity"
	"github.com/spec-kit/pos-terminal/internal/session"
)

// fakeNav records navigation without feeding location changes back, so the
// redirect guard can be observed in isolation.
type fakeNav struct {
	path     string
	applied  bool // whether Replace actually moves the location
	replaces []string
	pushes   []string
}

func (n *fakeNav) Current() string { return n.path }

func (n *fakeNav) Replace(path string) {
	n.replaces = append(n.replaces, path)
	if n.applied {
		n.path = path
	}
}

func (n *fakeNav) Push(path string) {
	n.pushes = append(n.pushes, path)
	if n.applied {
		n.path = path
	}
}

func authedSnap(user identity.User) session.Snapshot {
	u := user
	return session.Snapshot{User: &u, Token: "tok", IsAuthenticated: true}
}

func newGatekeeperAt(path string, applied bool) (*Gatekeeper, *fakeNav) {
	nav := &fakeNav{path: path, applied: applied}
	return NewGatekeeper(nav, 0, zap.NewNop()), nav
}

func observe(g *Gatekeeper, snap session.Snapshot) {
	g.mu.Lock()
	g.current = snap
	g.mu.Unlock()
}

func TestNoRedirectWhileLoading(t *testing.T) {
	g, nav := newGatekeeperAt(RouteRoot, true)
	observe(g, session.Snapshot{IsLoading: true})

	g.Evaluate()

	assert.Empty(t, nav.replaces)
}

func TestUnauthenticatedIssuesZeroNavigations(t *testing.T) {
	for _, path := range []string{RouteRoot, RouteLogin, RouteOrders, "/nope"} {
		g, nav := newGatekeeperAt(path, true)
		observe(g, session.Snapshot{})

		g.Evaluate()
		g.Evaluate()

		assert.Empty(t, nav.replaces, "path %s", path)
		assert.Empty(t, nav.pushes, "path %s", path)
	}
}

func TestSupplierIsPinnedToSupplierRoute(t *testing.T) {
	for _, path := range []string{RouteRoot, RouteOrders, RouteInventory, RouteReports} {
		g, nav := newGatekeeperAt(path, true)
		observe(g, authedSnap(identity.User{ID: "42", Type: identity.RoleSupplier}))

		g.Evaluate()

		require.Equal(t, []string{RouteSupplier}, nav.replaces, "path %s", path)
	}
}

func TestSupplierAlreadyOnSupplierRouteStays(t *testing.T) {
	g, nav := newGatekeeperAt(RouteSupplier, true)
	observe(g, authedSnap(identity.User{ID: "42", Type: identity.RoleSupplier}))

	g.Evaluate()

	assert.Empty(t, nav.replaces)
}

func TestLandingPathsRedirectToOrders(t *testing.T) {
	for _, path := range []string{RouteRoot, RouteLogin} {
		g, nav := newGatekeeperAt(path, true)
		observe(g, authedSnap(identity.User{ID: "1", Type: "WAITER"}))

		g.Evaluate()

		assert.Equal(t, []string{RouteOrders}, nav.replaces, "path %s", path)
	}
}

func TestDeepLinksArePreserved(t *testing.T) {
	for _, path := range []string{RouteInventory, RouteMenu, RouteStaff, RouteCash, RouteSales, RouteExpenses, RouteReports, RouteHome, RouteOrders} {
		g, nav := newGatekeeperAt(path, true)
		observe(g, authedSnap(identity.User{ID: "1", Type: "WAITER"}))

		g.Evaluate()

		assert.Empty(t, nav.replaces, "path %s", path)
	}
}

func TestUnknownPathFallsBack(t *testing.T) {
	g, nav := newGatekeeperAt("/definitely-not-a-route", true)
	observe(g, authedSnap(identity.User{ID: "1", Type: "WAITER"}))
	g.Evaluate()
	assert.Equal(t, []string{RouteOrders}, nav.replaces)

	g, nav = newGatekeeperAt("/definitely-not-a-route", true)
	observe(g, authedSnap(identity.User{ID: "42", Type: identity.RoleSupplier}))
	g.Evaluate()
	assert.Equal(t, []string{RouteSupplier}, nav.replaces)
}

func TestEachInconsistencyFiresAtMostOnce(t *testing.T) {
	// The navigation has not landed yet; re-evaluating the same
	// inconsistency must not fire again.
	g, nav := newGatekeeperAt(RouteRoot, false)
	observe(g, authedSnap(identity.User{ID: "1", Type: "WAITER"}))

	g.Evaluate()
	g.Evaluate()
	g.Evaluate()

	assert.Equal(t, []string{RouteOrders}, nav.replaces)
}

func TestGuardRearmsAfterRedirectLands(t *testing.T) {
	g, nav := newGatekeeperAt(RouteRoot, true)
	observe(g, authedSnap(identity.User{ID: "1", Type: "WAITER"}))

	g.Evaluate() // redirects to /orders
	g.Evaluate() // landed; guard resets

	// A fresh inconsistency still redirects.
	nav.path = RouteLogin
	g.Evaluate()

	assert.Equal(t, []string{RouteOrders, RouteOrders}, nav.replaces)
}

func TestBindReactsToSessionAndLocationEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	history := NewHistory(dispatcher, RouteInventory)
	g := NewGatekeeper(history, 0, zap.NewNop())
	teardown := g.Bind(dispatcher)
	defer teardown()

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventSessionChanged, authedSnap(identity.User{ID: "42", Type: identity.RoleSupplier}))))

	assert.Equal(t, RouteSupplier, history.Current())
}

func TestTeardownStopsEvaluation(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	history := NewHistory(dispatcher, RouteInventory)
	g := NewGatekeeper(history, 0, zap.NewNop())
	teardown := g.Bind(dispatcher)
	teardown()

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventSessionChanged, authedSnap(identity.User{ID: "42", Type: identity.RoleSupplier}))))

	assert.Equal(t, RouteInventory, history.Current())
}

func TestPostLoginRedirectsByRole(t *testing.T) {
	g, nav := newGatekeeperAt(RouteLogin, true)
	g.PostLogin(identity.User{ID: "42", Type: identity.RoleSupplier})
	assert.Equal(t, []string{RouteSupplier}, nav.replaces)

	g, nav = newGatekeeperAt(RouteLogin, true)
	g.PostLogin(identity.User{ID: "1", Type: "WAITER"})
	assert.Equal(t, []string{RouteOrders}, nav.replaces)
}

func TestPostLoginDeferredTick(t *testing.T) {
	nav := &fakeNav{path: RouteLogin, applied: true}
	g := NewGatekeeper(nav, 10*time.Millisecond, zap.NewNop())

	g.PostLogin(identity.User{ID: "1", Type: "WAITER"})
	assert.Empty(t, nav.replaces, "redirect waits for the deferred tick")

	require.Eventually(t, func() bool {
		return nav.Current() == RouteOrders
	}, time.Second, 5*time.Millisecond)
}

func TestLandingRoute(t *testing.T) {
	assert.Equal(t, RouteSupplier, LandingRoute(identity.User{Type: identity.RoleSupplier}))
	assert.Equal(t, RouteOrders, LandingRoute(identity.User{Type: "WAITER"}))
	assert.Equal(t, RouteOrders, LandingRoute(identity.User{}))
}

func TestHistoryStack(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var locations []string
	dispatcher.Subscribe(events.EventLocationChanged, func(_ context.Context, ev events.Event) error {
		locations = append(locations, ev.Payload.(events.LocationChangedPayload).Path)
		return nil
	})

	h := NewHistory(dispatcher, RouteRoot)
	h.Push(RouteOrders)
	h.Replace(RouteInventory)
	h.Push(RouteInventory) // same path, no event
	h.Back()

	assert.Equal(t, RouteRoot, h.Current())
	assert.Equal(t, []string{RouteOrders, RouteInventory, RouteRoot}, locations)
}
