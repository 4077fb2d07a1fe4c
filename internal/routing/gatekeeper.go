// Package routing decides which view a session may sit on. The gatekeeper
// is a pure policy re-run on every session or location change; it never
// acts while the session is loading and issues at most one navigation per
// inconsistency, so redirects cannot loop.
package routing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/events"
	"github.com/spec-kit/pos-terminal/internal/identity"
	"github.com/spec-kit/pos-terminal/internal/session"
)

// Gatekeeper reconciles session state against the current location.
type Gatekeeper struct {
	nav    Navigator
	delay  time.Duration
	logger *zap.Logger

	mu           sync.Mutex
	current      session.Snapshot
	lastRedirect string
}

// NewGatekeeper builds a gatekeeper. delay is the deferred tick between a
// login commit and its post-login redirect.
func NewGatekeeper(nav Navigator, delay time.Duration, logger *zap.Logger) *Gatekeeper {
	return &Gatekeeper{
		nav:     nav,
		delay:   delay,
		logger:  logger,
		current: session.Snapshot{IsLoading: true},
	}
}

// Bind subscribes the gatekeeper to session and location changes and
// returns a teardown function.
func (g *Gatekeeper) Bind(dispatcher events.Dispatcher) func() {
	sessionSub := dispatcher.Subscribe(events.EventSessionChanged, func(_ context.Context, ev events.Event) error {
		snap, ok := ev.Payload.(session.Snapshot)
		if !ok {
			return nil
		}
		g.mu.Lock()
		g.current = snap
		g.mu.Unlock()
		g.Evaluate()
		return nil
	})
	locationSub := dispatcher.Subscribe(events.EventLocationChanged, func(_ context.Context, _ events.Event) error {
		g.Evaluate()
		return nil
	})

	return func() {
		sessionSub.Cancel()
		locationSub.Cancel()
	}
}

// Evaluate runs the routing policy against the last observed session state
// and the current location.
func (g *Gatekeeper) Evaluate() {
	g.mu.Lock()
	snap := g.current
	path := g.nav.Current()

	// Never redirect while the startup reconciliation is pending.
	if snap.IsLoading {
		g.mu.Unlock()
		return
	}

	// Unauthenticated sessions render the login surface in place; no
	// route-based redirect is ever attempted.
	if !snap.IsAuthenticated || snap.User == nil {
		g.lastRedirect = ""
		g.mu.Unlock()
		return
	}

	target := g.targetFor(*snap.User, path)
	if target == "" || target == path {
		if path == g.lastRedirect {
			// The redirect landed; arm the guard for the next
			// inconsistency.
			g.lastRedirect = ""
		}
		g.mu.Unlock()
		return
	}

	if g.lastRedirect == target {
		// Already issued for this inconsistency; wait for the location to
		// settle instead of firing again.
		g.mu.Unlock()
		return
	}
	g.lastRedirect = target
	g.mu.Unlock()

	g.logger.Debug("redirecting", zap.String("from", path), zap.String("to", target))
	g.nav.Replace(target)
}

// targetFor returns the canonical route, or "" when the current path is
// acceptable. Deep links are preserved for unrestricted roles.
func (g *Gatekeeper) targetFor(user identity.User, path string) string {
	switch {
	case user.IsSupplier():
		if path != RouteSupplier {
			return RouteSupplier
		}
	case path == RouteRoot || path == RouteLogin:
		return RouteOrders
	case !Known(path):
		return LandingRoute(user)
	}
	return ""
}

// PostLogin performs the explicit redirect that follows a successful login,
// decided by the just-known role. It is deferred by a short tick so the
// session commit is visible to subscribers before navigation.
func (g *Gatekeeper) PostLogin(user identity.User) {
	target := LandingRoute(user)
	if g.delay <= 0 {
		g.redirectTo(target)
		return
	}
	time.AfterFunc(g.delay, func() {
		g.redirectTo(target)
	})
}

func (g *Gatekeeper) redirectTo(target string) {
	if g.nav.Current() == target {
		return
	}
	g.nav.Replace(target)
}
