// Package app assembles the terminal client core and owns its lifecycle:
// subscriptions are established at Start and torn down at Stop.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/api"
	"github.com/spec-kit/pos-terminal/internal/config"
	"github.com/spec-kit/pos-terminal/internal/events"
	"github.com/spec-kit/pos-terminal/internal/identity"
	"github.com/spec-kit/pos-terminal/internal/observability"
	"github.com/spec-kit/pos-terminal/internal/order"
	"github.com/spec-kit/pos-terminal/internal/persistence"
	"github.com/spec-kit/pos-terminal/internal/routing"
	"github.com/spec-kit/pos-terminal/internal/session"
	"github.com/spec-kit/pos-terminal/internal/store"
	"github.com/spec-kit/pos-terminal/internal/toast"
)

// Root is the application root of the POS terminal.
type Root struct {
	cfg    *config.Config
	logger *zap.Logger

	Dispatcher events.Dispatcher
	Store      store.Store
	Client     *api.Client
	Sessions   *session.Manager
	History    *routing.History
	Gatekeeper *routing.Gatekeeper
	Toasts     *toast.Bus

	redis     *persistence.Redis
	teardowns []func()
}

// New wires the client core. The session store backend is chosen by
// config: a local state file by default, Redis when terminals share one.
func New(cfg *config.Config, logger *zap.Logger) *Root {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	root := &Root{cfg: cfg, logger: logger, Dispatcher: dispatcher}

	switch cfg.Client.SessionBackend {
	case "redis":
		root.redis = persistence.NewRedis(cfg.Redis, logger)
		root.Store = store.NewRedisStore(root.redis.Client, cfg.Client.TerminalID, logger)
	default:
		root.Store = store.NewFileStore(cfg.Client.StatePath, logger)
	}

	root.Client = api.NewClient(cfg.Client, dispatcher, metrics, logger)
	root.Sessions = session.NewManager(root.Store, root.Client, dispatcher, logger)
	root.History = routing.NewHistory(dispatcher, routing.RouteRoot)
	root.Gatekeeper = routing.NewGatekeeper(root.History, cfg.Client.LoginRedirectDelay(), logger)
	root.Toasts = toast.NewBus()
	return root
}

// Start binds the gatekeeper, registers the single auth-expiry subscriber
// and runs the startup session reconciliation.
func (r *Root) Start(ctx context.Context) {
	r.teardowns = append(r.teardowns, r.Gatekeeper.Bind(r.Dispatcher))

	expirySub := r.Dispatcher.Subscribe(events.EventAuthExpired, func(_ context.Context, _ events.Event) error {
		r.handleAuthExpired()
		return nil
	})
	r.teardowns = append(r.teardowns, expirySub.Cancel)

	r.Sessions.Initialize(ctx)
}

// Stop tears down subscriptions and timers.
func (r *Root) Stop() {
	for _, teardown := range r.teardowns {
		teardown()
	}
	r.teardowns = nil
	r.Toasts.Close()
	if r.redis != nil {
		r.redis.Close()
	}
}

// Login authenticates against the backend and commits the session. The
// profile fetch that resolves name and type is best-effort; the login
// itself never blocks on it. Errors are returned for the login form to
// render inline.
func (r *Root) Login(ctx context.Context, userID, password string) error {
	token, err := r.Client.Login(ctx, userID, password)
	if err != nil {
		return err
	}

	user := identity.User{ID: userID}
	if profile, err := r.Client.FetchProfile(ctx, token, userID); err != nil {
		r.logger.Warn("post-login profile fetch failed", zap.String("userId", userID), zap.Error(err))
	} else {
		user = identity.MergeProfile(user, profile, userID)
	}

	r.Sessions.Login(token, user)
	r.Gatekeeper.PostLogin(user)
	return nil
}

// Logout ends the session. The gatekeeper leaves unauthenticated sessions
// alone; the login surface renders wherever the location happens to be.
func (r *Root) Logout() {
	r.Sessions.Logout()
}

// Navigate pushes a new location.
func (r *Root) Navigate(path string) {
	r.History.Push(path)
}

// SubmitOrder sends the draft to the backend. Success enqueues a
// confirmation toast and resets the draft; failure enqueues an error toast
// and keeps the draft so the dialog can retry.
func (r *Root) SubmitOrder(ctx context.Context, draft *order.Draft) error {
	snap := r.Sessions.Snapshot()
	confirmation, err := r.Client.CreateOrder(ctx, snap.Token, draft.Request())
	if err != nil {
		if !errors.Is(err, api.ErrUnauthorized) {
			r.Toasts.Danger(err.Error())
		}
		return err
	}

	r.Toasts.ShowTitled("Order created",
		fmt.Sprintf("Order %s confirmed. Total %.2f.", confirmation.ID, confirmation.Price),
		toast.KindSuccess, toast.DefaultDuration)
	draft.Reset()
	return nil
}

func (r *Root) handleAuthExpired() {
	wasAuthenticated := r.Sessions.Snapshot().IsAuthenticated

	// Logout is a no-op on an already-expired session, so rapid repeated
	// broadcasts collapse into one visible transition.
	r.Sessions.Logout()
	r.History.Replace(routing.RouteLogin)

	if wasAuthenticated {
		r.Toasts.Info("Your session expired. Please sign in again.")
	}
}
