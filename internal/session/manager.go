// Package session owns the authentication state of the terminal. The
// manager is the single writer of the persisted store and never navigates;
// it only commits state and publishes it for the gatekeeper and views.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/auth"
	"github.com/spec-kit/pos-terminal/internal/events"
	"github.com/spec-kit/pos-terminal/internal/identity"
	"github.com/spec-kit/pos-terminal/internal/store"
)

// Snapshot is an immutable view of the session published to subscribers.
type Snapshot struct {
	User            *identity.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// ProfileFetcher resolves a remote profile by user id.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token, id string) (identity.Profile, error)
}

// Manager is a three-state machine: initializing, unauthenticated,
// authenticated. isAuthenticated holds exactly when both token and user are
// set.
type Manager struct {
	store      store.Store
	profiles   ProfileFetcher
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu      sync.Mutex
	token   string
	user    *identity.User
	loading bool
}

// NewManager builds a manager in the initializing state.
func NewManager(st store.Store, profiles ProfileFetcher, dispatcher events.Dispatcher, logger *zap.Logger) *Manager {
	return &Manager{
		store:      st,
		profiles:   profiles,
		dispatcher: dispatcher,
		logger:     logger,
		loading:    true,
	}
}

// Initialize reconciles stored identity against the backend exactly once at
// startup. A missing token lands unauthenticated; a stored token lands
// authenticated, refreshing an incomplete profile best-effort. Any
// unexpected failure clears storage defensively and lands unauthenticated.
func (m *Manager) Initialize(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("session reconciliation failed, clearing stored session", zap.Any("cause", r))
			m.store.Clear()
			m.commit("", nil)
		}
	}()

	token := m.store.ReadToken()
	if token == "" {
		m.commit("", nil)
		return
	}

	// A token that is provably past its exp claim cannot authenticate
	// anything; discard it instead of failing on the first backend call.
	// Opaque (non-JWT) tokens pass through.
	if expired, err := auth.TokenExpired(token); err == nil && expired {
		m.logger.Info("stored token is expired, discarding session")
		m.store.Clear()
		m.commit("", nil)
		return
	}

	var stored identity.User
	if u := m.store.ReadUserData(); u != nil {
		stored = *u
	}
	lastID := m.store.ReadLastUserID()

	if stored.Complete() {
		user := identity.MergeProfile(stored, identity.Profile{}, lastID)
		m.store.Write(token, user)
		m.commit(token, &user)
		return
	}

	user := m.refreshProfile(ctx, token, stored, lastID)
	m.commit(token, &user)
}

// refreshProfile attempts one remote profile fetch and merges the result.
// Failure is swallowed and logged; authentication never blocks on profile
// completeness.
func (m *Manager) refreshProfile(ctx context.Context, token string, stored identity.User, lastID string) identity.User {
	lookupID := stored.ID
	if lookupID == "" {
		lookupID = lastID
	}

	if m.profiles == nil || lookupID == "" {
		return identity.MergeProfile(stored, identity.Profile{}, lastID)
	}

	profile, err := m.profiles.FetchProfile(ctx, token, lookupID)
	if err != nil {
		m.logger.Warn("profile refresh failed, keeping partial identity",
			zap.String("userId", lookupID), zap.Error(err))
		return identity.MergeProfile(stored, identity.Profile{}, lastID)
	}

	merged := identity.MergeProfile(stored, profile, lastID)
	m.store.Write(token, merged)
	return merged
}

// Login transitions to authenticated with the supplied identity. No remote
// fetch happens here; the caller provides whatever user data it has.
func (m *Manager) Login(token string, user identity.User) {
	resolved := identity.MergeProfile(user, identity.Profile{}, user.ID)
	m.store.Write(token, resolved)
	m.commit(token, &resolved)
}

// Logout clears in-memory state and the persisted token and user data. The
// last known user id is retained. Logging out an already-unauthenticated
// session is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	settled := !m.loading && m.token == ""
	m.mu.Unlock()
	if settled {
		return
	}

	m.store.Clear()
	m.commit("", nil)
}

// Snapshot returns the current session state. The user is a copy; callers
// cannot mutate manager-owned state through it.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		Token:     m.token,
		IsLoading: m.loading,
	}
	if m.user != nil {
		user := *m.user
		snap.User = &user
	}
	snap.IsAuthenticated = snap.Token != "" && snap.User != nil
	return snap
}

func (m *Manager) commit(token string, user *identity.User) {
	m.mu.Lock()
	m.token = token
	m.user = user
	m.loading = false
	snap := m.snapshotLocked()
	m.mu.Unlock()

	_ = m.dispatcher.Publish(context.Background(), events.New(events.EventSessionChanged, snap))
}
