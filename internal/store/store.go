// Package store is the durable identity cache of the terminal. It mirrors
// the in-memory session as three independent keys; token and user data are
// not transactionally linked, so readers treat any absence or mismatch as
// "logged out" rather than erroring. Storage failures never escape to
// callers — they degrade to an empty session.
package store

import "github.com/spec-kit/pos-terminal/internal/identity"

// Storage keys.
const (
	KeyAuthToken  = "authToken"
	KeyUserData   = "userData"
	KeyLastUserID = "lastUserId"
)

// Store persists the session between runs.
type Store interface {
	// ReadToken returns the stored bearer token, or "" when absent.
	ReadToken() string
	// ReadUserData returns the stored partial user, or nil when absent or
	// corrupt.
	ReadUserData() *identity.User
	// ReadLastUserID returns the last known user id, or "".
	ReadLastUserID() string
	// Write persists the token and user data. A non-placeholder user id
	// also refreshes the last known id.
	Write(token string, user identity.User)
	// Clear removes token and user data. The last known id is retained so
	// a later refresh can re-resolve name and type.
	Clear()
}
