package domain

import "time"

// Account is a backend login identity. Type is stored upper-case
// (for example SUPPLIER, WAITER, ADMIN); the restricted supplier role is
// confined to a single client view.
type Account struct {
	ID           string
	UserID       string
	Name         string
	PasswordHash string
	Type         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
