package domain

import "time"

// OrderComponent is one priced entry of a placed order.
type OrderComponent struct {
	ItemID string
	Kind   ComponentKind
	Price  float64
}

// Order is a placed table order.
type Order struct {
	ID               string
	TableNumber      string
	Details          string
	RequestingClient string
	Price            float64
	Components       []OrderComponent
	CreatedAt        time.Time
}
