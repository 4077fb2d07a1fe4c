package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pos-terminal/internal/domain"
)

// OrderRepository defines persistence access for placed orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

// Create inserts the order and its components in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const orderQuery = `
        INSERT INTO orders (id, table_number, details, requesting_client, price)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	if err := tx.QueryRow(ctx, orderQuery,
		order.ID,
		order.TableNumber,
		order.Details,
		order.RequestingClient,
		order.Price,
	).Scan(&order.CreatedAt); err != nil {
		return err
	}

	const componentQuery = `
        INSERT INTO order_components (order_id, item_id, kind, price)
        VALUES ($1, $2, $3, $4)`

	for _, component := range order.Components {
		if _, err := tx.Exec(ctx, componentQuery,
			order.ID,
			component.ItemID,
			component.Kind,
			component.Price,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
