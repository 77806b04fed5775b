package repository

import (
	"context"
	"fmt"

	"storefront/engine/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
}

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepository{
		db: db,
	}
}

func (r *orderRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	query := `
	INSERT INTO orders (id, total, created_at, data)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id)
	DO UPDATE SET total = $2, data = $4`
	_, err := r.db.Exec(ctx, query, order.OrderID, order.Total, order.CreatedAt, order)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}
