package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/hwstore/order/internal/dal/postgres"
	"github.com/hwstore/order/internal/service/models/product"
	"github.com/jackc/pgx/v5"
)

// PostgresProductRepository accesses the product catalog's stock
// counters. All stock mutations go through this repository so every
// decrementing path shares the same locking discipline.
type PostgresProductRepository struct {
	conn postgres.GenericConn
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn postgres.GenericConn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
	}
}

// LockStock reads the product's stock quantity with a row lock. The
// lock is held until the enclosing transaction ends, so concurrent
// checkouts against the same product serialize here.
func (r *PostgresProductRepository) LockStock(
	ctx context.Context,
	productID string,
) (int, error) {
	sql := `
		SELECT stock_quantity
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var stock int
	if err := r.conn.QueryRow(ctx, sql, productID).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, product.ErrProductNotFound
		}

		return 0, fmt.Errorf("failed to lock product %s: %w", productID, err)
	}

	return stock, nil
}

// DecrementStock reduces the product's stock by quantity, clamped at
// zero, and recomputes the in_stock flag from the new value. Callers
// must hold the row lock taken by LockStock.
func (r *PostgresProductRepository) DecrementStock(
	ctx context.Context,
	productID string,
	quantity int,
) error {
	sql := `
		UPDATE products
		SET stock_quantity = GREATEST(stock_quantity - $1, 0),
		    in_stock = GREATEST(stock_quantity - $1, 0) > 0,
		    updated_at = now()
		WHERE id = $2
	`

	tag, err := r.conn.Exec(ctx, sql, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for product %s: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrProductNotFound
	}

	return nil
}
