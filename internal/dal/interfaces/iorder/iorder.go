package iorder

import (
	"context"

	"github.com/hwstore/order/internal/service/models/order"
)

// PostgresRepository is an interface for the order postgres repository.
type PostgresRepository interface {
	Insert(ctx context.Context, o order.Order) error
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
