package ievents

import (
	"context"

	"github.com/hwstore/order/internal/service/models/order"
)

// Publisher is an interface for the order event publisher.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, orders []order.Order) error
}
