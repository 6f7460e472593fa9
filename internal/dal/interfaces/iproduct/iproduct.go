package iproduct

import (
	"context"
)

// PostgresRepository is an interface for the product postgres repository.
//
// LockStock must be called inside a transaction: it takes a row lock
// that serializes concurrent checkouts against the same product until
// the enclosing transaction commits or rolls back.
type PostgresRepository interface {
	LockStock(ctx context.Context, productID string) (int, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
}
