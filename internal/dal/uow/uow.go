package uow

import (
	"context"
	"errors"

	"github.com/hwstore/order/internal/dal/interfaces/iorder"
	"github.com/hwstore/order/internal/dal/interfaces/iorderitem"
	"github.com/hwstore/order/internal/dal/interfaces/iproduct"
	"github.com/hwstore/order/internal/dal/postgres"
	orderrepo "github.com/hwstore/order/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/hwstore/order/internal/dal/repositories/orderitem/postgres"
	productrepo "github.com/hwstore/order/internal/dal/repositories/product/postgres"
	"github.com/hwstore/order/internal/dal/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// unitOfWork scopes the order, order item and product repositories to a
// single pgx transaction. Before Begin the repositories run against the
// pool; after Begin they share the transaction's connection and locks.
type unitOfWork struct {
	pool          *pgxpool.Pool
	caps          schema.Capabilities
	tx            pgx.Tx
	orderRepo     iorder.PostgresRepository
	orderItemRepo iorderitem.PostgresRepository
	productRepo   iproduct.PostgresRepository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:          client.Pool(),
		caps:          client.Capabilities(),
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool(), client.Capabilities()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool(), client.Capabilities()),
		productRepo:   productrepo.NewPostgresProductRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorder.PostgresRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitem.PostgresRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) ProductRepository() iproduct.PostgresRepository {
	return u.productRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx, u.caps)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx, u.caps)
	u.productRepo = productrepo.NewPostgresProductRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

// Rollback aborts the transaction. Safe to defer: after a successful
// commit it is a no-op.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}

	return nil
}
