package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hwstore/order/internal/dal/interfaces/ievents"
	"github.com/hwstore/order/internal/dal/interfaces/iorder"
	"github.com/hwstore/order/internal/dal/interfaces/iorderitem"
	"github.com/hwstore/order/internal/dal/interfaces/ioutbox"
	"github.com/hwstore/order/internal/dal/interfaces/iproduct"
	"github.com/hwstore/order/internal/dal/postgres"
	"github.com/hwstore/order/internal/dal/rabbitmq"
	"github.com/hwstore/order/internal/dal/repositories/events"
	outboxrepo "github.com/hwstore/order/internal/dal/repositories/outbox/postgres"
	"github.com/hwstore/order/internal/dal/uow"
	"github.com/hwstore/order/internal/service/models/currency"
	"github.com/hwstore/order/internal/service/models/order"
	"github.com/hwstore/order/internal/service/models/orderitem"
	"github.com/hwstore/order/internal/service/models/outbox"
	"github.com/hwstore/order/internal/service/models/product"
	"github.com/hwstore/order/internal/service/models/status"
	"go.opentelemetry.io/otel"
)

// OrderService is a service for managing orders.
type OrderService struct {
	pgClient   *postgres.Client
	events     ievents.Publisher
	outboxRepo ioutbox.Repository
	newUOW     func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorder.PostgresRepository
	OrderItemRepository() iorderitem.PostgresRepository
	ProductRepository() iproduct.PostgresRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}
	if s.outboxRepo == nil && s.pgClient != nil {
		s.outboxRepo = outboxrepo.NewOutboxRepository(s.pgClient.Pool())
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithRabbitClient sets the RabbitMQ client used to publish order events.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRabbitClient(rabbitClient *rabbitmq.Client) option {
	return func(s *OrderService) {
		s.events = events.NewRabbitMQPublisher(rabbitClient)
	}
}

// WithEventPublisher overrides the event publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventPublisher(publisher ievents.Publisher) option {
	return func(s *OrderService) {
		s.events = publisher
	}
}

// WithOutboxRepository overrides the outbox repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutbox.Repository) option {
	return func(s *OrderService) {
		s.outboxRepo = repo
	}
}

// WithUnitOfWorkFactory overrides how transactions are created.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = func() unitOfWork { return factory() }
	}
}

// PlaceOrder atomically checks stock and creates an order. For every
// line item the product row is read under FOR UPDATE, so two checkouts
// against the same product serialize at the stock check: the second one
// sees the already-decremented value. Any failure rolls the whole
// transaction back; no partial order is ever visible.
//
// Returns the generated order id on success.
func (s *OrderService) PlaceOrder(ctx context.Context, o order.Order) (string, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	// An empty item list is a validation failure even when the caller
	// is also unauthenticated.
	if len(o.OrderItems) == 0 {
		return "", order.ErrNoItems
	}
	if o.CustomerID == "" {
		return "", order.ErrNoCustomer
	}
	for _, item := range o.OrderItems {
		if item.ProductID == "" || item.Quantity <= 0 || item.PriceCents < 0 {
			return "", fmt.Errorf("%w: product %q quantity %d", order.ErrInvalidItem, item.ProductID, item.Quantity)
		}
	}

	now := time.Now()
	o.ID = uuid.NewString()
	o.Status = status.StatusPending
	o.Paid = false
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.TotalCurrency == "" {
		o.TotalCurrency = currency.CurrencyUSD
	}
	for i := range o.OrderItems {
		o.OrderItems[i].OrderID = o.ID
		o.OrderItems[i].CreatedAt = now
		o.OrderItems[i].UpdatedAt = now
		if o.OrderItems[i].PriceCurrency == "" {
			o.OrderItems[i].PriceCurrency = o.TotalCurrency
		}
	}

	// The client-declared total is advisory only; the stored total is
	// always the server-side sum of the line items.
	computed := o.ComputeTotalCents()
	if o.TotalCents != 0 && o.TotalCents != computed {
		slog.Debug("Client total differs from computed total",
			"order_id", o.ID,
			"client_total_cents", o.TotalCents,
			"computed_total_cents", computed,
		)
	}
	o.TotalCents = computed

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := work.Rollback(ctx); err != nil {
			slog.Error("Error rolling back place order transaction", "error", err)
		}
	}()

	// Quantities are summed per product before the check, so an order
	// cannot oversell by splitting one product across several lines.
	required := map[string]int{}
	productIDs := make([]string, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		if _, seen := required[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		required[item.ProductID] += item.Quantity
	}

	for _, productID := range productIDs {
		stock, err := work.ProductRepository().LockStock(ctx, productID)
		if err != nil {
			return "", err
		}
		if required[productID] > stock {
			return "", &product.InsufficientStockError{
				ProductID: productID,
				Requested: required[productID],
				Available: stock,
			}
		}
	}

	if err := work.OrderRepository().Insert(ctx, o); err != nil {
		return "", err
	}

	insertedItems, err := work.OrderItemRepository().BulkInsert(ctx, o.OrderItems)
	if err != nil {
		return "", err
	}
	o.OrderItems = insertedItems

	for _, productID := range productIDs {
		if err := work.ProductRepository().DecrementStock(ctx, productID, required[productID]); err != nil {
			return "", err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishOrderPlaced(ctx, o)

	return o.ID, nil
}

// publishOrderPlaced sends the order-placed event after commit. The
// event is not part of the transaction's atomicity contract: a failed
// publish lands in the outbox and is retried by the outbox worker.
func (s *OrderService) publishOrderPlaced(ctx context.Context, o order.Order) {
	if s.events == nil {
		return
	}

	err := s.events.PublishOrderPlaced(ctx, []order.Order{o})
	if err == nil {
		return
	}

	slog.Warn("Failed to publish order placed event, falling back to outbox",
		"order_id", o.ID,
		"error", err,
	)

	if s.outboxRepo == nil {
		return
	}

	payload, marshalErr := json.Marshal(o)
	if marshalErr != nil {
		slog.Error("Error marshaling order for outbox", "order_id", o.ID, "error", marshalErr)

		return
	}

	msg := outbox.NewMessage(events.QueueOrderPlaced, payload, err.Error())
	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Error("Error inserting order placed event into outbox", "order_id", o.ID, "error", err)
	}
}

// GetOrders retrieves orders with their items based on filter.
func (s *OrderService) GetOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.GetOrders")
	defer span.End()

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemFilter := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemFilter.OrderIds = append(itemFilter.OrderIds, o.ID)
	}
	items, err := work.OrderItemRepository().Query(ctx, itemFilter)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}
