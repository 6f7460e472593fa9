package postgresrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hwstore/order/internal/dal/postgres"
	"github.com/hwstore/order/internal/dal/schema"
	"github.com/hwstore/order/internal/service/models/currency"
	"github.com/hwstore/order/internal/service/models/order"
	"github.com/hwstore/order/internal/service/models/orderitem"
	"github.com/hwstore/order/internal/service/models/status"
)

// OrderDal represents order data access layer model
type OrderDal struct {
	Id              string    `db:"id"`
	CustomerId      string    `db:"customer_id"`
	Status          string    `db:"status"`
	TotalCents      int64     `db:"total_cents"`
	TotalCurrency   string    `db:"total_currency"`
	ShippingAddress string    `db:"shipping_address"`
	City            string    `db:"city"`
	Phone           string    `db:"phone"`
	PaymentMethod   string    `db:"payment_method"`
	Paid            bool      `db:"paid"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.TotalCurrency)
	if err != nil {
		return nil, err
	}
	st, err := status.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:              o.Id,
		CustomerID:      o.CustomerId,
		Status:          st,
		TotalCents:      o.TotalCents,
		TotalCurrency:   cur,
		ShippingAddress: o.ShippingAddress,
		City:            o.City,
		Phone:           o.Phone,
		PaymentMethod:   o.PaymentMethod,
		Paid:            o.Paid,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		OrderItems:      []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

// OrderDalFromModel converts service layer Order model to OrderDal
func OrderDalFromModel(o *order.Order) *OrderDal {
	return &OrderDal{
		Id:              o.ID,
		CustomerId:      o.CustomerID,
		Status:          o.Status.String(),
		TotalCents:      o.TotalCents,
		TotalCurrency:   o.TotalCurrency.String(),
		ShippingAddress: o.ShippingAddress,
		City:            o.City,
		Phone:           o.Phone,
		PaymentMethod:   o.PaymentMethod,
		Paid:            o.Paid,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	caps schema.Capabilities
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(
	conn postgres.GenericConn,
	caps schema.Capabilities,
) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		caps: caps,
	}
}

// Insert inserts one order row. The column set follows the schema
// capabilities detected at startup: deployments whose orders table
// predates the city/phone/paid columns get a reduced insert instead of
// an unknown-column error.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) error {
	dal := OrderDalFromModel(&o)

	columns := []string{
		"id",
		"customer_id",
		"status",
		"total_cents",
		"total_currency",
		"shipping_address",
		"payment_method",
		"created_at",
		"updated_at",
	}
	args := []interface{}{
		dal.Id,
		dal.CustomerId,
		dal.Status,
		dal.TotalCents,
		dal.TotalCurrency,
		dal.ShippingAddress,
		dal.PaymentMethod,
		dal.CreatedAt,
		dal.UpdatedAt,
	}

	if r.caps.OrdersHaveCity {
		columns = append(columns, "city")
		args = append(args, dal.City)
	}
	if r.caps.OrdersHavePhone {
		columns = append(columns, "phone")
		args = append(args, dal.Phone)
	}
	if r.caps.OrdersHavePaidFlag {
		columns = append(columns, "paid")
		args = append(args, dal.Paid)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sql := fmt.Sprintf(
		"INSERT INTO orders (%s) VALUES (%s)",
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// Query retrieves orders based on filter criteria
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	sqlBuilder := strings.Builder{}
	sqlBuilder.WriteString(r.selectColumns())

	args := []interface{}{}
	conditions := []string{}
	argIndex := 1

	if len(filter.Ids) > 0 {
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", argIndex))
		args = append(args, filter.Ids)
		argIndex++
	}

	if len(filter.CustomerIds) > 0 {
		conditions = append(conditions, fmt.Sprintf("customer_id = ANY($%d)", argIndex))
		args = append(args, filter.CustomerIds)
		argIndex++
	}

	if len(conditions) > 0 {
		sqlBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	sqlBuilder.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		sqlBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		sqlBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argIndex))
		args = append(args, filter.Offset)
	}

	rows, err := r.conn.Query(ctx, sqlBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		if err := r.scanRow(rows.Scan, &dal); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// selectColumns builds the SELECT list, substituting defaults for the
// schema-optional columns when they are absent.
func (r *PostgresOrderRepository) selectColumns() string {
	city := "'' AS city"
	if r.caps.OrdersHaveCity {
		city = "city"
	}
	phone := "'' AS phone"
	if r.caps.OrdersHavePhone {
		phone = "phone"
	}
	paid := "false AS paid"
	if r.caps.OrdersHavePaidFlag {
		paid = "paid"
	}

	return fmt.Sprintf(`
		SELECT
			id,
			customer_id,
			status,
			total_cents,
			total_currency,
			shipping_address,
			%s,
			%s,
			payment_method,
			%s,
			created_at,
			updated_at
		FROM orders
	`, city, phone, paid)
}

func (r *PostgresOrderRepository) scanRow(
	scan func(dest ...any) error,
	dal *OrderDal,
) error {
	return scan(
		&dal.Id,
		&dal.CustomerId,
		&dal.Status,
		&dal.TotalCents,
		&dal.TotalCurrency,
		&dal.ShippingAddress,
		&dal.City,
		&dal.Phone,
		&dal.PaymentMethod,
		&dal.Paid,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
}
