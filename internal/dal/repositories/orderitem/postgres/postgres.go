package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/hwstore/order/internal/dal/postgres"
	"github.com/hwstore/order/internal/dal/schema"
	"github.com/hwstore/order/internal/service/models/currency"
	"github.com/hwstore/order/internal/service/models/orderitem"
)

// OrderItemDal represents order item data access layer model.
type OrderItemDal struct {
	Id            int64     `db:"id"`
	OrderId       string    `db:"order_id"`
	ProductId     string    `db:"product_id"`
	Quantity      int       `db:"quantity"`
	ProductTitle  string    `db:"product_title"`
	ProductImage  string    `db:"product_image"`
	PriceCents    int64     `db:"price_cents"`
	PriceCurrency string    `db:"price_currency"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ToModel converts OrderItemDal to service layer OrderItem model.
func (oi *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	cur, err := currency.ParseCurrency(oi.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return &orderitem.OrderItem{
		ID:            oi.Id,
		OrderID:       oi.OrderId,
		ProductID:     oi.ProductId,
		Quantity:      oi.Quantity,
		ProductTitle:  oi.ProductTitle,
		ProductImage:  oi.ProductImage,
		PriceCents:    oi.PriceCents,
		PriceCurrency: cur,
		CreatedAt:     oi.CreatedAt,
		UpdatedAt:     oi.UpdatedAt,
	}, nil
}

// OrderItemDalFromModel converts service layer OrderItem model to OrderItemDal.
func OrderItemDalFromModel(oi *orderitem.OrderItem) *OrderItemDal {
	return &OrderItemDal{
		Id:            oi.ID,
		OrderId:       oi.OrderID,
		ProductId:     oi.ProductID,
		Quantity:      oi.Quantity,
		ProductTitle:  oi.ProductTitle,
		ProductImage:  oi.ProductImage,
		PriceCents:    oi.PriceCents,
		PriceCurrency: oi.PriceCurrency.String(),
		CreatedAt:     oi.CreatedAt,
		UpdatedAt:     oi.UpdatedAt,
	}
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.GenericConn
	caps schema.Capabilities
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(
	conn postgres.GenericConn,
	caps schema.Capabilities,
) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		caps: caps,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts order items and returns them with generated ids.
// The title/image snapshot columns are included only when the schema
// capabilities report them present.
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	orderItems []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(orderItems) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	columns := []string{
		"order_id",
		"product_id",
		"quantity",
		"price_cents",
		"price_currency",
		"created_at",
		"updated_at",
	}
	if r.caps.ItemsHaveTitle {
		columns = append(columns, "product_title")
	}
	if r.caps.ItemsHaveImage {
		columns = append(columns, "product_image")
	}

	builder := r.sb.Insert("order_items").Columns(columns...)
	for i := range orderItems {
		dal := OrderItemDalFromModel(&orderItems[i])
		values := []interface{}{
			dal.OrderId,
			dal.ProductId,
			dal.Quantity,
			dal.PriceCents,
			dal.PriceCurrency,
			dal.CreatedAt,
			dal.UpdatedAt,
		}
		if r.caps.ItemsHaveTitle {
			values = append(values, dal.ProductTitle)
		}
		if r.caps.ItemsHaveImage {
			values = append(values, dal.ProductImage)
		}
		builder = builder.Values(values...)
	}

	sql, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	result := make([]orderitem.OrderItem, 0, len(orderItems))
	i := 0
	for rows.Next() {
		item := orderItems[i]
		if err := rows.Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed to scan order item id: %w", err)
		}
		result = append(result, item)
		i++
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves order items based on filter criteria. When the
// order_items table lacks the title/image snapshot columns, both are
// resolved from the product catalog instead, so reads against a legacy
// schema still return named items.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	title := "oi.product_title"
	if !r.caps.ItemsHaveTitle {
		title = "COALESCE(p.title, '')"
	}
	image := "oi.product_image"
	if !r.caps.ItemsHaveImage {
		image = "COALESCE(p.image_url, '')"
	}

	query := r.sb.
		Select(
			"oi.id",
			"oi.order_id",
			"oi.product_id",
			"oi.quantity",
			title+" AS product_title",
			image+" AS product_image",
			"oi.price_cents",
			"oi.price_currency",
			"oi.created_at",
			"oi.updated_at",
		).
		From("order_items oi")

	if !r.caps.ItemsHaveTitle || !r.caps.ItemsHaveImage {
		query = query.LeftJoin("products p ON p.id = oi.product_id")
	}

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"oi.id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"oi.order_id": filter.OrderIds})
	}

	if len(filter.ProductIds) > 0 {
		query = query.Where(sq.Eq{"oi.product_id": filter.ProductIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal

		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductId,
			&dal.Quantity,
			&dal.ProductTitle,
			&dal.ProductImage,
			&dal.PriceCents,
			&dal.PriceCurrency,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
