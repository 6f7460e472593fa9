package schema

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// Capabilities describes which schema-optional columns are present in
// the orders and order_items tables. It is detected once at startup and
// consumed by the insert and query logic, so per-request probing for
// missing columns is never needed.
type Capabilities struct {
	OrdersHaveCity     bool
	OrdersHavePhone    bool
	OrdersHavePaidFlag bool
	ItemsHaveTitle     bool
	ItemsHaveImage     bool
}

type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Detect introspects information_schema for the optional columns.
func Detect(ctx context.Context, conn querier) (Capabilities, error) {
	query, args, err := sq.Select("table_name", "column_name").
		From("information_schema.columns").
		Where(sq.Eq{"table_name": []string{"orders", "order_items"}}).
		Where(sq.Eq{"table_schema": "public"}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return Capabilities{}, fmt.Errorf("failed to build introspection query: %w", err)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return Capabilities{}, fmt.Errorf("failed to introspect columns: %w", err)
	}
	defer rows.Close()

	columns := map[string][]string{}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return Capabilities{}, fmt.Errorf("failed to scan column row: %w", err)
		}
		columns[table] = append(columns[table], column)
	}

	if err := rows.Err(); err != nil {
		return Capabilities{}, fmt.Errorf("rows iteration error: %w", err)
	}

	return FromColumns(columns), nil
}

// FromColumns derives Capabilities from a table-to-columns mapping.
func FromColumns(columns map[string][]string) Capabilities {
	has := func(table, column string) bool {
		for _, c := range columns[table] {
			if c == column {
				return true
			}
		}

		return false
	}

	return Capabilities{
		OrdersHaveCity:     has("orders", "city"),
		OrdersHavePhone:    has("orders", "phone"),
		OrdersHavePaidFlag: has("orders", "paid"),
		ItemsHaveTitle:     has("order_items", "product_title"),
		ItemsHaveImage:     has("order_items", "product_image"),
	}
}
