package postgresrepo_test

import (
	"context"
	"testing"
	"time"

	orderrepo "github.com/hwstore/order/internal/dal/repositories/order/postgres"
	"github.com/hwstore/order/internal/dal/schema"
	"github.com/hwstore/order/internal/service/models/currency"
	"github.com/hwstore/order/internal/service/models/order"
	"github.com/hwstore/order/internal/service/models/status"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedStatement struct {
	sql  string
	args []interface{}
}

// fakeConn records every statement so tests can assert on the generated
// SQL without a database.
type fakeConn struct {
	statements []capturedStatement
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	c.statements = append(c.statements, capturedStatement{sql: sql, args: args})

	return &fakeRows{}, nil
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	c.statements = append(c.statements, capturedStatement{sql: sql, args: args})

	return &fakeRow{}
}

func (c *fakeConn) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	c.statements = append(c.statements, capturedStatement{sql: sql, args: arguments})

	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

type fakeRow struct{}

func (r *fakeRow) Scan(dest ...any) error { return pgx.ErrNoRows }

type fakeRows struct{}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return false }
func (r *fakeRows) Scan(dest ...any) error                       { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func sampleOrder() order.Order {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	return order.Order{
		ID:              "o-1",
		CustomerID:      "U1",
		Status:          status.StatusPending,
		TotalCents:      30000,
		TotalCurrency:   currency.CurrencyUSD,
		ShippingAddress: "1 Main St",
		City:            "Springfield",
		Phone:           "555-0100",
		PaymentMethod:   "cod",
		Paid:            false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestInsert_ColumnSetFollowsCapabilities(t *testing.T) {
	tests := []struct {
		name     string
		caps     schema.Capabilities
		wantCols []string
		skipCols []string
		wantArgs int
	}{
		{
			name:     "legacy_schema_omits_optional_columns",
			caps:     schema.Capabilities{},
			skipCols: []string{"city", "phone", "paid"},
			wantArgs: 9,
		},
		{
			name: "full_schema_includes_optional_columns",
			caps: schema.Capabilities{
				OrdersHaveCity:     true,
				OrdersHavePhone:    true,
				OrdersHavePaidFlag: true,
			},
			wantCols: []string{"city", "phone", "paid"},
			wantArgs: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{}
			repo := orderrepo.NewPostgresOrderRepository(conn, tt.caps)

			require.NoError(t, repo.Insert(context.Background(), sampleOrder()))
			require.Len(t, conn.statements, 1)

			stmt := conn.statements[0]
			for _, col := range tt.wantCols {
				assert.Contains(t, stmt.sql, col)
			}
			for _, col := range tt.skipCols {
				assert.NotContains(t, stmt.sql, col)
			}
			assert.Len(t, stmt.args, tt.wantArgs)
		})
	}
}

func TestQuery_SelectSubstitutesMissingColumns(t *testing.T) {
	t.Run("legacy_schema_reads_defaults", func(t *testing.T) {
		conn := &fakeConn{}
		repo := orderrepo.NewPostgresOrderRepository(conn, schema.Capabilities{})

		_, err := repo.Query(context.Background(), &order.QueryOrdersModel{CustomerIds: []string{"U1"}})
		require.NoError(t, err)
		require.Len(t, conn.statements, 1)

		stmt := conn.statements[0]
		assert.Contains(t, stmt.sql, "'' AS city")
		assert.Contains(t, stmt.sql, "'' AS phone")
		assert.Contains(t, stmt.sql, "false AS paid")
		assert.Contains(t, stmt.sql, "customer_id = ANY($1)")
	})

	t.Run("full_schema_reads_real_columns", func(t *testing.T) {
		conn := &fakeConn{}
		repo := orderrepo.NewPostgresOrderRepository(conn, schema.Capabilities{
			OrdersHaveCity:     true,
			OrdersHavePhone:    true,
			OrdersHavePaidFlag: true,
		})

		_, err := repo.Query(context.Background(), &order.QueryOrdersModel{})
		require.NoError(t, err)
		require.Len(t, conn.statements, 1)

		stmt := conn.statements[0]
		assert.NotContains(t, stmt.sql, "AS city")
		assert.NotContains(t, stmt.sql, "AS phone")
		assert.NotContains(t, stmt.sql, "AS paid")
	})
}
