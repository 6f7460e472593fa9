package schema_test

import (
	"testing"

	"github.com/hwstore/order/internal/dal/schema"
	"github.com/stretchr/testify/assert"
)

func TestFromColumns(t *testing.T) {
	testCases := []struct {
		name     string
		columns  map[string][]string
		expected schema.Capabilities
	}{
		{
			name: "full_schema",
			columns: map[string][]string{
				"orders":      {"id", "customer_id", "city", "phone", "paid"},
				"order_items": {"id", "order_id", "product_title", "product_image"},
			},
			expected: schema.Capabilities{
				OrdersHaveCity:     true,
				OrdersHavePhone:    true,
				OrdersHavePaidFlag: true,
				ItemsHaveTitle:     true,
				ItemsHaveImage:     true,
			},
		},
		{
			name: "base_schema_without_optional_columns",
			columns: map[string][]string{
				"orders":      {"id", "customer_id", "status", "total_cents"},
				"order_items": {"id", "order_id", "product_id", "quantity"},
			},
			expected: schema.Capabilities{},
		},
		{
			name: "partial_migration",
			columns: map[string][]string{
				"orders":      {"id", "city", "phone"},
				"order_items": {"id", "product_title"},
			},
			expected: schema.Capabilities{
				OrdersHaveCity:  true,
				OrdersHavePhone: true,
				ItemsHaveTitle:  true,
			},
		},
		{
			name: "column_on_wrong_table_does_not_count",
			columns: map[string][]string{
				"orders":      {"id", "product_title"},
				"order_items": {"id", "city"},
			},
			expected: schema.Capabilities{},
		},
		{
			name:     "empty_mapping",
			columns:  map[string][]string{},
			expected: schema.Capabilities{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, schema.FromColumns(tc.columns))
		})
	}
}
