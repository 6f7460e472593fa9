package listorders_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hwstore/order/internal/service/models/order"
	"github.com/hwstore/order/internal/service/models/status"
	listorders "github.com/hwstore/order/internal/transport/http/list_orders"
	"github.com/hwstore/order/pkg/http/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	getOrdersFunc func(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

func (m *mockService) GetOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	return m.getOrdersFunc(ctx, filter)
}

func doRequest(t *testing.T, svc *mockService, target string, userID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != "" {
		req.Header.Set(auth.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()

	handler := auth.NewAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		listorders.ListOrders(w, r, svc)
	}))
	handler.ServeHTTP(rec, req)

	return rec
}

func TestListOrders_RequiresIdentity(t *testing.T) {
	svc := &mockService{
		getOrdersFunc: func(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
			t.Fatal("service must not be called")

			return nil, nil
		},
	}

	rec := doRequest(t, svc, "/api/orders", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListOrders_PassesFilters(t *testing.T) {
	var got order.QueryOrdersModel
	svc := &mockService{
		getOrdersFunc: func(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
			got = filter

			return []order.Order{}, nil
		},
	}

	rec := doRequest(t, svc, "/api/orders?customerIds=U1&limit=10&offset=20", "U1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"U1"}, got.CustomerIds)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, 20, got.Offset)
}

func TestListOrders_ReturnsOrders(t *testing.T) {
	svc := &mockService{
		getOrdersFunc: func(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
			return []order.Order{
				{ID: "o-1", CustomerID: "U1", Status: status.StatusPending, TotalCents: 30000},
			}, nil
		},
	}

	rec := doRequest(t, svc, "/api/orders", "U1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var orders []order.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "o-1", orders[0].ID)
}
