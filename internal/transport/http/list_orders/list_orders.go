package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/hwstore/order/internal/service/models/order"
	"github.com/hwstore/order/pkg/http/middleware/auth"
	"github.com/hwstore/order/pkg/http/respond"
)

type service interface {
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Ids         []string `schema:"ids,omitempty"`
	CustomerIds []string `schema:"customerIds,omitempty"`
	Limit       int      `schema:"limit,omitempty"`
	Offset      int      `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) ToModel() order.QueryOrdersModel {
	return order.QueryOrdersModel{
		Ids:         q.Ids,
		CustomerIds: q.CustomerIds,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	if auth.UserID(r.Context()) == "" {
		respond.Error(w, http.StatusUnauthorized, "authentication required")

		return
	}

	decoder := schema.NewDecoder()
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding list orders request", "error", err)

		return
	}

	orders, err := service.GetOrders(r.Context(), query.ToModel())
	if err != nil {
		slog.Error("Error getting orders", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}
