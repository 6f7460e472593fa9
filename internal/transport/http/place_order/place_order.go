package placeorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hwstore/order/internal/service/models/currency"
	"github.com/hwstore/order/internal/service/models/order"
	"github.com/hwstore/order/internal/service/models/orderitem"
	"github.com/hwstore/order/internal/service/models/product"
	"github.com/hwstore/order/pkg/http/middleware/auth"
	"github.com/hwstore/order/pkg/http/respond"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, o order.Order) (string, error)
}

// itemInPlaceOrderRequest represents a line item in a place order request.
type itemInPlaceOrderRequest struct {
	ProductID     string `json:"productId"     validate:"required"`
	Quantity      int    `json:"quantity"      validate:"gt=0"`
	PriceCents    int64  `json:"priceCents"    validate:"gte=0"`
	PriceCurrency string `json:"priceCurrency"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
}

// toModel converts itemInPlaceOrderRequest to orderitem.OrderItem.
func (r *itemInPlaceOrderRequest) toModel() (*orderitem.OrderItem, error) {
	cur := currency.CurrencyUSD
	if r.PriceCurrency != "" {
		parsed, err := currency.ParseCurrency(r.PriceCurrency)
		if err != nil {
			return nil, err
		}
		cur = parsed
	}

	return &orderitem.OrderItem{
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		ProductTitle:  r.Title,
		ProductImage:  r.ImageURL,
		PriceCents:    r.PriceCents,
		PriceCurrency: cur,
	}, nil
}

// placeOrderRequest represents a place order request.
type placeOrderRequest struct {
	Items           []itemInPlaceOrderRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string                    `json:"shippingAddress"`
	City            string                    `json:"city"`
	Phone           string                    `json:"phone"`
	PaymentMethod   string                    `json:"paymentMethod"`
	TotalCents      int64                     `json:"totalCents"`
}

// Validate validates the place order request.
func (r *placeOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts placeOrderRequest to order.Order.
func (r *placeOrderRequest) toModel() (*order.Order, error) {
	items := make([]orderitem.OrderItem, len(r.Items))
	for i := range r.Items {
		item, err := r.Items[i].toModel()
		if err != nil {
			return nil, err
		}
		items[i] = *item
	}

	return &order.Order{
		TotalCents:      r.TotalCents,
		ShippingAddress: r.ShippingAddress,
		City:            r.City,
		Phone:           r.Phone,
		PaymentMethod:   r.PaymentMethod,
		OrderItems:      items,
	}, nil
}

// placeOrderResponse is returned on successful placement.
type placeOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

// PlaceOrder handles the place order request. Request validation runs
// before the identity check, so an empty item list is rejected as a
// validation failure even for unauthenticated callers.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := placeOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		slog.Error("Error decoding request body for place order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error validating request body for place order", "error", err)

		return
	}

	model, err := req.toModel()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error converting place order request to model", "error", err)

		return
	}

	model.CustomerID = auth.UserID(r.Context())

	orderID, err := service.PlaceOrder(r.Context(), *model)
	if err != nil {
		writeError(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, placeOrderResponse{
		Success: true,
		OrderID: orderID,
	})
}

// writeError maps service errors onto the HTTP error taxonomy. Internal
// failures are logged with detail but surfaced as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var stockErr *product.InsufficientStockError

	switch {
	case errors.Is(err, order.ErrNoCustomer):
		respond.Error(w, http.StatusUnauthorized, "authentication required")
	case errors.As(err, &stockErr):
		respond.Error(w, http.StatusBadRequest,
			fmt.Sprintf("Insufficient stock for product %s", stockErr.ProductID))
	case errors.Is(err, order.ErrNoItems),
		errors.Is(err, order.ErrInvalidItem),
		errors.Is(err, product.ErrProductNotFound):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Error placing order", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
