package order

import (
	"errors"
	"time"

	"github.com/hwstore/order/internal/service/models/currency"
	"github.com/hwstore/order/internal/service/models/orderitem"
	"github.com/hwstore/order/internal/service/models/status"
)

var (
	// ErrNoCustomer means the request carried no authenticated customer identity.
	ErrNoCustomer = errors.New("customer id is required")
	// ErrNoItems means the order carried an empty line item list.
	ErrNoItems = errors.New("order must contain at least one item")
	// ErrInvalidItem means a line item had a non-positive quantity or a negative price.
	ErrInvalidItem = errors.New("invalid order item")
)

// Order represents a customer order. TotalCents is computed from the
// line items at placement time and never recomputed afterwards.
type Order struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customerId"`
	Status          status.Status         `json:"status"`
	TotalCents      int64                 `json:"totalCents"`
	TotalCurrency   currency.Currency     `json:"totalCurrency"`
	ShippingAddress string                `json:"shippingAddress"`
	City            string                `json:"city"`
	Phone           string                `json:"phone"`
	PaymentMethod   string                `json:"paymentMethod"`
	Paid            bool                  `json:"paid"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	OrderItems      []orderitem.OrderItem `json:"orderItems"`
}

// ComputeTotalCents sums quantity times unit price over all line items.
func (o *Order) ComputeTotalCents() int64 {
	var total int64
	for _, item := range o.OrderItems {
		total += int64(item.Quantity) * item.PriceCents
	}

	return total
}
