package orderitem

import (
	"time"

	"github.com/hwstore/order/internal/service/models/currency"
)

// OrderItem represents a single line within an order. Title, image and
// price are snapshots captured at order time and stay decoupled from
// later catalog changes.
type OrderItem struct {
	ID            int64             `json:"id"`
	OrderID       string            `json:"orderId"`
	ProductID     string            `json:"productId"`
	Quantity      int               `json:"quantity"`
	ProductTitle  string            `json:"productTitle"`
	ProductImage  string            `json:"productImage"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
