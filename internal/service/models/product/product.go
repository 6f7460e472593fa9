package product

import (
	"errors"
	"fmt"
	"time"

	"github.com/hwstore/order/internal/service/models/currency"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry. StockQuantity is the single source of
// truth for availability and is only mutated under a row lock inside
// the order placement transaction.
type Product struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	ImageURL      string            `json:"imageUrl"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	StockQuantity int               `json:"stockQuantity"`
	InStock       bool              `json:"inStock"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// InsufficientStockError is returned when a requested quantity exceeds
// the locked stock reading for a product.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available,
	)
}
