package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one product/quantity pair inside a sale request.
type SaleItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// SaleRequest is the checkout payload. The whole sale succeeds or fails
// together; the backend never commits a subset of its items. Prices are
// recomputed server-side at persistence time, so the request carries none.
type SaleRequest struct {
	Items          []SaleItem `json:"items"`
	IdempotencyKey string     `json:"idempotencyKey,omitempty"`
}

// SalesTransaction is one completed sale line as recorded by the backend.
type SalesTransaction struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductSKU   string          `json:"productSku"`
	QuantitySold int             `json:"quantitySold"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Timestamp    time.Time       `json:"timestamp"`
}
