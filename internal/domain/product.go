package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Price            decimal.Decimal `json:"price"`
	Cost             decimal.Decimal `json:"cost"`
	Quantity         int             `json:"quantity"`
	ReorderThreshold int             `json:"reorderThreshold"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// InStock reports whether at least one unit can still be sold.
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// LowStock reports whether the product has fallen to its reorder threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.ReorderThreshold
}
