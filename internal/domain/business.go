package domain

import "github.com/shopspring/decimal"

// Business holds the merchant-level settings the terminal reads.
// TaxRate is a fraction (0.08 means 8%), never a percentage integer.
type Business struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Currency          string          `json:"currency"`
	TaxRate           decimal.Decimal `json:"taxRate"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	ContactAddress    string          `json:"contactAddress,omitempty"`
}
