package business

import (
	"context"

	"github.com/shopspring/decimal"

	"posdash/internal/domain"
)

type Repository interface {
	Get(ctx context.Context) (*domain.Business, error)
	Update(ctx context.Context, in UpdateInput) (*domain.Business, error)
}

type UpdateInput struct {
	Name              string
	Currency          string
	TaxRate           decimal.Decimal
	LowStockThreshold int
	ContactAddress    string
}
