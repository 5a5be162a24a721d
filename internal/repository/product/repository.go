package product

import (
	"context"

	"github.com/shopspring/decimal"

	"posdash/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in CreateInput) (*domain.Product, error)
	UpdateDetails(ctx context.Context, id int64, in DetailsInput) (*domain.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type CreateInput struct {
	Name             string
	SKU              string
	Price            decimal.Decimal
	Cost             decimal.Decimal
	Quantity         int
	ReorderThreshold int
}

// DetailsInput carries a partial metadata update; nil fields are left
// unchanged. Stock is deliberately absent, it only moves through
// AdjustStock or a recorded sale.
type DetailsInput struct {
	Name             *string
	SKU              *string
	Price            *decimal.Decimal
	Cost             *decimal.Decimal
	ReorderThreshold *int
}
