package transaction

import (
	"context"

	"posdash/internal/domain"
)

type Repository interface {
	// RecordSale commits every item of the sale or none of them. A repeated
	// idempotency key returns the originally recorded lines instead of
	// selling the stock twice.
	RecordSale(ctx context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error)
	List(ctx context.Context) ([]domain.SalesTransaction, error)
}
