package transaction

import (
	"context"
	"errors"

	"posdash/internal/domain"
)

// Service validates sale requests before handing them to the repository,
// which commits them all-or-nothing.
type Service struct {
	repo saleRepo
}

type saleRepo interface {
	RecordSale(ctx context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error)
	List(ctx context.Context) ([]domain.SalesTransaction, error)
}

func New(repo saleRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error) {
	if len(sale.Items) == 0 {
		return nil, errors.New("items required")
	}
	seen := make(map[int64]bool, len(sale.Items))
	for _, item := range sale.Items {
		if item.Quantity <= 0 {
			return nil, errors.New("quantity must be positive")
		}
		if seen[item.ProductID] {
			return nil, errors.New("duplicate product in sale")
		}
		seen[item.ProductID] = true
	}
	return s.repo.RecordSale(ctx, sale)
}

func (s *Service) History(ctx context.Context) ([]domain.SalesTransaction, error) {
	return s.repo.List(ctx)
}
