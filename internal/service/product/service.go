package product

import (
	"context"
	"errors"
	"strings"

	"posdash/internal/domain"
	productrepo "posdash/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in productrepo.CreateInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	if strings.TrimSpace(in.SKU) == "" {
		return nil, errors.New("sku required")
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, errors.New("price and cost must not be negative")
	}
	if in.Quantity < 0 || in.ReorderThreshold < 0 {
		return nil, errors.New("quantity and reorder threshold must not be negative")
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) UpdateDetails(ctx context.Context, id int64, in productrepo.DetailsInput) (*domain.Product, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, errors.New("name must not be blank")
	}
	if in.SKU != nil && strings.TrimSpace(*in.SKU) == "" {
		return nil, errors.New("sku must not be blank")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, errors.New("price must not be negative")
	}
	if in.Cost != nil && in.Cost.IsNegative() {
		return nil, errors.New("cost must not be negative")
	}
	if in.ReorderThreshold != nil && *in.ReorderThreshold < 0 {
		return nil, errors.New("reorder threshold must not be negative")
	}
	return s.repo.UpdateDetails(ctx, id, in)
}

func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	if delta == 0 {
		return nil, errors.New("quantityChange must not be zero")
	}
	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
