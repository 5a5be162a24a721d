package business

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"posdash/internal/domain"
	businessrepo "posdash/internal/repository/business"
)

var decimalOne = decimal.NewFromInt(1)

type Service struct {
	repo businessrepo.Repository
}

func New(repo businessrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*domain.Business, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, in businessrepo.UpdateInput) (*domain.Business, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	if strings.TrimSpace(in.Currency) == "" {
		return nil, errors.New("currency required")
	}
	if in.TaxRate.IsNegative() {
		return nil, errors.New("taxRate must not be negative")
	}
	// 1 is 100% tax; anything above is almost certainly a percentage typed
	// where a fraction belongs.
	if in.TaxRate.GreaterThan(decimalOne) {
		return nil, errors.New("taxRate must be a fraction, not a percentage")
	}
	if in.LowStockThreshold < 0 {
		return nil, errors.New("lowStockThreshold must not be negative")
	}
	return s.repo.Update(ctx, in)
}
