package business

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"posdash/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const businessColumns = `id, name, currency, tax_rate::text, low_stock_threshold, COALESCE(contact_address, '')`

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var (
		b    domain.Business
		rate string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Currency, &rate, &b.LowStockThreshold, &b.ContactAddress); err != nil {
		return nil, err
	}
	var err error
	if b.TaxRate, err = decimal.NewFromString(rate); err != nil {
		return nil, err
	}
	return &b, nil
}

// Get returns the single settings row.
func (r *postgresRepo) Get(ctx context.Context) (*domain.Business, error) {
	b, err := scanBusiness(r.pool.QueryRow(ctx, `
SELECT `+businessColumns+`
FROM business
WHERE id = 1
`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("business repo: get error=%v", err)
		return nil, err
	}
	return b, nil
}

func (r *postgresRepo) Update(ctx context.Context, in UpdateInput) (*domain.Business, error) {
	b, err := scanBusiness(r.pool.QueryRow(ctx, `
INSERT INTO business (id, name, currency, tax_rate, low_stock_threshold, contact_address)
VALUES (1, $1, $2, $3::numeric, $4, NULLIF($5, ''))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    currency = EXCLUDED.currency,
    tax_rate = EXCLUDED.tax_rate,
    low_stock_threshold = EXCLUDED.low_stock_threshold,
    contact_address = EXCLUDED.contact_address
RETURNING `+businessColumns+`
`, in.Name, in.Currency, in.TaxRate.String(), in.LowStockThreshold, in.ContactAddress))
	if err != nil {
		r.logger.Printf("business repo: update error=%v", err)
		return nil, err
	}
	r.logger.Printf("business repo: settings updated name=%s tax_rate=%s", b.Name, b.TaxRate.String())
	return b, nil
}
