package transaction

import (
	"context"
	"errors"
	"fmt"
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

const txnColumns = `id, product_id, product_sku, quantity_sold, total_price::text, recorded_at`

func scanTransaction(row pgx.Row) (*domain.SalesTransaction, error) {
	var (
		t     domain.SalesTransaction
		total string
	)
	if err := row.Scan(&t.ID, &t.ProductID, &t.ProductSKU, &t.QuantitySold, &total, &t.Timestamp); err != nil {
		return nil, err
	}
	var err error
	if t.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) RecordSale(ctx context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if sale.IdempotencyKey != "" {
		existing, err := collectRows(tx.Query(ctx, `
SELECT `+txnColumns+`
FROM transactions
WHERE idempotency_key = $1
ORDER BY id
`, sale.IdempotencyKey))
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			r.logger.Printf("transaction repo: replay key=%s lines=%d", sale.IdempotencyKey, len(existing))
			return existing, nil
		}
	}

	recorded := make([]domain.SalesTransaction, 0, len(sale.Items))
	for _, item := range sale.Items {
		// Conditional decrement keeps the whole sale atomic: the first line
		// the stock cannot cover rolls everything back.
		var (
			sku   string
			price string
		)
		err := tx.QueryRow(ctx, `
UPDATE products
SET quantity = quantity - $2
WHERE id = $1 AND quantity >= $2
RETURNING sku, price::text
`, item.ProductID, item.Quantity).Scan(&sku, &price)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if chkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, item.ProductID).Scan(&exists); chkErr != nil {
				return nil, chkErr
			}
			if !exists {
				return nil, fmt.Errorf("product %d: %w", item.ProductID, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("product %d: %w", item.ProductID, domain.ErrInsufficientStock)
		}
		if err != nil {
			r.logger.Printf("transaction repo: decrement product=%d error=%v", item.ProductID, err)
			return nil, err
		}

		unit, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		total := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))

		line, err := scanTransaction(tx.QueryRow(ctx, `
INSERT INTO transactions (product_id, product_sku, quantity_sold, total_price, idempotency_key)
VALUES ($1, $2, $3, $4::numeric, NULLIF($5, ''))
RETURNING `+txnColumns+`
`, item.ProductID, sku, item.Quantity, total.String(), sale.IdempotencyKey))
		if err != nil {
			r.logger.Printf("transaction repo: insert product=%d error=%v", item.ProductID, err)
			return nil, err
		}
		recorded = append(recorded, *line)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("transaction repo: sale recorded lines=%d key=%s", len(recorded), sale.IdempotencyKey)
	return recorded, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.SalesTransaction, error) {
	result, err := collectRows(r.pool.Query(ctx, `
SELECT `+txnColumns+`
FROM transactions
ORDER BY recorded_at DESC, id DESC
`))
	if err != nil {
		r.logger.Printf("transaction repo: list error=%v", err)
		return nil, err
	}
	return result, nil
}

func collectRows(rows pgx.Rows, err error) ([]domain.SalesTransaction, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SalesTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
