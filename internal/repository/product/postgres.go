package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// Monetary columns come back as text and are parsed into decimals so no
// float conversion ever touches a price.
const productColumns = `id, name, sku, price::text, cost::text, quantity, reorder_threshold, created_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
		cost  string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &price, &cost, &p.Quantity, &p.ReorderThreshold, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	if p.Cost, err = decimal.NewFromString(cost); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, sku, price, cost, quantity, reorder_threshold)
VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6)
RETURNING ` + productColumns + `
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q,
		in.Name, in.SKU, in.Price.String(), in.Cost.String(), in.Quantity, in.ReorderThreshold))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSKU
		}
		r.logger.Printf("product repo: create sku=%s error=%v", in.SKU, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%d sku=%s", p.ID, p.SKU)
	return p, nil
}

func (r *postgresRepo) UpdateDetails(ctx context.Context, id int64, in DetailsInput) (*domain.Product, error) {
	const q = `
UPDATE products SET
    name = COALESCE($2, name),
    sku = COALESCE($3, sku),
    price = COALESCE($4::numeric, price),
    cost = COALESCE($5::numeric, cost),
    reorder_threshold = COALESCE($6, reorder_threshold)
WHERE id = $1
RETURNING ` + productColumns + `
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q,
		id, in.Name, in.SKU, decimalArg(in.Price), decimalArg(in.Cost), in.ReorderThreshold))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSKU
		}
		r.logger.Printf("product repo: update id=%d error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	const q = `
UPDATE products
SET quantity = quantity + $2
WHERE id = $1 AND quantity + $2 >= 0
RETURNING ` + productColumns + `
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id, delta))
	if err == nil {
		r.logger.Printf("product repo: stock adjusted id=%d delta=%d now=%d", id, delta, p.Quantity)
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Printf("product repo: adjust stock id=%d error=%v", id, err)
		return nil, err
	}

	// No row matched: either the product is gone or the delta would drive
	// stock negative. Tell the two apart for the caller.
	var exists bool
	if chkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); chkErr != nil {
		return nil, chkErr
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientStock
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.New("product has recorded sales and cannot be deleted")
		}
		r.logger.Printf("product repo: delete id=%d error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: deleted id=%d", id)
	return nil
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
