package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name             string
	SKU              string
	Price            string
	Cost             string
	Quantity         int
	ReorderThreshold int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureBusiness(ctx, pool); err != nil {
		return fmt.Errorf("ensure business: %w", err)
	}

	products := []productSeed{
		{
			Name:             "Espresso Beans 1kg",
			SKU:              "SKU-BEANS-1KG",
			Price:            "18.50",
			Cost:             "9.75",
			Quantity:         40,
			ReorderThreshold: 10,
		},
		{
			Name:             "Ceramic Mug",
			SKU:              "SKU-MUG-CERAMIC",
			Price:            "12.99",
			Cost:             "4.20",
			Quantity:         25,
			ReorderThreshold: 5,
		},
		{
			Name:             "Pour-Over Kettle",
			SKU:              "SKU-KETTLE-POUR",
			Price:            "49.00",
			Cost:             "27.00",
			Quantity:         8,
			ReorderThreshold: 3,
		},
		{
			Name:             "Paper Filters (100)",
			SKU:              "SKU-FILTER-100",
			Price:            "6.25",
			Cost:             "2.10",
			Quantity:         0,
			ReorderThreshold: 20,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	return nil
}

func ensureBusiness(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
INSERT INTO business (id, name, currency, tax_rate, low_stock_threshold, contact_address)
VALUES (1, 'Demo Coffee Supply', 'USD', 0.08, 5, '12 Roast Lane')
ON CONFLICT (id) DO NOTHING
`)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	_, err := pool.Exec(ctx, `
INSERT INTO products (name, sku, price, cost, quantity, reorder_threshold)
VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    cost = EXCLUDED.cost,
    reorder_threshold = EXCLUDED.reorder_threshold
`, p.Name, p.SKU, p.Price, p.Cost, p.Quantity, p.ReorderThreshold)
	return err
}
