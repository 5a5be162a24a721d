package cart

import (
	"github.com/shopspring/decimal"

	"posdash/internal/domain"
)

// Line is one product's pending quantity in the cart. UnitPrice and Stock
// are captured from the catalog snapshot when the line is created; Stock is
// the only availability signal the terminal has, so Quantity is clamped to
// it on every mutation rather than just at submit time.
type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
}

// Subtotal is the line's extended price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the session-scoped collection of pending sale lines, at most one
// per product, in insertion order. It is exclusively owned by one checkout
// session and never persisted.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of the product in the cart. A new line starts at
// quantity 1 and only when the product has stock; an existing line grows by
// one only while below the captured stock level. Out-of-stock adds and
// at-cap increments are silent no-ops.
func (c *Cart) Add(p domain.Product) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			// The caller hands us the product from the current snapshot, so
			// the increment is bounded by the fresher of the two figures.
			stock := c.lines[i].Stock
			if p.Quantity < stock {
				stock = p.Quantity
			}
			if c.lines[i].Quantity < stock {
				c.lines[i].Quantity++
			}
			return
		}
	}
	if p.Quantity <= 0 {
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.Price,
		Quantity:  1,
		Stock:     p.Quantity,
	})
}

// Adjust moves a line's quantity by delta, clamped to [1, stock]. A result
// below one is rejected (the line keeps its quantity; Remove is the way to
// drop a line), a result above stock clamps to stock. Unknown product IDs
// are ignored.
func (c *Cart) Adjust(productID int64, delta int) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.setLine(i, c.lines[i].Quantity+delta)
			return
		}
	}
}

// SetQuantity sets a line's quantity outright under the same clamping rules
// as Adjust.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.setLine(i, quantity)
			return
		}
	}
}

func (c *Cart) setLine(i, quantity int) {
	if quantity < 1 {
		return
	}
	if quantity > c.lines[i].Stock {
		quantity = c.lines[i].Stock
	}
	c.lines[i].Quantity = quantity
}

// Remove drops the product's line. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Reconcile re-clamps every line against a refreshed catalog snapshot.
// Lines whose product disappeared or sold out are dropped; lines above the
// new stock level shrink to it. The cart never reconciles itself — the
// checkout session calls this at its refresh points.
func (c *Cart) Reconcile(products []domain.Product) {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	kept := c.lines[:0]
	for _, l := range c.lines {
		p, ok := byID[l.ProductID]
		if !ok || p.Quantity <= 0 {
			continue
		}
		l.Stock = p.Quantity
		l.UnitPrice = p.Price
		if l.Quantity > l.Stock {
			l.Quantity = l.Stock
		}
		kept = append(kept, l)
	}
	c.lines = kept
}

// Lines returns the cart contents in insertion order. The slice is a copy;
// mutating it does not affect the cart.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// SaleItems builds the productId/quantity pairs for a sale request, in cart
// order.
func (c *Cart) SaleItems() []domain.SaleItem {
	items := make([]domain.SaleItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, domain.SaleItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return items
}
