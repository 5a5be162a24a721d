package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock indicates a sale line asked for more units than
	// the backend currently holds.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicateSKU indicates a product create or update collides with an
	// existing SKU.
	ErrDuplicateSKU = errors.New("sku already in use")
)
