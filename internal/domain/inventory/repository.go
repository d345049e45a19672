package inventory

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// ItemRepository is the inventory ledger. Reserve is the only path that
// decrements stock and must be atomic against concurrent reservations of the
// same item.
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uint) (*Item, error)

	// FindBySKU finds an item by its unique SKU
	FindBySKU(ctx context.Context, sku string) (*Item, error)

	// List returns items ordered by the filter
	List(ctx context.Context, filter shared.Filter) ([]Item, int64, error)

	// Reserve checks and decrements stock for one item in one step.
	// Returns a NOT_FOUND or INSUFFICIENT_STOCK domain error on failure.
	Reserve(ctx context.Context, id uint, qty int) (*Reservation, error)

	// UpsertBySKU creates the item or overwrites the existing one with the same SKU
	UpsertBySKU(ctx context.Context, item *Item) error

	// Categories returns the distinct category/subcategory pairs, sorted
	Categories(ctx context.Context) ([]Category, error)

	// CountLowStock counts items at or below their low-stock threshold
	CountLowStock(ctx context.Context) (int64, error)
}

// Category groups the subcategories found under one category name
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// Filter keys understood by ItemRepository.List
const (
	FilterCategory    = "category"
	FilterSubcategory = "subcategory"
)
