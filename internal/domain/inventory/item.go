package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultLowStockThreshold is applied when an item is created without one
const DefaultLowStockThreshold = 10

// Item is a sellable catalog entry together with its on-hand stock.
// Quantity never goes negative; it only moves through Reserve and Restock.
type Item struct {
	shared.BaseEntity
	SKU               string
	Name              string
	Category          string
	Subcategory       string
	Description       string
	ImageURL          string
	Price             decimal.Decimal
	Quantity          int
	LowStockThreshold int
}

// ItemSpec carries the fields needed to create or upsert an item
type ItemSpec struct {
	SKU               string
	Name              string
	Category          string
	Subcategory       string
	Description       string
	ImageURL          string
	Price             decimal.Decimal
	Quantity          int
	LowStockThreshold *int
}

// NewItem creates a validated item from a spec
func NewItem(spec ItemSpec) (*Item, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	threshold := DefaultLowStockThreshold
	if spec.LowStockThreshold != nil {
		threshold = *spec.LowStockThreshold
	}

	return &Item{
		BaseEntity:        shared.NewBaseEntity(time.Now()),
		SKU:               strings.TrimSpace(spec.SKU),
		Name:              strings.TrimSpace(spec.Name),
		Category:          strings.TrimSpace(spec.Category),
		Subcategory:       strings.TrimSpace(spec.Subcategory),
		Description:       spec.Description,
		ImageURL:          spec.ImageURL,
		Price:             spec.Price,
		Quantity:          spec.Quantity,
		LowStockThreshold: threshold,
	}, nil
}

// Validate checks the spec fields
func (s ItemSpec) Validate() error {
	if strings.TrimSpace(s.SKU) == "" {
		return shared.NewDomainError("INVALID_INPUT", "SKU cannot be empty")
	}
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Item name cannot be empty")
	}
	if strings.TrimSpace(s.Category) == "" || strings.TrimSpace(s.Subcategory) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Category and subcategory are required")
	}
	if !s.Price.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Price must be positive")
	}
	if s.Quantity < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Quantity cannot be negative")
	}
	if s.LowStockThreshold != nil && *s.LowStockThreshold < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Low stock threshold cannot be negative")
	}
	return nil
}

// Apply overwrites the mutable catalog fields from spec, keeping identity and SKU
func (i *Item) Apply(spec ItemSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	i.Name = strings.TrimSpace(spec.Name)
	i.Category = strings.TrimSpace(spec.Category)
	i.Subcategory = strings.TrimSpace(spec.Subcategory)
	i.Description = spec.Description
	i.ImageURL = spec.ImageURL
	i.Price = spec.Price
	i.Quantity = spec.Quantity
	if spec.LowStockThreshold != nil {
		i.LowStockThreshold = *spec.LowStockThreshold
	}
	i.UpdatedAt = time.Now()
	return nil
}

// IsLowStock reports whether on-hand quantity is at or below the threshold
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// Reserve takes qty units off the shelf and returns the price snapshot for the
// order line. The persisted decrement is done by ItemRepository.Reserve, which
// calls this after locking the row.
func (i *Item) Reserve(qty int) (*Reservation, error) {
	if qty <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if i.Quantity < qty {
		return nil, NewInsufficientStockError(i.Name)
	}

	i.Quantity -= qty
	i.UpdatedAt = time.Now()

	return &Reservation{
		ItemID:    i.ID,
		SKU:       i.SKU,
		Name:      i.Name,
		UnitPrice: i.Price,
		Quantity:  qty,
		Remaining: i.Quantity,
		Threshold: i.LowStockThreshold,
	}, nil
}

// Reservation is the snapshot captured when stock is taken for an order line
type Reservation struct {
	ItemID    uint
	SKU       string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Remaining int
	Threshold int
}

// Amount returns UnitPrice × Quantity
func (r *Reservation) Amount() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// LeftLowStock reports whether the reservation left the item at or below its threshold
func (r *Reservation) LeftLowStock() bool {
	return r.Remaining <= r.Threshold
}

// NewItemNotFoundError reports a missing item by id
func NewItemNotFoundError(id uint) *shared.DomainError {
	return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Item %d not found", id))
}

// NewInsufficientStockError reports a stock shortfall naming the item
func NewInsufficientStockError(name string) *shared.DomainError {
	return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Insufficient stock for %s", name))
}
