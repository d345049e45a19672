package inventory

import "github.com/storefront/backend/internal/domain/shared"

// Aggregate type constant
const AggregateTypeItem = "Item"

// Event type constants
const (
	EventTypeItemLowStock = "ItemLowStock"
)

// ItemLowStockEvent is raised when a reservation leaves an item at or below its threshold
type ItemLowStockEvent struct {
	shared.BaseDomainEvent
	ItemID    uint   `json:"item_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// NewItemLowStockEvent creates a new ItemLowStockEvent from a reservation snapshot
func NewItemLowStockEvent(res *Reservation) *ItemLowStockEvent {
	return &ItemLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemLowStock, AggregateTypeItem, res.ItemID),
		ItemID:          res.ItemID,
		SKU:             res.SKU,
		Name:            res.Name,
		Quantity:        res.Remaining,
		Threshold:       res.Threshold,
	}
}
