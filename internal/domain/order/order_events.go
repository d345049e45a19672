package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced           = "OrderPlaced"
	EventTypeOrderTrackingAdvanced = "OrderTrackingAdvanced"
)

// OrderPlacedEvent is raised after a checkout commits
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uint            `json:"order_id"`
	CustomerEmail string          `json:"customer_email"`
	CustomerName  string          `json:"customer_name"`
	Total         decimal.Decimal `json:"total"`
	LineCount     int             `json:"line_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		CustomerEmail:   o.Email,
		CustomerName:    o.Name,
		Total:           o.Total,
		LineCount:       len(o.Lines),
	}
}

// OrderTrackingAdvancedEvent is raised when an order moves one pipeline step
type OrderTrackingAdvancedEvent struct {
	shared.BaseDomainEvent
	OrderID        uint           `json:"order_id"`
	CustomerEmail  string         `json:"customer_email"`
	PreviousStatus TrackingStatus `json:"previous_status"`
	Status         TrackingStatus `json:"status"`
	Note           string         `json:"note"`
	AdvancedAt     time.Time      `json:"advanced_at"`
}

// NewOrderTrackingAdvancedEvent creates a new OrderTrackingAdvancedEvent
func NewOrderTrackingAdvancedEvent(o *Order, previous TrackingStatus, event TrackingEvent) *OrderTrackingAdvancedEvent {
	return &OrderTrackingAdvancedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderTrackingAdvanced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		CustomerEmail:   o.Email,
		PreviousStatus:  previous,
		Status:          event.Status,
		Note:            event.Note,
		AdvancedAt:      event.CreatedAt,
	}
}
