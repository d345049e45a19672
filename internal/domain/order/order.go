package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// PlacedNote is written on the first tracking event of every order
const PlacedNote = "Order placed and payment captured"

// Customer identifies who placed the order. Email is the routing key for
// notifications and is always stored lowercased.
type Customer struct {
	Name            string
	Email           string
	Mobile          string
	BillingAddress  string
	ShippingAddress string
}

// Order is the aggregate root for a checkout. Only TrackingStatus (and
// UpdatedAt) change after creation.
type Order struct {
	shared.BaseAggregateRoot
	Customer
	PaymentMethod  PaymentMethod
	PaymentStatus  PaymentStatus
	TrackingStatus TrackingStatus
	Total          decimal.Decimal
	Lines          []OrderLine
	Events         []TrackingEvent
}

// OrderLine is one purchased item with the price captured at checkout
type OrderLine struct {
	ID        uint
	OrderID   uint
	ItemID    uint
	ItemName  string
	ItemSKU   string
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// Amount returns UnitPrice × Quantity
func (l OrderLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TrackingEvent is one entry of an order's append-only tracking log
type TrackingEvent struct {
	ID        uint
	OrderID   uint
	Status    TrackingStatus
	Note      string
	CreatedAt time.Time
}

// NewLine builds an order line from a reserved item
func NewLine(itemID uint, name, sku string, qty int, unitPrice decimal.Decimal) OrderLine {
	return OrderLine{
		ItemID:    itemID,
		ItemName:  name,
		ItemSKU:   sku,
		Quantity:  qty,
		UnitPrice: unitPrice,
	}
}

// NormalizeEmail lowercases and trims an email for use as a routing key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Place creates a paid order at PLACED with its first tracking event.
// The total is computed here from the line snapshots and never recomputed.
func Place(customer Customer, method PaymentMethod, lines []OrderLine, now time.Time) (*Order, error) {
	if strings.TrimSpace(customer.Name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	customer.Email = NormalizeEmail(customer.Email)
	if customer.Email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer email cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid payment method: %s", method))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order must have at least one line")
	}

	total := decimal.Zero
	for i := range lines {
		if lines[i].Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Line quantity must be positive")
		}
		lines[i].CreatedAt = now
		total = total.Add(lines[i].Amount())
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Customer:          customer,
		PaymentMethod:     method,
		PaymentStatus:     PaymentPaid,
		TrackingStatus:    TrackingPlaced,
		Total:             total,
		Lines:             lines,
	}
	o.Events = []TrackingEvent{{
		Status:    TrackingPlaced,
		Note:      PlacedNote,
		CreatedAt: now,
	}}
	return o, nil
}

// RecordPlacement raises OrderPlaced. It must be called after the store has
// assigned the order its ID.
func (o *Order) RecordPlacement() error {
	if o.IsNew() {
		return shared.NewDomainError("INVALID_STATE", "Order has not been persisted")
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// Advance moves the order one step along the pipeline and appends the
// matching tracking event. The returned event is not yet persisted.
func (o *Order) Advance(now time.Time) (*TrackingEvent, error) {
	if !o.TrackingStatus.IsValid() {
		return nil, ErrUnknownTrackingStatus
	}
	next, ok := o.TrackingStatus.Next()
	if !ok {
		return nil, ErrTrackingComplete
	}
	if o.PaymentStatus != PaymentPaid {
		return nil, shared.NewDomainError("INVALID_STATE", "Only paid orders can progress")
	}

	previous := o.TrackingStatus
	o.TrackingStatus = next
	o.UpdatedAt = now

	event := TrackingEvent{
		OrderID:   o.ID,
		Status:    next,
		Note:      MovedNote(next),
		CreatedAt: now,
	}
	o.Events = append(o.Events, event)
	o.AddDomainEvent(NewOrderTrackingAdvancedEvent(o, previous, event))
	return &o.Events[len(o.Events)-1], nil
}

// LatestEvent returns the most recent tracking event, or nil if none are loaded
func (o *Order) LatestEvent() *TrackingEvent {
	if len(o.Events) == 0 {
		return nil
	}
	return &o.Events[len(o.Events)-1]
}

// LineTotal sums the line amounts
func (o *Order) LineTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Amount())
	}
	return total
}

// MovedNote is the tracking note written when an order reaches status
func MovedNote(status TrackingStatus) string {
	return "Order moved to " + status.Label()
}

// Errors raised by Advance
var (
	ErrTrackingComplete      = shared.NewDomainError("TRACKING_COMPLETE", "Order has already been delivered")
	ErrUnknownTrackingStatus = shared.NewDomainError("UNKNOWN_TRACKING_STATUS", "Order has an unknown tracking status")
	ErrOrderNotFound         = shared.NewDomainError("NOT_FOUND", "Order not found")
)
