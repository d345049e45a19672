package order

import "context"

// OrderRepository persists orders with their lines and tracking log
type OrderRepository interface {
	// Create inserts the order, its lines and its tracking events, assigning IDs
	Create(ctx context.Context, o *Order) error

	// FindByID loads an order with lines (item details joined) and events in
	// chronological order. Returns ErrOrderNotFound when missing.
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByEmail returns the customer's orders, newest first, fully loaded
	FindByEmail(ctx context.Context, email string) ([]Order, error)

	// FindAdvanceable returns up to limit paid, undelivered orders, least
	// recently updated first. Lines and events are not loaded.
	FindAdvanceable(ctx context.Context, limit int) ([]Order, error)

	// FindEvents returns an order's tracking log in insertion order
	FindEvents(ctx context.Context, orderID uint) ([]TrackingEvent, error)

	// SaveTracking persists a single pipeline step: the order's status moves
	// from previous to o.TrackingStatus and event is appended. Returns
	// shared.ErrConcurrencyConflict if the stored status is no longer previous.
	SaveTracking(ctx context.Context, o *Order, previous TrackingStatus, event *TrackingEvent) error
}
