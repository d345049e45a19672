package shared

import "context"

// EventHandler reacts to published domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants by default
	EventTypes() []string
}

// EventPublisher hands committed domain events to whoever listens.
// Checkout and the tracking engine publish only after their transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}
