package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate. Concrete events
// embed BaseDomainEvent and add their payload fields.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uint
	AggregateType() string
}

// BaseDomainEvent carries the envelope every event shares
type BaseDomainEvent struct {
	id            uuid.UUID
	eventType     string
	occurredAt    time.Time
	aggregateID   uint
	aggregateType string
}

// NewBaseDomainEvent stamps an envelope with a fresh id and the current time
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID uint) BaseDomainEvent {
	return BaseDomainEvent{
		id:            uuid.New(),
		eventType:     eventType,
		occurredAt:    time.Now().UTC(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID { return e.id }
func (e *BaseDomainEvent) EventType() string { return e.eventType }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *BaseDomainEvent) AggregateID() uint { return e.aggregateID }
func (e *BaseDomainEvent) AggregateType() string { return e.aggregateType }
