package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	ID          uuid.UUID
	Type        string
	AggregateId uuid.UUID
	Timestamp   time.Time
}

// EventID returns the event ID
func (e BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the event type name
func (e BaseDomainEvent) EventType() string {
	return e.Type
}

// AggregateID returns the ID of the aggregate that emitted the event
func (e BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggregateId
}

// OccurredAt returns when the event occurred
func (e BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateId: aggregateID,
		Timestamp:   time.Now(),
	}
}

// EventPublisher publishes domain events to interested subscribers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}
