// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the engine; read-side caches subscribe to the award events.
const (
	// Objective catalog events
	EventObjectiveCreated EventType = "objective.created"
	EventObjectiveDeleted EventType = "objective.deleted"

	// Progress events
	EventObjectiveAssigned   EventType = "progress.assigned"
	EventProgressRecorded    EventType = "progress.recorded"
	EventObjectiveCompleted  EventType = "progress.completed"
	EventObjectiveUnassigned EventType = "progress.unassigned"

	// Ledger events
	EventPointsAwarded EventType = "ledger.points_awarded"

	// Engagement events
	EventEngagementLogged EventType = "engagement.logged"

	// Report events
	EventReportGenerated EventType = "report.generated"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a domain event. Handlers must be safe for
// concurrent use; the bus may invoke them from multiple goroutines.
type EventHandler func(event Event) error

// EventPublisher is the narrow publishing side of the event bus.
// Command handlers depend on this instead of the full bus.
type EventPublisher interface {
	Publish(event Event) error
}

// EventBus distributes domain events to subscribed handlers.
type EventBus interface {
	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error

	// Publish sends an event to all subscribed handlers.
	Publish(event Event) error

	// Close gracefully shuts down the bus.
	Close() error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// PointsAwardedEvent is published whenever a ledger entry is appended,
// whether from a completion transition or a direct append.
type PointsAwardedEvent struct {
	BaseEvent
	MemberID   string
	Points     int
	SourceType string
	SourceID   string
}

// NewPointsAwardedEvent creates a points awarded event for a member.
func NewPointsAwardedEvent(memberID string, points int, sourceType, sourceID string) PointsAwardedEvent {
	return PointsAwardedEvent{
		BaseEvent:  NewBaseEvent(EventPointsAwarded, memberID),
		MemberID:   memberID,
		Points:     points,
		SourceType: sourceType,
		SourceID:   sourceID,
	}
}

// Payload implements Event interface.
func (e PointsAwardedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"member_id":   e.MemberID,
		"points":      e.Points,
		"source_type": e.SourceType,
		"source_id":   e.SourceID,
	}
}

// ObjectiveCompletedEvent is published when the completion latch fires.
type ObjectiveCompletedEvent struct {
	BaseEvent
	MemberID      string
	ObjectiveID   string
	PointsAwarded int
}

// NewObjectiveCompletedEvent creates a completion event.
func NewObjectiveCompletedEvent(memberID, objectiveID string, points int) ObjectiveCompletedEvent {
	return ObjectiveCompletedEvent{
		BaseEvent:     NewBaseEvent(EventObjectiveCompleted, memberID),
		MemberID:      memberID,
		ObjectiveID:   objectiveID,
		PointsAwarded: points,
	}
}

// Payload implements Event interface.
func (e ObjectiveCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"member_id":      e.MemberID,
		"objective_id":   e.ObjectiveID,
		"points_awarded": e.PointsAwarded,
	}
}

// GenericEvent is a minimal event with an arbitrary payload, used for
// low-traffic event types that carry no typed data.
type GenericEvent struct {
	BaseEvent
	Data map[string]interface{}
}

// NewGenericEvent creates a generic event.
func NewGenericEvent(eventType EventType, aggregateID string, data map[string]interface{}) GenericEvent {
	return GenericEvent{
		BaseEvent: NewBaseEvent(eventType, aggregateID),
		Data:      data,
	}
}

// Payload implements Event interface.
func (e GenericEvent) Payload() map[string]interface{} {
	return e.Data
}
