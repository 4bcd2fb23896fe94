// Package events publishes bill lifecycle events to a message broker.
//
// Publishing is best effort: callers log failures and carry on, so a broker
// outage never fails a bill operation.
package events

import (
	"context"
	"log/slog"
	"time"
)

// EventType names a bill lifecycle event. It doubles as the routing key.
type EventType string

const (
	BillCreated   EventType = "bill.created"
	BillFinalized EventType = "bill.finalized"
	BillArchived  EventType = "bill.archived"
	BillRestored  EventType = "bill.restored"
	BillDeleted   EventType = "bill.deleted"
)

// BillEvent is the JSON payload published for every bill change.
type BillEvent struct {
	Type         EventType `json:"type"`
	BillID       string    `json:"bill_id"`
	TripID       string    `json:"trip_id"`
	ActorID      string    `json:"actor_id"`
	Participants []string  `json:"participants,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	Total        string    `json:"total,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher is the interface implemented by types that can publish bill events.
type Publisher interface {
	Publish(ctx context.Context, event BillEvent) error
	Close()
}

// NopPublisher drops every event. It is used when no broker is configured or
// the broker is unreachable at startup.
type NopPublisher struct{}

// Publish logs and discards the event.
func (NopPublisher) Publish(_ context.Context, event BillEvent) error {
	slog.Debug("Event publish skipped", "type", event.Type, "bill_id", event.BillID)
	return nil
}

// Close is a no-op.
func (NopPublisher) Close() {}
