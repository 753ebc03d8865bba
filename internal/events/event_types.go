package events

import (
	"time"

	"github.com/deskops/service-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated  EventType = "request_created"
	EventRequestResolved EventType = "request_resolved"
)

// Event represents a domain event emitted by services. Events are published
// only after the triggering mutation has committed.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	RequesterName string                 `json:"requester_name"`
	Department    string                 `json:"department"`
	Category      domain.RequestCategory `json:"category"`
	Description   string                 `json:"description"`
	Status        domain.RequestStatus   `json:"status"`
}

// RequestResolvedPayload payload.
type RequestResolvedPayload struct {
	RequesterName string                 `json:"requester_name"`
	Category      domain.RequestCategory `json:"category"`
	ResolvedByID  string                 `json:"resolved_by_id"`
}
