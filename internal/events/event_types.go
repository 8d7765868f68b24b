package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/hospital-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered      EventType = "account.registered"
	EventAccountUpdated         EventType = "account.updated"
	EventAccountDeleted         EventType = "account.deleted"
	EventAccountPasswordChanged EventType = "account.password_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, accountID string, actorID *string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: accountID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

// AccountUpdatedPayload payload.
type AccountUpdatedPayload struct {
	Fields          []string `json:"fields"`
	PasswordChanged bool     `json:"password_changed"`
}
