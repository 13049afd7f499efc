package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventAccountUpdated    EventType = "account_updated"
	EventAccountDeleted    EventType = "account_deleted"
)

// AccountEventTypes lists every event the account lifecycle emits.
var AccountEventTypes = []EventType{EventAccountRegistered, EventAccountUpdated, EventAccountDeleted}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, accountID string, role domain.Role, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: accountID,
		Role:      role,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	HasImage    bool   `json:"has_image,omitempty"`
}

// AccountUpdatedPayload payload.
type AccountUpdatedPayload struct {
	Email           string `json:"email"`
	EmailChanged    bool   `json:"email_changed"`
	PasswordChanged bool   `json:"password_changed"`
}

// AccountDeletedPayload payload.
type AccountDeletedPayload struct {
	ImageKey string `json:"image_key,omitempty"`
}
