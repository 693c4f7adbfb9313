// Package event defines the notifications pushed to connected clients.
package event

import (
	"daneth-messenger/domain"

	"github.com/google/uuid"
)

// Event is a one-way notification delivered through a client sink.
// Name returns the wire event name clients subscribe to.
type Event interface {
	Name() string
}

// MessageReceived carries a full persisted message to a client view.
type MessageReceived struct {
	Message domain.Message
}

func (MessageReceived) Name() string { return "new_message" }

// StatusChanged informs a party that a message advanced its lifecycle.
type StatusChanged struct {
	MessageID uuid.UUID
	Status    domain.DeliveryStatus
}

func (StatusChanged) Name() string { return "message_status" }
