// Package domain contains the core concepts of the messenger.
// Messages carry their own delivery state; identities are referenced,
// never owned, by messages and presence entries.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a persisted chat message. SenderID is empty for anonymous
// senders, RecipientID is empty when the recipient hint never resolved
// to a known identity; such a message stays on the broadcast path.
type Message struct {
	ID          uuid.UUID
	Sender      string
	SenderID    string
	Recipient   string
	RecipientID string
	Content     string
	Status      DeliveryStatus
	CreatedAt   time.Time
}

// Broadcast reports whether the message has no resolved recipient.
// Broadcast messages never advance past StatusSent through delivery:
// there is no single recipient to attribute a delivery state to.
func (m Message) Broadcast() bool {
	return m.RecipientID == ""
}
