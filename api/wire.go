package api

import (
	"encoding/json"
	"time"

	"daneth-messenger/domain"
	"daneth-messenger/domain/event"

	"github.com/samber/lo"
)

// Socket frames are JSON envelopes: {"event": "...", "data": {...}}.
// Inbound events are send_message and message_read; outbound events are
// new_message and message_status.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type sendPayload struct {
	Sender      string `json:"sender,omitempty"`
	Recipient   string `json:"recipient,omitempty"`
	RecipientID string `json:"recipientId,omitempty"`
	Content     string `json:"content"`
}

type readPayload struct {
	MessageID string `json:"messageId"`
}

type messagePayload struct {
	ID          string    `json:"id"`
	Sender      string    `json:"sender"`
	SenderID    string    `json:"senderId,omitempty"`
	Recipient   string    `json:"recipient,omitempty"`
	RecipientID string    `json:"recipientId,omitempty"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

type statusPayload struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

type userPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}

func toMessagePayload(m domain.Message) messagePayload {
	return messagePayload{
		ID:          m.ID.String(),
		Sender:      m.Sender,
		SenderID:    m.SenderID,
		Recipient:   m.Recipient,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		Status:      string(m.Status),
		Timestamp:   m.CreatedAt,
	}
}

func toMessagePayloads(messages []domain.Message) []messagePayload {
	return lo.Map(messages, func(m domain.Message, _ int) messagePayload {
		return toMessagePayload(m)
	})
}

func toUserPayload(identity domain.Identity) userPayload {
	return userPayload{ID: identity.ID, Username: identity.Username, IsAdmin: identity.IsAdmin}
}

func encodeEvent(e event.Event) outboundFrame {
	switch evt := e.(type) {
	case event.MessageReceived:
		return outboundFrame{Event: evt.Name(), Data: toMessagePayload(evt.Message)}
	case event.StatusChanged:
		return outboundFrame{Event: evt.Name(), Data: statusPayload{
			MessageID: evt.MessageID.String(),
			Status:    string(evt.Status),
		}}
	default:
		return outboundFrame{Event: e.Name()}
	}
}
