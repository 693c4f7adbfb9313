package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"daneth-messenger/contract"
	"daneth-messenger/domain"
	"daneth-messenger/domain/event"
	apperrors "daneth-messenger/errors"
	"daneth-messenger/repositories"
)

// Router accepts send intents and read signals, persists the outcome and
// pushes notifications to the sinks the registry knows about. It is the
// only writer of delivery-status transitions.
type Router struct {
	log      *slog.Logger
	registry contract.IRegistry
	messages repositories.IMessageRepository
	users    repositories.IUserRepository
}

func NewRouter(log *slog.Logger, registry contract.IRegistry,
	messages repositories.IMessageRepository, users repositories.IUserRepository) *Router {
	return &Router{log: log, registry: registry, messages: messages, users: users}
}

// Send relays one message. origin is the sending connection's own sink,
// nil for request/response callers; the echo goes there when present so
// anonymous connections still see their server-assigned id and timestamp.
//
// Persistence failure aborts the operation before any notification.
// A recipient hint that resolves to nobody is not an error: the message
// degrades to the broadcast path with no recipient id.
func (r *Router) Send(ctx context.Context, intent domain.SendIntent, origin contract.EventSink) (domain.Message, error) {
	content := strings.TrimSpace(intent.Content)
	if content == "" {
		return domain.Message{}, apperrors.ErrEmptyContent
	}

	recipientID := intent.RecipientID
	recipientName := intent.Recipient
	if recipientID == "" && recipientName != "" {
		user, err := r.users.GetByUsername(recipientName)
		if err != nil {
			r.log.Debug("Recipient not resolved, falling back to broadcast",
				"recipient", recipientName, "error", err)
		} else {
			recipientID = user.ID
			recipientName = user.Username
		}
	}

	message, err := r.messages.Insert(domain.Message{
		Sender:      intent.Sender.Username,
		SenderID:    intent.Sender.ID,
		Recipient:   recipientName,
		RecipientID: recipientID,
		Content:     content,
		Status:      domain.StatusSent,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	senderSink := r.senderSink(intent.Sender, origin)
	r.push(ctx, senderSink, event.MessageReceived{Message: message})

	recipientSink, online := r.registry.Lookup(recipientID)
	if recipientID != "" && online {
		r.push(ctx, recipientSink, event.MessageReceived{Message: message})

		status, changed, err := r.messages.UpdateStatus(message.ID, domain.StatusDelivered)
		if err != nil {
			return message, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
		}
		if changed {
			message.Status = status
			notification := event.StatusChanged{MessageID: message.ID, Status: status}
			r.push(ctx, senderSink, notification)
			r.push(ctx, recipientSink, notification)
		}
		return message, nil
	}

	for _, sink := range r.registry.Others(intent.Sender.ID) {
		if sink == origin {
			continue
		}
		r.push(ctx, sink, event.MessageReceived{Message: message})
	}
	return message, nil
}

// senderSink prefers the live connection the intent arrived on, falling
// back to whatever the registry holds for the sender's identity.
func (r *Router) senderSink(sender domain.Identity, origin contract.EventSink) contract.EventSink {
	if origin != nil {
		return origin
	}
	if sink, ok := r.registry.Lookup(sender.ID); ok {
		return sink
	}
	return nil
}

// push is fire-and-forget: a saturated or stale sink is a silent
// delivery failure, never an error surfaced to the caller.
func (r *Router) push(ctx context.Context, sink contract.EventSink, e event.Event) {
	if sink == nil {
		return
	}
	if err := sink.Consume(ctx, e); err != nil {
		r.log.Debug("Dropped notification", "event", e.Name(), "error", err)
	}
}
