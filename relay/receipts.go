package relay

import (
	"context"
	"errors"
	"fmt"

	"daneth-messenger/domain"
	"daneth-messenger/domain/event"
	apperrors "daneth-messenger/errors"

	"github.com/google/uuid"
)

// MarkRead processes a recipient-originated read signal.
//
// Unknown message ids are a silent no-op: a receipt for a message the
// client already evicted from view is not an anomaly. The reporter must
// match the message's recipient (id first, display name as fallback);
// the check is advisory, a mismatch is logged and dropped rather than
// rejected. On a real transition the sender's live sink, if any, gets a
// status notification; the reporter gets nothing back.
func (r *Router) MarkRead(ctx context.Context, messageID string, reporter domain.Identity) error {
	id, err := uuid.Parse(messageID)
	if err != nil {
		r.log.Debug("Ignoring read signal with malformed id", "message_id", messageID)
		return nil
	}

	message, err := r.messages.FindByID(id)
	if errors.Is(err, apperrors.ErrMessageNotFound) {
		r.log.Debug("Ignoring read signal for unknown message", "message_id", messageID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if !reportedByRecipient(message, reporter) {
		r.log.Debug("Ignoring read signal from non-recipient",
			"message_id", messageID, "reporter", reporter.Username)
		return nil
	}

	if message.Status == domain.StatusRead {
		return nil
	}

	status, changed, err := r.messages.UpdateStatus(id, domain.StatusRead)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if !changed {
		return nil
	}

	if message.SenderID != "" {
		if sink, ok := r.registry.Lookup(message.SenderID); ok {
			r.push(ctx, sink, event.StatusChanged{MessageID: id, Status: status})
		}
	}
	return nil
}

// reportedByRecipient verifies the reporter against the message's
// recipient. A broadcast message has no recipient at all, so no reporter
// can ever match it and its status stays where delivery left it.
func reportedByRecipient(message domain.Message, reporter domain.Identity) bool {
	if message.RecipientID != "" {
		return message.RecipientID == reporter.ID
	}
	if message.Recipient != "" {
		return message.Recipient == reporter.Username
	}
	return false
}
