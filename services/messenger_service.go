package services

import (
	"context"

	"daneth-messenger/contract"
	"daneth-messenger/domain"
	"daneth-messenger/relay"
	"daneth-messenger/repositories"
)

type IMessengerService interface {
	Send(ctx context.Context, intent domain.SendIntent, origin contract.EventSink) (domain.Message, error)
	MarkRead(ctx context.Context, messageID string, reporter domain.Identity) error
	History(me domain.Identity, with string, limit int) ([]domain.Message, error)
	ListUsers(limit int) ([]domain.Identity, error)
}

// MessengerService fronts the relay engine for the transport layer and
// owns the read-side plumbing (history, user listing) the engine itself
// does not care about.
type MessengerService struct {
	router   *relay.Router
	messages repositories.IMessageRepository
	users    repositories.IUserRepository
}

func NewMessengerService(router *relay.Router,
	messages repositories.IMessageRepository, users repositories.IUserRepository) *MessengerService {
	return &MessengerService{router: router, messages: messages, users: users}
}

func (s *MessengerService) Send(ctx context.Context, intent domain.SendIntent, origin contract.EventSink) (domain.Message, error) {
	return s.router.Send(ctx, intent, origin)
}

func (s *MessengerService) MarkRead(ctx context.Context, messageID string, reporter domain.Identity) error {
	return s.router.MarkRead(ctx, messageID, reporter)
}

// History returns the conversation between the caller and the other
// party named by `with` (identity id or username), oldest first. An
// empty `with` returns the whole timeline up to limit.
func (s *MessengerService) History(me domain.Identity, with string, limit int) ([]domain.Message, error) {
	if with == "" {
		return s.messages.List(repositories.ConversationFilter{}, limit)
	}

	filter := repositories.ConversationFilter{
		MeID:      me.ID,
		MeName:    me.Username,
		OtherName: with,
	}
	if other, err := s.users.GetByID(with); err == nil {
		filter.OtherID = other.ID
		filter.OtherName = other.Username
	} else if other, err := s.users.GetByUsername(with); err == nil {
		filter.OtherID = other.ID
		filter.OtherName = other.Username
	} else {
		// Unknown party: fall back to a pure display-name match, which
		// still finds messages sent before the account disappeared.
		filter.MeID = ""
		filter.OtherID = ""
	}
	return s.messages.List(filter, limit)
}

func (s *MessengerService) ListUsers(limit int) ([]domain.Identity, error) {
	return s.users.List(limit)
}
