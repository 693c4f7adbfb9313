package relay

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"daneth-messenger/domain"
	"daneth-messenger/domain/event"
	apperrors "daneth-messenger/errors"
	"daneth-messenger/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// captureSink records every event it consumes, for assertions.
type captureSink struct {
	mu       sync.Mutex
	received []event.Event
}

func (s *captureSink) Consume(ctx context.Context, e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, e)
	return nil
}

func (s *captureSink) All() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Event(nil), s.received...)
}

type engine struct {
	router   *Router
	registry *Registry
	messages repositories.MessageRepository
	users    repositories.UserRepository
}

func newEngine(t *testing.T) engine {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelError)
	registry := NewRegistry()
	messages := repositories.NewMessageRepository(db, log)
	users := repositories.NewUserRepository(db)
	return engine{
		router:   NewRouter(log, registry, messages, users),
		registry: registry,
		messages: messages,
		users:    users,
	}
}

func (e engine) createUser(t *testing.T, username string) domain.Identity {
	t.Helper()
	identity, err := e.users.Create(username, "hash", false)
	require.NoError(t, err)
	return identity
}

func TestRouter_Send_Targeted_Delivery_To_Online_Recipient(t *testing.T) {
	req := require.New(t)
	e := newEngine(t)
	ctx := context.Background()

	// Given alice and bob are online
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	aliceSink, bobSink := &captureSink{}, &captureSink{}
	e.registry.Register(alice.ID, aliceSink)
	e.registry.Register(bob.ID, bobSink)

	// When alice sends a direct message to bob
	message, err := e.router.Send(ctx, domain.SendIntent{
		Sender:    alice,
		Recipient: "bob",
		Content:   "hi",
	}, nil)

	// Then the message is persisted and advanced to delivered
	req.NoError(err)
	req.Equal(domain.StatusDelivered, message.Status)
	req.Equal(bob.ID, message.RecipientID)
	stored, err := e.messages.FindByID(message.ID)
	req.NoError(err)
	req.Equal(domain.StatusDelivered, stored.Status)

	// And both parties got the message and then the status change
	req.Equal([]event.Event{
		event.MessageReceived{Message: withStatus(message, domain.StatusSent)},
		event.StatusChanged{MessageID: message.ID, Status: domain.StatusDelivered},
	}, aliceSink.All())
	req.Equal([]event.Event{
		event.MessageReceived{Message: withStatus(message, domain.StatusSent)},
		event.StatusChanged{MessageID: message.ID, Status: domain.StatusDelivered},
	}, bobSink.All())
}

func TestRouter_Send_Offline_Recipient_Falls_Back_To_Broadcast(t *testing.T) {
	req := require.New(t)
	e := newEngine(t)
	ctx := context.Background()

	// Given bob exists but is offline, while alice and carol are online
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	carol := e.createUser(t, "carol")
	aliceSink, carolSink := &captureSink{}, &captureSink{}
	e.registry.Register(alice.ID, aliceSink)
	e.registry.Register(carol.ID, carolSink)

	// When alice sends a direct message to bob
	message, err := e.router.Send(ctx, domain.SendIntent{
		Sender:    alice,
		Recipient: "bob",
		Content:   "are you there?",
	}, nil)

	// Then the recipient resolved but the status stays sent
	req.NoError(err)
	req.Equal(bob.ID, message.RecipientID)
	req.Equal(domain.StatusSent, message.Status)

	// And the message was broadcast to everyone else, echoed to alice,
	// with no status notification anywhere
	req.Equal([]event.Event{event.MessageReceived{Message: message}}, aliceSink.All())
	req.Equal([]event.Event{event.MessageReceived{Message: message}}, carolSink.All())
}

func TestRouter_Send_Unresolved_Recipient_Is_Broadcast(t *testing.T) {
	req := require.New(t)
	e := newEngine(t)
	ctx := context.Background()

	// Given carol is not a known identity
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	aliceSink, bobSink := &captureSink{}, &captureSink{}
	e.registry.Register(alice.ID, aliceSink)
	e.registry.Register(bob.ID, bobSink)

	// When alice addresses the unknown name
	message, err := e.router.Send(ctx, domain.SendIntent{
		Sender:    alice,
		Recipient: "carol",
		Content:   "anyone seen carol?",
	}, nil)

	// Then the message is a permanent broadcast
	req.NoError(err)
	req.Empty(message.RecipientID)
	req.True(message.Broadcast())
	req.Equal(domain.StatusSent, message.Status)

	// And alice got a single echo while bob got the broadcast copy
	req.Equal([]event.Event{event.MessageReceived{Message: message}}, aliceSink.All())
	req.Equal([]event.Event{event.MessageReceived{Message: message}}, bobSink.All())
}

func TestRouter_Send_Rejects_Blank_Content_Before_Any_Side_Effect(t *testing.T) {
	req := require.New(t)
	e := newEngine(t)

	alice := e.createUser(t, "alice")

	_, err := e.router.Send(context.Background(), domain.SendIntent{
		Sender:  alice,
		Content: "   \t  ",
	}, nil)

	req.ErrorIs(err, apperrors.ErrEmptyContent)

	// No message was persisted
	stored, err := e.messages.List(repositories.ConversationFilter{}, 0)
	req.NoError(err)
	req.Empty(stored)
}

func TestRouter_Send_Anonymous_Sender_Echo_Through_Origin(t *testing.T) {
	req := require.New(t)
	e := newEngine(t)
	ctx := context.Background()

	// Given an anonymous connection and one registered listener
	bob := e.createUser(t, "bob")
	bobSink := &captureSink{}
	e.registry.Register(bob.ID, bobSink)
	anonymousSink := &captureSink{}

	// When the anonymous client sends without a recipient
	message, err := e.router.Send(ctx, domain.SendIntent{
		Sender:  domain.Identity{Username: "Unknown"},
		Content: "hello world",
	}, anonymousSink)

	// Then the echo went to the originating connection only once
	req.NoError(err)
	req.Empty(message.SenderID)
	req.Equal([]event.Event{event.MessageReceived{Message: message}}, anonymousSink.All())
	req.Equal([]event.Event{event.MessageReceived{Message: message}}, bobSink.All())
}

func withStatus(m domain.Message, status domain.DeliveryStatus) domain.Message {
	m.Status = status
	return m
}
