package repositories

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"daneth-messenger/domain"
	apperrors "daneth-messenger/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	Insert(message domain.Message) (domain.Message, error)
	FindByID(id uuid.UUID) (domain.Message, error)
	UpdateStatus(id uuid.UUID, next domain.DeliveryStatus) (domain.DeliveryStatus, bool, error)
	List(filter ConversationFilter, limit int) ([]domain.Message, error)
}

// ConversationFilter selects the messages exchanged between two parties,
// in both directions. Identity ids win over display names; names are the
// fallback for records written before both parties had accounts.
// The zero value selects every message.
type ConversationFilter struct {
	MeID      string
	MeName    string
	OtherID   string
	OtherName string
}

func (f ConversationFilter) empty() bool {
	return f == ConversationFilter{}
}

func (f ConversationFilter) matches(m domain.Message) bool {
	if f.empty() {
		return true
	}
	if f.MeID != "" && f.OtherID != "" {
		return (m.SenderID == f.MeID && m.RecipientID == f.OtherID) ||
			(m.SenderID == f.OtherID && m.RecipientID == f.MeID)
	}
	return (m.Sender == f.MeName && m.Recipient == f.OtherName) ||
		(m.Sender == f.OtherName && m.Recipient == f.MeName)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// diskMessage is the CBOR representation stored in BadgerDB.
type diskMessage struct {
	ID          string `cbor:"id"`
	Sender      string `cbor:"sender"`
	SenderID    string `cbor:"sender_id,omitempty"`
	Recipient   string `cbor:"recipient,omitempty"`
	RecipientID string `cbor:"recipient_id,omitempty"`
	Content     string `cbor:"content"`
	Status      string `cbor:"status"`
	At          int64  `cbor:"at"`
}

// Primary keys are "msg:{timestamp_padded}:{uuid}" so that a prefix scan
// yields messages in chronological order: the 19-digit zero padding makes
// lexicographical order match time order, and the UUID disambiguates two
// messages persisted at the same nanosecond. A secondary "msgid:{uuid}"
// entry points back at the primary key for id lookups.
func primaryKey(at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%019d:%s", at.UnixNano(), id))
}

func indexKey(id uuid.UUID) []byte {
	return []byte("msgid:" + id.String())
}

// Insert persists the message and returns it with its server-assigned id
// and timestamp filled in.
func (m MessageRepository) Insert(message domain.Message) (domain.Message, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	bytes, err := cbor.Marshal(fromMessage(message))
	if err != nil {
		return domain.Message{}, err
	}

	key := primaryKey(message.CreatedAt, message.ID)
	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		return txn.Set(indexKey(message.ID), key)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

func (m MessageRepository) FindByID(id uuid.UUID) (domain.Message, error) {
	var disk diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		key, err := resolvePrimaryKey(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(disk)
}

// UpdateStatus advances the message to next if that is a forward move,
// and reports the resulting status plus whether anything changed.
// Read-modify-write happens inside a single Badger transaction, so
// concurrent delivered/read transitions on the same message serialize
// instead of interleaving.
func (m MessageRepository) UpdateStatus(id uuid.UUID, next domain.DeliveryStatus) (domain.DeliveryStatus, bool, error) {
	var result domain.DeliveryStatus
	var changed bool

	err := m.db.Update(func(txn *badger.Txn) error {
		key, err := resolvePrimaryKey(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var disk diskMessage
		if err := item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		}); err != nil {
			return err
		}

		current := domain.DeliveryStatus(disk.Status)
		if !current.CanAdvanceTo(next) {
			result, changed = current, false
			return nil
		}

		disk.Status = string(next)
		bytes, err := cbor.Marshal(disk)
		if err != nil {
			return err
		}
		result, changed = next, true
		return txn.Set(key, bytes)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return "", false, err
	}
	return result, changed, nil
}

// List scans messages in chronological order, keeping those the filter
// accepts, up to limit (0 means no cap).
func (m MessageRepository) List(filter ConversationFilter, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", limit))
				break
			}
			var disk diskMessage
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			message, err := toMessage(disk)
			if err != nil {
				return err
			}
			if filter.matches(message) {
				messages = append(messages, message)
			}
		}
		return nil
	})
	return messages, err
}

func resolvePrimaryKey(txn *badger.Txn, id uuid.UUID) ([]byte, error) {
	item, err := txn.Get(indexKey(id))
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:          message.ID.String(),
		Sender:      message.Sender,
		SenderID:    message.SenderID,
		Recipient:   message.Recipient,
		RecipientID: message.RecipientID,
		Content:     message.Content,
		Status:      string(message.Status),
		At:          message.CreatedAt.UnixNano(),
	}
}

func toMessage(disk diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:          parsedID,
		Sender:      disk.Sender,
		SenderID:    disk.SenderID,
		Recipient:   disk.Recipient,
		RecipientID: disk.RecipientID,
		Content:     disk.Content,
		Status:      domain.DeliveryStatus(disk.Status),
		CreatedAt:   time.Unix(0, disk.At).UTC(),
	}, nil
}
