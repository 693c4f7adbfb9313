package repositories

import (
	"errors"
	"time"

	"daneth-messenger/domain"
	apperrors "daneth-messenger/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IUserRepository interface {
	Create(username, passwordHash string, isAdmin bool) (domain.Identity, error)
	GetByUsername(username string) (User, error)
	GetByID(id string) (User, error)
	List(limit int) ([]domain.Identity, error)
	UpdatePassword(username, passwordHash string) error
}

// User is the repository-level representation of an account, including
// the credential hash the domain Identity never carries.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

func (u User) Identity() domain.Identity {
	return domain.Identity{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

type diskUser struct {
	ID           string `cbor:"id"`
	Username     string `cbor:"username"`
	PasswordHash string `cbor:"password_hash"`
	IsAdmin      bool   `cbor:"is_admin"`
	CreatedAt    int64  `cbor:"created_at"`
}

// Accounts are keyed by username; a "userid:{uuid}" index points back at
// the username key so presence and receipt paths can resolve by id.
func userKey(username string) []byte { return []byte("user:" + username) }
func userIDKey(id string) []byte     { return []byte("userid:" + id) }

// Create persists a new account and returns its identity. The username
// is the uniqueness boundary; a taken name yields ErrUserAlreadyExists.
func (u UserRepository) Create(username, passwordHash string, isAdmin bool) (domain.Identity, error) {
	disk := diskUser{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().Unix(),
	}
	bytes, err := cbor.Marshal(disk)
	if err != nil {
		return domain.Identity{}, err
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := userKey(username)
		if _, err := txn.Get(key); err == nil {
			return apperrors.ErrUserAlreadyExists
		}
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		return txn.Set(userIDKey(disk.ID), []byte(username))
	})
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{ID: disk.ID, Username: username, IsAdmin: isAdmin}, nil
}

func (u UserRepository) GetByUsername(username string) (User, error) {
	var disk diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return toUser(disk), nil
}

func (u UserRepository) GetByID(id string) (User, error) {
	var username []byte
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if err != nil {
			return err
		}
		username, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u.GetByUsername(string(username))
}

// List returns up to limit identities (0 means no cap), without hashes.
func (u UserRepository) List(limit int) ([]domain.Identity, error) {
	var identities []domain.Identity
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(identities) == limit {
				break
			}
			var disk diskUser
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			identities = append(identities, toUser(disk).Identity())
		}
		return nil
	})
	return identities, err
}

func (u UserRepository) UpdatePassword(username, passwordHash string) error {
	err := u.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(username))
		if err != nil {
			return err
		}
		var disk diskUser
		if err := item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		}); err != nil {
			return err
		}
		disk.PasswordHash = passwordHash
		bytes, err := cbor.Marshal(disk)
		if err != nil {
			return err
		}
		return txn.Set(userKey(username), bytes)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrUserNotFound
	}
	return err
}

func toUser(disk diskUser) User {
	return User{
		ID:           disk.ID,
		Username:     disk.Username,
		PasswordHash: disk.PasswordHash,
		IsAdmin:      disk.IsAdmin,
		CreatedAt:    time.Unix(disk.CreatedAt, 0).UTC(),
	}
}
