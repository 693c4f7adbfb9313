package services

import (
	"testing"
	"time"

	"daneth-messenger/auth"
	apperrors "daneth-messenger/errors"
	"daneth-messenger/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(repositories.NewUserRepository(db), issuer)
}

func TestAuthService_CreateUser_Then_Login(t *testing.T) {
	req := require.New(t)
	service := newAuthService(t)

	// Given a provisioned account
	identity, err := service.CreateUser("alice", "longpass1", false)
	req.NoError(err)
	req.Equal("alice", identity.Username)

	// When the user logs in with the right password
	token, logged, err := service.Login("alice", "longpass1")

	// Then a token is issued for the same identity
	req.NoError(err)
	req.NotEmpty(token)
	req.Equal(identity, logged)
}

func TestAuthService_Login_Wrong_Password(t *testing.T) {
	req := require.New(t)
	service := newAuthService(t)

	_, err := service.CreateUser("alice", "longpass1", false)
	req.NoError(err)

	_, _, err = service.Login("alice", "wrongpass1")

	req.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_Unknown_User(t *testing.T) {
	req := require.New(t)
	service := newAuthService(t)

	// Same error as a bad password, no account enumeration
	_, _, err := service.Login("ghost", "whatever1")

	req.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_CreateUser_Rejects_Weak_Password(t *testing.T) {
	req := require.New(t)
	service := newAuthService(t)

	_, err := service.CreateUser("alice", "short", false)

	req.ErrorIs(err, apperrors.ErrInvalidPassword)
}

func TestAuthService_ResetPassword(t *testing.T) {
	req := require.New(t)
	service := newAuthService(t)

	_, err := service.CreateUser("alice", "longpass1", false)
	req.NoError(err)

	// When the password is reset
	req.NoError(service.ResetPassword("alice", "newerpass2"))

	// Then only the new password works
	_, _, err = service.Login("alice", "longpass1")
	req.ErrorIs(err, apperrors.ErrInvalidCredentials)
	_, _, err = service.Login("alice", "newerpass2")
	req.NoError(err)
}
