package repositories

import (
	"testing"

	"daneth-messenger/domain"
	apperrors "daneth-messenger/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create_And_Get(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	// Given a freshly created account
	identity, err := repo.Create("alice", "hashed-secret", false)
	req.NoError(err)
	req.NotEmpty(identity.ID)
	req.Equal("alice", identity.Username)
	req.False(identity.IsAdmin)

	// Then both lookup paths find it
	byName, err := repo.GetByUsername("alice")
	req.NoError(err)
	req.Equal(identity.ID, byName.ID)
	req.Equal("hashed-secret", byName.PasswordHash)

	byID, err := repo.GetByID(identity.ID)
	req.NoError(err)
	req.Equal("alice", byID.Username)
}

func TestUserRepository_Create_Duplicate_Username(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.Create("alice", "hash", false)
	req.NoError(err)

	_, err = repo.Create("alice", "other-hash", true)
	req.ErrorIs(err, apperrors.ErrUserAlreadyExists)
}

func TestUserRepository_Get_Unknown(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.GetByUsername("ghost")
	req.ErrorIs(err, apperrors.ErrUserNotFound)

	_, err = repo.GetByID("no-such-id")
	req.ErrorIs(err, apperrors.ErrUserNotFound)
}

func TestUserRepository_List(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	lo.ForEach([]string{"alice", "bob", "carol"}, func(username string, _ int) {
		_, err := repo.Create(username, "hash", false)
		req.NoError(err)
	})

	identities, err := repo.List(0)
	req.NoError(err)
	usernames := lo.Map(identities, func(identity domain.Identity, _ int) string {
		return identity.Username
	})
	req.ElementsMatch([]string{"alice", "bob", "carol"}, usernames)

	capped, err := repo.List(2)
	req.NoError(err)
	req.Len(capped, 2)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.Create("alice", "old-hash", false)
	req.NoError(err)

	req.NoError(repo.UpdatePassword("alice", "new-hash"))

	user, err := repo.GetByUsername("alice")
	req.NoError(err)
	req.Equal("new-hash", user.PasswordHash)

	req.ErrorIs(repo.UpdatePassword("ghost", "hash"), apperrors.ErrUserNotFound)
}
