package auth

import (
	"strings"
	"testing"
	"time"

	"daneth-messenger/domain"
	apperrors "daneth-messenger/errors"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_Roundtrip(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("s3cret-password")
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword("s3cret-password", hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("wrong-password", hash)
	req.NoError(err)
	req.False(match)
}

func TestHashPassword_Salts_Are_Unique(t *testing.T) {
	req := require.New(t)

	first, err := HashPassword("same-password1")
	req.NoError(err)
	second, err := HashPassword("same-password1")
	req.NoError(err)

	req.NotEqual(first, second)
}

func TestComparePassword_Malformed_Hash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "not-an-encoded-hash")

	req.Error(err)
}

func TestTokenIssuer_Roundtrip(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	identity := domain.Identity{ID: "u-1", Username: "alice", IsAdmin: true}

	token, err := issuer.Generate(identity)
	req.NoError(err)

	parsed, err := issuer.Validate(token)
	req.NoError(err)
	req.Equal(identity, parsed)
}

func TestTokenIssuer_Rejects_Foreign_Secret(t *testing.T) {
	req := require.New(t)
	identity := domain.Identity{ID: "u-1", Username: "alice"}

	token, err := NewTokenIssuer("secret-a", time.Hour).Generate(identity)
	req.NoError(err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Validate(token)
	req.Error(err)
}

func TestTokenIssuer_Rejects_Expired_Token(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Generate(domain.Identity{ID: "u-1", Username: "alice"})
	req.NoError(err)

	_, err = issuer.Validate(token)
	req.Error(err)
}

func TestValidateCreateUser(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
	}{
		{"valid", CreateUserRequest{Username: "alice", Password: "longpass1"}, false},
		{"username too short", CreateUserRequest{Username: "al", Password: "longpass1"}, true},
		{"username not alphanumeric", CreateUserRequest{Username: "al ice", Password: "longpass1"}, true},
		{"password too short", CreateUserRequest{Username: "alice", Password: "short1"}, true},
		{"password needs a digit", CreateUserRequest{Username: "alice", Password: "onlyletters"}, true},
		{"password needs a letter", CreateUserRequest{Username: "alice", Password: "12345678"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateUser(tt.request)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateCreateUser_Weak_Password_Error(t *testing.T) {
	err := ValidateCreateUser(CreateUserRequest{Username: "alice", Password: "onlyletters"})

	require.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}
