package services

import (
	"fmt"

	"daneth-messenger/auth"
	"daneth-messenger/domain"
	apperrors "daneth-messenger/errors"
	"daneth-messenger/repositories"
)

type IAuthService interface {
	Login(username, password string) (Token, domain.Identity, error)
	CreateUser(username, password string, isAdmin bool) (domain.Identity, error)
	ResetPassword(username, newPassword string) error
}

type Token string

type AuthService struct {
	users  repositories.IUserRepository
	issuer auth.TokenIssuer
}

func NewAuthService(users repositories.IUserRepository, issuer auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(username, password string) (Token, domain.Identity, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		// Generic error to prevent user enumeration attacks.
		return "", domain.Identity{}, apperrors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", domain.Identity{}, apperrors.ErrInvalidCredentials
	}

	identity := user.Identity()
	token, err := s.issuer.Generate(identity)
	if err != nil {
		return "", domain.Identity{}, apperrors.ErrTokenGeneration
	}
	return Token(token), identity, nil
}

// CreateUser provisions an account. Called from the admin path only;
// there is no self-registration.
func (s *AuthService) CreateUser(username, password string, isAdmin bool) (domain.Identity, error) {
	req := auth.CreateUserRequest{Username: username, Password: password}

	// Validate business rules before any expensive cryptographic work.
	if err := auth.ValidateCreateUser(req); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidPassword, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hashing failed: %w", err)
	}

	return s.users.Create(username, hash, isAdmin)
}

// ResetPassword replaces an existing account's credential.
func (s *AuthService) ResetPassword(username, newPassword string) error {
	req := auth.CreateUserRequest{Username: username, Password: newPassword}
	if err := auth.ValidateCreateUser(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidPassword, err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}
	return s.users.UpdatePassword(username, hash)
}
