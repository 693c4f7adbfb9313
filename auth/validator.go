package auth

import (
	"unicode"

	apperrors "daneth-messenger/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateUserRequest struct {
	Username string `validate:"required,min=3,max=32,alphanum"`
	Password string `validate:"required,min=8,max=72"`
}

// ValidateCreateUser checks account-provisioning input before any
// cryptographic work happens.
func ValidateCreateUser(req CreateUserRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if !isPasswordComplex(req.Password) {
		return apperrors.ErrInvalidPassword
	}
	return nil
}

// isPasswordComplex requires at least one letter and one digit.
func isPasswordComplex(s string) bool {
	var hasLetter, hasDigit bool
	for _, char := range s {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
