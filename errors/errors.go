package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyContent       = fmt.Errorf("message content is empty")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrStorage            = fmt.Errorf("storage unavailable")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)

// MapToHTTPStatus translates domain errors into HTTP status codes at the
// transport boundary. Unknown errors are treated as server faults.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMessageNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
