package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadSignature    = errors.New("bad signature")
	ErrBadPayload      = errors.New("bad payload")
	ErrStore           = errors.New("store failure")
	ErrDelivery        = errors.New("delivery failure")
	ErrThrottled       = errors.New("throttled")
	ErrInternalServer  = errors.New("internal server error")
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

// StoreError wraps a backing-store failure so the cause survives for logging
// without being exposed verbatim to external callers.
func StoreError(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrBadSignature):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
