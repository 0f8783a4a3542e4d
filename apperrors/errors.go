package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error carrying the HTTP status it maps to.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches an underlying cause to a taxonomy entry.
func Wrap(err error, base *Error) *Error {
	return &Error{Code: base.Code, Status: base.Status, Message: base.Message, Err: err}
}

// The taxonomy. Default messages here are placeholders; handlers usually
// override them with WithMessage.
var (
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "invalid input")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusBadRequest, "Invalid email or password")
	ErrUnauthenticated    = New("UNAUTHENTICATED", http.StatusUnauthorized, "authentication required")
	ErrAccountRestricted  = New("ACCOUNT_RESTRICTED", http.StatusForbidden, "account is restricted")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "access denied")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "duplicate entry")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "Something went wrong")
)

// WithMessage copies a taxonomy entry with an operation-specific message.
func WithMessage(base *Error, message string) *Error {
	clone := *base
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// FromError normalises any error into an *Error, defaulting to internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal)
}
