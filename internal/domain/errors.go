package domain

import "errors"

// ValidationError gates wizard transitions locally; it never reaches
// the network and is surfaced to the user as a single message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrDuplicateAccount is reported when registration is rejected
	// because the email is already in use.
	ErrDuplicateAccount = errors.New("email already registered")

	ErrSessionNotFound = errors.New("checkout session not found")
)

// AuthError aborts the current payment attempt; the user corrects the
// guest fields and retries.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// InitiationError means creating the payment session failed before any
// token was persisted; retrying from scratch is safe.
type InitiationError struct {
	Msg string
}

func (e *InitiationError) Error() string { return e.Msg }
