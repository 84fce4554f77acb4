package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// Validation kinds.
var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidRole      = errors.New("invalid role")
	ErrIncompleteStep   = errors.New("step is incomplete")
	ErrInvalidField     = errors.New("invalid field")
)

// Collaborator kinds.
var (
	ErrAccountCreationFailed = errors.New("account creation failed")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrEmailDeliveryFailed   = errors.New("email delivery failed")
	ErrStorageFailed         = errors.New("storage failed")
	ErrSessionFailed         = errors.New("session establishment failed")
)

// Flow errors.
var (
	ErrNotVerified            = errors.New("account email is not verified")
	ErrTokenNotFound          = errors.New("verification token not found")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenMismatch          = errors.New("token mismatch")
	ErrTokenRevoked           = errors.New("token revoked")
	ErrAlreadyVerified        = errors.New("account already verified")
	ErrResendTooSoon          = errors.New("verification resent too soon")
	ErrSkipNotAllowed         = errors.New("only clients may skip profile completion")
	ErrStaleStep              = errors.New("step is no longer active")
	ErrStepNotReached         = errors.New("final step not reached")
	ErrProfileAlreadyComplete = errors.New("profile already complete")
	ErrInvalidCredentials     = errors.New("invalid email or password")
)

// FieldError reports a problem with a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a user-correctable input error. It matches its Kind with errors.Is.
type ValidationError struct {
	Kind   error
	Step   string
	Fields []FieldError
}

// NewValidationError builds a ValidationError of the given kind.
func NewValidationError(kind error, fields ...FieldError) *ValidationError {
	return &ValidationError{Kind: kind, Fields: fields}
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Step != "" {
		fmt.Fprintf(&b, " (step %s)", e.Step)
	}
	for i, f := range e.Fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s %s", f.Field, f.Message)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// CollaboratorError wraps a failure of a store, mailer or object storage.
type CollaboratorError struct {
	Kind error
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *CollaboratorError) Unwrap() []error { return []error{e.Kind, e.Err} }

// StateError signals a violated gating invariant, a defect rather than user input.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// ResendCooldownError is returned when a resend arrives inside the cooldown window.
type ResendCooldownError struct {
	RetryAfter time.Duration
}

func (e *ResendCooldownError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrResendTooSoon, e.RetryAfter.Round(time.Second))
}

func (e *ResendCooldownError) Unwrap() error { return ErrResendTooSoon }
