package model

import (
	"io"

	"github.com/google/uuid"
)

// SignupRequest contains the fields of the signup form.
type SignupRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Role            string
}

// SignupResult is returned after the account is created. Verification is zero
// when the email could not be delivered.
type SignupResult struct {
	Account      AccountSnapshot
	Verification IssuedVerification
}

// CompletionResult is returned when a profile is committed. Session is zero when
// the account was committed but the session could not be established.
type CompletionResult struct {
	Account AccountSnapshot
	Session EstablishedSession
}

// UploadRequest contains parameters to store a document.
type UploadRequest struct {
	AccountID   uuid.UUID
	Kind        DocumentKind
	Category    string
	ContentType string
	Size        int64
	Body        io.Reader
}
