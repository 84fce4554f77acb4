package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists the authenticated session of each account.
// Save overwrites any previous session of the same account.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	GetByAccount(ctx context.Context, accountID uuid.UUID) (Session, error)
	Delete(ctx context.Context, accountID uuid.UUID) error
}

// Session is the authenticated context produced by onboarding or login.
type Session struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Account     AccountSnapshot
	RefreshJTI  string
	RefreshHash []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   time.Time
}

// EstablishedSession is a session together with the tokens handed to the client.
type EstablishedSession struct {
	Session         Session
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}
