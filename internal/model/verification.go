package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VerificationTokenTTL is how long a verification link stays valid.
const VerificationTokenTTL = 24 * time.Hour

// VerificationTokenStore persists email verification tokens by hash.
type VerificationTokenStore interface {
	// Issue stores the token and supersedes every outstanding token of the account.
	Issue(ctx context.Context, token VerificationToken) error
	Find(ctx context.Context, tokenHash []byte) (VerificationToken, error)
	// Consume marks an outstanding token used. Returns ErrTokenNotFound when the
	// token is missing, already consumed or superseded.
	Consume(ctx context.Context, tokenHash []byte, at time.Time) error
	Latest(ctx context.Context, accountID uuid.UUID) (VerificationToken, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// VerificationToken proves control of an email address.
type VerificationToken struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	TokenHash    []byte
	IssuedAt     time.Time
	ExpiresAt    time.Time
	ConsumedAt   *time.Time
	SupersededAt *time.Time
}

// Outstanding reports whether the token was neither consumed nor superseded.
func (t VerificationToken) Outstanding() bool {
	return t.ConsumedAt == nil && t.SupersededAt == nil
}

// Expired reports whether the token is past its expiry at now.
func (t VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IssuedVerification describes a verification email that went out.
type IssuedVerification struct {
	AccountID uuid.UUID
	ExpiresAt time.Time
	MessageID string
}
