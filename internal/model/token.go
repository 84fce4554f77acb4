package model

import (
	"time"

	"github.com/google/uuid"
)

// AccessClaims is what an access token asserts about its bearer.
type AccessClaims struct {
	AccountID uuid.UUID
	SessionID uuid.UUID
	Role      Role
	ExpiresAt time.Time
}

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(claims AccessClaims) (string, time.Time, error)
	GenerateRefreshToken(accountID, sessionID uuid.UUID) (token string, jti string, expiresAt time.Time, err error)
	ParseAccessToken(token string) (AccessClaims, error)
	ParseRefreshToken(token string) (accountID uuid.UUID, jti string, err error)
}
