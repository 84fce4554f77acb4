package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the marketplace role an account signs up with.
type Role string

const (
	// RoleClient books services.
	RoleClient Role = "client"
	// RoleServiceProvider offers services (stylists, technicians).
	RoleServiceProvider Role = "professional-service"
	// RoleVendor sells beauty products.
	RoleVendor Role = "professional-vendor"
)

// ParseRole converts a raw role value into a Role.
func ParseRole(raw string) (Role, error) {
	switch r := Role(raw); r {
	case RoleClient, RoleServiceProvider, RoleVendor:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// IsProfessional reports whether the role goes through the professional wizard.
func (r Role) IsProfessional() bool {
	return r == RoleServiceProvider || r == RoleVendor
}

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) (Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile ProfileData) (Account, error)
}

// Account is the user identity built up by onboarding.
type Account struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    []byte
	FirstName       string
	LastName        string
	Role            Role
	EmailVerified   bool
	ProfileComplete bool
	Profile         ProfileData
	CreatedAt       time.Time
	UpdatedAt       time.Time
	VerifiedAt      *time.Time
}

// Snapshot returns the subset of the account carried by a session.
func (a Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:              a.ID,
		Email:           a.Email,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Role:            a.Role,
		EmailVerified:   a.EmailVerified,
		ProfileComplete: a.ProfileComplete,
	}
}

// AccountSnapshot is the account view exposed to authenticated clients.
type AccountSnapshot struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Role            Role      `json:"role"`
	EmailVerified   bool      `json:"emailVerified"`
	ProfileComplete bool      `json:"profileComplete"`
}

// PasswordHasher turns passwords into opaque credential handles.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
}
