// Package firestore stores sessions in Cloud Firestore, one document per account.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type firestoreAccount struct {
	ID              string `firestore:"id"`
	Email           string `firestore:"email"`
	FirstName       string `firestore:"first_name"`
	LastName        string `firestore:"last_name"`
	Role            string `firestore:"role"`
	EmailVerified   bool   `firestore:"email_verified"`
	ProfileComplete bool   `firestore:"profile_complete"`
}

type firestoreSession struct {
	ID          string           `firestore:"id"`
	Account     firestoreAccount `firestore:"account"`
	RefreshJTI  string           `firestore:"refresh_jti"`
	RefreshHash []byte           `firestore:"refresh_hash"`
	CreatedAt   time.Time        `firestore:"created_at"`
	UpdatedAt   time.Time        `firestore:"updated_at"`
	ExpiresAt   time.Time        `firestore:"expires_at"`
}

// SessionRepository keeps the single session of an account in a document keyed by account id.
type SessionRepository struct {
	client     *firestore.Client
	collection string
}

func NewSessionRepository(client *firestore.Client, collection string) *SessionRepository {
	return &SessionRepository{client: client, collection: collection}
}

func (r *SessionRepository) doc(accountID uuid.UUID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(accountID.String())
}

// Save replaces whatever session the account had.
func (r *SessionRepository) Save(ctx context.Context, session model.Session) error {
	a := session.Account
	fs := firestoreSession{
		ID: session.ID.String(),
		Account: firestoreAccount{
			ID:              a.ID.String(),
			Email:           a.Email,
			FirstName:       a.FirstName,
			LastName:        a.LastName,
			Role:            string(a.Role),
			EmailVerified:   a.EmailVerified,
			ProfileComplete: a.ProfileComplete,
		},
		RefreshJTI:  session.RefreshJTI,
		RefreshHash: session.RefreshHash,
		CreatedAt:   session.CreatedAt.UTC(),
		UpdatedAt:   session.UpdatedAt.UTC(),
		ExpiresAt:   session.ExpiresAt.UTC(),
	}
	if _, err := r.doc(session.AccountID).Set(ctx, fs); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (model.Session, error) {
	snap, err := r.doc(accountID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var fs firestoreSession
	if err := snap.DataTo(&fs); err != nil {
		return model.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}

	session := model.Session{
		AccountID:   accountID,
		RefreshJTI:  fs.RefreshJTI,
		RefreshHash: fs.RefreshHash,
		CreatedAt:   fs.CreatedAt,
		UpdatedAt:   fs.UpdatedAt,
		ExpiresAt:   fs.ExpiresAt,
		Account: model.AccountSnapshot{
			Email:           fs.Account.Email,
			FirstName:       fs.Account.FirstName,
			LastName:        fs.Account.LastName,
			Role:            model.Role(fs.Account.Role),
			EmailVerified:   fs.Account.EmailVerified,
			ProfileComplete: fs.Account.ProfileComplete,
		},
	}
	if session.ID, err = uuid.Parse(fs.ID); err != nil {
		return model.Session{}, fmt.Errorf("failed to parse session id: %w", err)
	}
	if session.Account.ID, err = uuid.Parse(fs.Account.ID); err != nil {
		return model.Session{}, fmt.Errorf("failed to parse account id: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	if _, err := r.doc(accountID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
