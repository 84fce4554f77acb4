package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/glowbook-server/internal/model"
)

// newRepository talks to the emulator at FIRESTORE_EMULATOR_HOST; the client picks it up on its own.
func newRepository(t *testing.T) *SessionRepository {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "glowbook-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionRepository(client, "sessions-"+uuid.NewString())
}

func newSession(accountID uuid.UUID, jti string) model.Session {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return model.Session{
		ID:        uuid.New(),
		AccountID: accountID,
		Account: model.AccountSnapshot{
			ID:            accountID,
			Email:         "a@b.com",
			FirstName:     "A",
			LastName:      "B",
			Role:          model.RoleClient,
			EmailVerified: true,
		},
		RefreshJTI:  jti,
		RefreshHash: []byte("hash-" + jti),
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(30 * 24 * time.Hour),
	}
}

func TestSessionRepository_SaveAndGet(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	accountID := uuid.New()
	session := newSession(accountID, "jti-1")

	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.GetByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.Account, got.Account)
	assert.Equal(t, session.RefreshHash, got.RefreshHash)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))
}

func TestSessionRepository_SaveReplaces(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	accountID := uuid.New()
	first := newSession(accountID, "jti-1")
	second := newSession(accountID, "jti-2")

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.GetByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "jti-2", got.RefreshJTI)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	accountID := uuid.New()

	_, err := repo.GetByAccount(ctx, accountID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.Save(ctx, newSession(accountID, "jti-1")))
	require.NoError(t, repo.Delete(ctx, accountID))

	_, err = repo.GetByAccount(ctx, accountID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, repo.Delete(ctx, accountID))
}
