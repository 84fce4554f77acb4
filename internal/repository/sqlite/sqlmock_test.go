package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/glowbook-server/internal/model"
)

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewConnectionFromDB(db), mock
}

func TestVerificationTokenRepository_IssueRollsBackOnInsertFailure(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewVerificationTokenRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE verification_tokens SET superseded_at")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO verification_tokens")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	now := time.Now()
	err := repo.Issue(context.Background(), model.VerificationToken{AccountID: uuid.New(), TokenHash: []byte("h"), IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CreateDriverError(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewAccountRepository(conn)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), model.Account{Email: "a@b.com", Role: model.RoleClient})
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrEmailAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationTokenRepository_DeleteExpired(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewVerificationTokenRepository(conn)

	before := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM verification_tokens WHERE expires_at < ?")).
		WithArgs(before.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteExpired(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
