package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Save(ctx context.Context, session model.Session) error {
	const query = `
        INSERT INTO sessions (account_id, id, account, refresh_jti, refresh_hash, created_at, updated_at, expires_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (account_id) DO UPDATE SET
            id = excluded.id,
            account = excluded.account,
            refresh_jti = excluded.refresh_jti,
            refresh_hash = excluded.refresh_hash,
            created_at = excluded.created_at,
            updated_at = excluded.updated_at,
            expires_at = excluded.expires_at
    `
	snapshot, err := json.Marshal(session.Account)
	if err != nil {
		return fmt.Errorf("failed to encode account snapshot: %w", err)
	}
	_, err = r.db.ExecContext(ctx, query,
		session.AccountID.String(), session.ID.String(), string(snapshot), session.RefreshJTI, session.RefreshHash,
		toMillis(session.CreatedAt), toMillis(session.UpdatedAt), toMillis(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (model.Session, error) {
	const query = `
        SELECT account_id, id, account, refresh_jti, refresh_hash, created_at, updated_at, expires_at
        FROM sessions WHERE account_id = ?
    `
	var (
		s                               model.Session
		account, id, snapshot           string
		createdAt, updatedAt, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, query, accountID.String()).Scan(
		&account, &id, &snapshot, &s.RefreshJTI, &s.RefreshHash, &createdAt, &updatedAt, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	if s.AccountID, err = uuid.Parse(account); err != nil {
		return model.Session{}, fmt.Errorf("failed to parse account id: %w", err)
	}
	if s.ID, err = uuid.Parse(id); err != nil {
		return model.Session{}, fmt.Errorf("failed to parse session id: %w", err)
	}
	if err := json.Unmarshal([]byte(snapshot), &s.Account); err != nil {
		return model.Session{}, fmt.Errorf("failed to decode account snapshot: %w", err)
	}
	s.CreatedAt = fromMillis(createdAt)
	s.UpdatedAt = fromMillis(updatedAt)
	s.ExpiresAt = fromMillis(expiresAt)
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	const query = `DELETE FROM sessions WHERE account_id = ?`
	if _, err := r.db.ExecContext(ctx, query, accountID.String()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
