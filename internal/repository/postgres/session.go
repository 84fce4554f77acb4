package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Save stores the session as the only one of its account.
func (r *SessionRepository) Save(ctx context.Context, session model.Session) error {
	query := `INSERT INTO sessions (account_id, id, account, refresh_jti, refresh_hash, created_at, updated_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (account_id) DO UPDATE SET
			      id = EXCLUDED.id,
			      account = EXCLUDED.account,
			      refresh_jti = EXCLUDED.refresh_jti,
			      refresh_hash = EXCLUDED.refresh_hash,
			      created_at = EXCLUDED.created_at,
			      updated_at = EXCLUDED.updated_at,
			      expires_at = EXCLUDED.expires_at`

	snapshot, err := json.Marshal(session.Account)
	if err != nil {
		return fmt.Errorf("failed to encode account snapshot: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		session.AccountID, session.ID, snapshot, session.RefreshJTI, session.RefreshHash,
		session.CreatedAt, session.UpdatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (model.Session, error) {
	query := `SELECT account_id, id, account, refresh_jti, refresh_hash, created_at, updated_at, expires_at
			  FROM sessions WHERE account_id = $1`

	var (
		s        model.Session
		snapshot []byte
	)
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&s.AccountID, &s.ID, &snapshot, &s.RefreshJTI, &s.RefreshHash, &s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	if err := json.Unmarshal(snapshot, &s.Account); err != nil {
		return model.Session{}, fmt.Errorf("failed to decode account snapshot: %w", err)
	}

	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
