package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.VerificationTokenStore = (*VerificationTokenRepository)(nil)

type VerificationTokenRepository struct {
	db *Connection
}

func NewVerificationTokenRepository(db *Connection) *VerificationTokenRepository {
	return &VerificationTokenRepository{
		db: db,
	}
}

const tokenColumns = `id, account_id, token_hash, issued_at, expires_at, consumed_at, superseded_at`

// Issue supersedes every outstanding token of the account and stores the new one.
func (r *VerificationTokenRepository) Issue(ctx context.Context, token model.VerificationToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `UPDATE verification_tokens SET superseded_at = $2
			  WHERE account_id = $1 AND consumed_at IS NULL AND superseded_at IS NULL`,
			token.AccountID, token.IssuedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to supersede verification tokens: %w", err)
		}

		_, err = tx.Exec(ctx, `INSERT INTO verification_tokens (id, account_id, token_hash, issued_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5)`,
			token.ID, token.AccountID, token.TokenHash, token.IssuedAt, token.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create verification token: %w", err)
		}
		return nil
	})
}

func (r *VerificationTokenRepository) Find(ctx context.Context, tokenHash []byte) (model.VerificationToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM verification_tokens WHERE token_hash = $1`
	return r.get(ctx, query, tokenHash)
}

func (r *VerificationTokenRepository) Consume(ctx context.Context, tokenHash []byte, at time.Time) error {
	query := `UPDATE verification_tokens SET consumed_at = $2
			  WHERE token_hash = $1 AND consumed_at IS NULL AND superseded_at IS NULL`

	tag, err := r.db.Exec(ctx, query, tokenHash, at)
	if err != nil {
		return fmt.Errorf("failed to consume verification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenNotFound
	}

	return nil
}

func (r *VerificationTokenRepository) Latest(ctx context.Context, accountID uuid.UUID) (model.VerificationToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM verification_tokens
			  WHERE account_id = $1 ORDER BY issued_at DESC LIMIT 1`
	return r.get(ctx, query, accountID)
}

func (r *VerificationTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM verification_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired verification tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *VerificationTokenRepository) get(ctx context.Context, query string, arg any) (model.VerificationToken, error) {
	var t model.VerificationToken
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.AccountID, &t.TokenHash, &t.IssuedAt, &t.ExpiresAt, &t.ConsumedAt, &t.SupersededAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VerificationToken{}, model.ErrNotFound
		}
		return model.VerificationToken{}, fmt.Errorf("failed to get verification token: %w", err)
	}

	return t, nil
}
