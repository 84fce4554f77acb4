package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.VerificationTokenStore = (*VerificationTokenRepository)(nil)

type VerificationTokenRepository struct {
	db *Connection
}

func NewVerificationTokenRepository(db *Connection) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

const tokenColumns = `id, account_id, token_hash, issued_at, expires_at, consumed_at, superseded_at`

func (r *VerificationTokenRepository) Issue(ctx context.Context, token model.VerificationToken) (err error) {
	const supersede = `
        UPDATE verification_tokens SET superseded_at = ?
        WHERE account_id = ? AND consumed_at IS NULL AND superseded_at IS NULL
    `
	const insert = `
        INSERT INTO verification_tokens (` + tokenColumns + `)
        VALUES (?, ?, ?, ?, ?, NULL, NULL)
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, supersede, toMillis(token.IssuedAt), token.AccountID.String()); err != nil {
		return fmt.Errorf("failed to supersede verification tokens: %w", err)
	}
	if _, err = tx.ExecContext(ctx, insert,
		token.ID.String(), token.AccountID.String(), token.TokenHash, toMillis(token.IssuedAt), toMillis(token.ExpiresAt),
	); err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit verification token: %w", err)
	}
	return nil
}

func (r *VerificationTokenRepository) Find(ctx context.Context, tokenHash []byte) (model.VerificationToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM verification_tokens WHERE token_hash = ?`
	return r.get(ctx, query, tokenHash)
}

func (r *VerificationTokenRepository) Consume(ctx context.Context, tokenHash []byte, at time.Time) error {
	const query = `
        UPDATE verification_tokens SET consumed_at = ?
        WHERE token_hash = ? AND consumed_at IS NULL AND superseded_at IS NULL
    `
	res, err := r.db.ExecContext(ctx, query, toMillis(at), tokenHash)
	if err != nil {
		return fmt.Errorf("failed to consume verification token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrTokenNotFound
	}
	return nil
}

func (r *VerificationTokenRepository) Latest(ctx context.Context, accountID uuid.UUID) (model.VerificationToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM verification_tokens
        WHERE account_id = ? ORDER BY issued_at DESC, rowid DESC LIMIT 1`
	return r.get(ctx, query, accountID.String())
}

func (r *VerificationTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM verification_tokens WHERE expires_at < ?`
	res, err := r.db.ExecContext(ctx, query, toMillis(before))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired verification tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted verification tokens: %w", err)
	}
	return n, nil
}

func (r *VerificationTokenRepository) get(ctx context.Context, query string, arg any) (model.VerificationToken, error) {
	var (
		t                        model.VerificationToken
		id, accountID            string
		issuedAt, expiresAt      int64
		consumedAt, supersededAt sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&id, &accountID, &t.TokenHash, &issuedAt, &expiresAt, &consumedAt, &supersededAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.VerificationToken{}, model.ErrNotFound
		}
		return model.VerificationToken{}, fmt.Errorf("failed to get verification token: %w", err)
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return model.VerificationToken{}, fmt.Errorf("failed to parse token id: %w", err)
	}
	if t.AccountID, err = uuid.Parse(accountID); err != nil {
		return model.VerificationToken{}, fmt.Errorf("failed to parse account id: %w", err)
	}
	t.IssuedAt = fromMillis(issuedAt)
	t.ExpiresAt = fromMillis(expiresAt)
	t.ConsumedAt = fromNullMillis(consumedAt)
	t.SupersededAt = fromNullMillis(supersededAt)
	return t, nil
}
