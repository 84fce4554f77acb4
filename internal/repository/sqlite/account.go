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

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, first_name, last_name, role, email_verified,
        profile_complete, profile, verified_at, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	const query = `
        INSERT INTO accounts (` + accountColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, 0, 0, NULL, NULL, ?, ?)
    `

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = account.CreatedAt
	account.EmailVerified = false
	account.ProfileComplete = false

	_, err := r.db.ExecContext(ctx, query,
		account.ID.String(), account.Email, account.PasswordHash, account.FirstName, account.LastName,
		string(account.Role), toMillis(account.CreatedAt), toMillis(account.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Account{}, model.ErrEmailAlreadyExists
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	return r.get(ctx, query, id.String())
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`
	return r.get(ctx, query, email)
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) (model.Account, error) {
	const query = `
        UPDATE accounts
        SET email_verified = 1, verified_at = COALESCE(verified_at, ?), updated_at = ?
        WHERE id = ?
    `
	res, err := r.db.ExecContext(ctx, query, toMillis(at), toMillis(at), id.String())
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to mark account verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Account{}, model.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.ProfileData) (model.Account, error) {
	const query = `
        UPDATE accounts
        SET profile = ?, profile_complete = 1, updated_at = ?
        WHERE id = ? AND email_verified = 1 AND profile_complete = 0
    `
	raw, err := model.EncodeProfileData(profile)
	if err != nil {
		return model.Account{}, err
	}
	res, err := r.db.ExecContext(ctx, query, string(raw), toMillis(time.Now()), id.String())
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		account, err := r.GetByID(ctx, id)
		if err != nil {
			return model.Account{}, err
		}
		switch {
		case !account.EmailVerified:
			return model.Account{}, model.ErrNotVerified
		case account.ProfileComplete:
			return model.Account{}, model.ErrProfileAlreadyComplete
		}
		return model.Account{}, fmt.Errorf("failed to update profile of account %s", id)
	}
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) get(ctx context.Context, query string, arg any) (model.Account, error) {
	var (
		a          model.Account
		id, role   string
		profile    sql.NullString
		verifiedAt sql.NullInt64
		createdAt  int64
		updatedAt  int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&id, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &role, &a.EmailVerified,
		&a.ProfileComplete, &profile, &verifiedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	a.ID, err = uuid.Parse(id)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to parse account id: %w", err)
	}
	a.Role = model.Role(role)
	if profile.Valid {
		a.Profile, err = model.DecodeProfileData(a.Role, []byte(profile.String))
		if err != nil {
			return model.Account{}, err
		}
	}
	a.VerifiedAt = fromNullMillis(verifiedAt)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}
