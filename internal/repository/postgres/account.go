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

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

const accountColumns = `id, email, password_hash, first_name, last_name, role, email_verified,
			  profile_complete, profile, verified_at, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	query := `INSERT INTO accounts (id, email, password_hash, first_name, last_name, role, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			  RETURNING ` + accountColumns

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	saved, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, account.Email, account.PasswordHash, account.FirstName, account.LastName,
		string(account.Role), account.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Account{}, model.ErrEmailAlreadyExists
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) (model.Account, error) {
	query := `UPDATE accounts
			  SET email_verified = TRUE, verified_at = COALESCE(verified_at, $2), updated_at = $2
			  WHERE id = $1
			  RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to mark account verified: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.ProfileData) (model.Account, error) {
	query := `UPDATE accounts
			  SET profile = $2, profile_complete = TRUE, updated_at = NOW()
			  WHERE id = $1 AND email_verified AND NOT profile_complete
			  RETURNING ` + accountColumns

	raw, err := model.EncodeProfileData(profile)
	if err != nil {
		return model.Account{}, err
	}

	account, err := scanAccount(r.db.QueryRow(ctx, query, id, raw))
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, fmt.Errorf("failed to update profile: %w", err)
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Account{}, err
	}
	return model.Account{}, profileNotUpdatable(existing)
}

// profileNotUpdatable explains why UpdateProfile matched no row of an existing account.
func profileNotUpdatable(account model.Account) error {
	switch {
	case !account.EmailVerified:
		return model.ErrNotVerified
	case account.ProfileComplete:
		return model.ErrProfileAlreadyComplete
	default:
		return fmt.Errorf("failed to update profile of account %s", account.ID)
	}
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		a       model.Account
		role    string
		profile []byte
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &role, &a.EmailVerified,
		&a.ProfileComplete, &profile, &a.VerifiedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	a.Role = model.Role(role)
	if profile != nil {
		if a.Profile, err = model.DecodeProfileData(a.Role, profile); err != nil {
			return model.Account{}, err
		}
	}
	return a, nil
}
