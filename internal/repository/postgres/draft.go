package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.ProfileDraftStore = (*ProfileDraftRepository)(nil)

type ProfileDraftRepository struct {
	db *Connection
}

func NewProfileDraftRepository(db *Connection) *ProfileDraftRepository {
	return &ProfileDraftRepository{
		db: db,
	}
}

func (r *ProfileDraftRepository) Get(ctx context.Context, accountID uuid.UUID) (model.ProfileDraft, error) {
	query := `SELECT role, step, data, created_at, updated_at FROM profile_drafts WHERE account_id = $1`

	var (
		d    model.ProfileDraft
		role string
		data []byte
	)
	err := r.db.QueryRow(ctx, query, accountID).Scan(&role, &d.Step, &data, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ProfileDraft{}, model.ErrNotFound
		}
		return model.ProfileDraft{}, fmt.Errorf("failed to get profile draft: %w", err)
	}

	d.AccountID = accountID
	d.Role = model.Role(role)
	if d.Data, err = model.DecodeProfileData(d.Role, data); err != nil {
		return model.ProfileDraft{}, err
	}

	return d, nil
}

func (r *ProfileDraftRepository) Save(ctx context.Context, draft model.ProfileDraft) error {
	query := `INSERT INTO profile_drafts (account_id, role, step, data, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (account_id) DO UPDATE SET
			      role = EXCLUDED.role,
			      step = EXCLUDED.step,
			      data = EXCLUDED.data,
			      updated_at = EXCLUDED.updated_at`

	raw, err := model.EncodeProfileData(draft.Data)
	if err != nil {
		return err
	}
	if raw == nil {
		raw = []byte("{}")
	}

	_, err = r.db.Exec(ctx, query,
		draft.AccountID, string(draft.Role), draft.Step, raw, draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile draft: %w", err)
	}

	return nil
}

func (r *ProfileDraftRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM profile_drafts WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to delete profile draft: %w", err)
	}
	return nil
}
