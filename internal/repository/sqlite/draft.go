package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.ProfileDraftStore = (*ProfileDraftRepository)(nil)

type ProfileDraftRepository struct {
	db *Connection
}

func NewProfileDraftRepository(db *Connection) *ProfileDraftRepository {
	return &ProfileDraftRepository{db: db}
}

func (r *ProfileDraftRepository) Get(ctx context.Context, accountID uuid.UUID) (model.ProfileDraft, error) {
	const query = `
        SELECT role, step, data, created_at, updated_at
        FROM profile_drafts WHERE account_id = ?
    `
	var (
		d                    model.ProfileDraft
		role, data           string
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, accountID.String()).Scan(&role, &d.Step, &data, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ProfileDraft{}, model.ErrNotFound
		}
		return model.ProfileDraft{}, fmt.Errorf("failed to get profile draft: %w", err)
	}
	d.AccountID = accountID
	d.Role = model.Role(role)
	if d.Data, err = model.DecodeProfileData(d.Role, []byte(data)); err != nil {
		return model.ProfileDraft{}, err
	}
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updatedAt)
	return d, nil
}

func (r *ProfileDraftRepository) Save(ctx context.Context, draft model.ProfileDraft) error {
	const query = `
        INSERT INTO profile_drafts (account_id, role, step, data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (account_id) DO UPDATE SET
            role = excluded.role,
            step = excluded.step,
            data = excluded.data,
            updated_at = excluded.updated_at
    `
	raw, err := model.EncodeProfileData(draft.Data)
	if err != nil {
		return err
	}
	if raw == nil {
		raw = []byte("{}")
	}
	_, err = r.db.ExecContext(ctx, query,
		draft.AccountID.String(), string(draft.Role), draft.Step, string(raw),
		toMillis(draft.CreatedAt), toMillis(draft.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile draft: %w", err)
	}
	return nil
}

func (r *ProfileDraftRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	const query = `DELETE FROM profile_drafts WHERE account_id = ?`
	if _, err := r.db.ExecContext(ctx, query, accountID.String()); err != nil {
		return fmt.Errorf("failed to delete profile draft: %w", err)
	}
	return nil
}
