package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

const documentColumns = `id, account_id, kind, category, object_key, content_type, size, created_at`

func (r *DocumentRepository) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	query := `INSERT INTO documents (` + documentColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING ` + documentColumns

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}

	saved, err := scanDocument(r.db.QueryRow(ctx, query,
		doc.ID, doc.AccountID, string(doc.Kind), doc.Category, doc.ObjectKey, doc.ContentType, doc.Size, doc.CreatedAt,
	))
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return saved, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Document{}, model.ErrNotFound
		}
		return model.Document{}, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

func (r *DocumentRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE account_id = $1 ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Document, error) {
		return scanDocument(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}

	return docs, nil
}

func scanDocument(row pgx.Row) (model.Document, error) {
	var (
		d    model.Document
		kind string
	)
	if err := row.Scan(&d.ID, &d.AccountID, &kind, &d.Category, &d.ObjectKey, &d.ContentType, &d.Size, &d.CreatedAt); err != nil {
		return model.Document{}, err
	}
	d.Kind = model.DocumentKind(kind)
	return d, nil
}
