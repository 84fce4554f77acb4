package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, account_id, kind, category, object_key, content_type, size, created_at`

func (r *DocumentRepository) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	const query = `INSERT INTO documents (` + documentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, query,
		doc.ID.String(), doc.AccountID.String(), string(doc.Kind), doc.Category, doc.ObjectKey,
		doc.ContentType, doc.Size, toMillis(doc.CreatedAt),
	)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id.String())
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, model.ErrNotFound
		}
		return model.Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE account_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, accountID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (model.Document, error) {
	var (
		d             model.Document
		id, accountID string
		kind          string
		createdAt     int64
	)
	if err := row.Scan(&id, &accountID, &kind, &d.Category, &d.ObjectKey, &d.ContentType, &d.Size, &createdAt); err != nil {
		return model.Document{}, err
	}
	var err error
	if d.ID, err = uuid.Parse(id); err != nil {
		return model.Document{}, err
	}
	if d.AccountID, err = uuid.Parse(accountID); err != nil {
		return model.Document{}, err
	}
	d.Kind = model.DocumentKind(kind)
	d.CreatedAt = fromMillis(createdAt)
	return d, nil
}
