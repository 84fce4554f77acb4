package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentKind classifies professional uploads.
type DocumentKind string

const (
	DocumentPortfolioPhoto DocumentKind = "portfolio_photo"
	DocumentIdentity       DocumentKind = "identity"
	DocumentBusinessProof  DocumentKind = "business_proof"
)

// ParseDocumentKind converts a raw kind into a DocumentKind.
func ParseDocumentKind(raw string) (DocumentKind, error) {
	switch k := DocumentKind(raw); k {
	case DocumentPortfolioPhoto, DocumentIdentity, DocumentBusinessProof:
		return k, nil
	default:
		return "", fmt.Errorf("unknown document kind %q", raw)
	}
}

// DocumentStore persists document metadata.
type DocumentStore interface {
	Create(ctx context.Context, doc Document) (Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Document, error)
}

// Document is an uploaded file referenced from a profile draft.
type Document struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Kind        DocumentKind
	Category    string
	ObjectKey   string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}
