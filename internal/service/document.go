package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/obs"
)

var (
	imageTypes    = []string{"image/jpeg", "image/png", "image/webp"}
	documentTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}
)

// Documents stores professional uploads and attaches them to the profile draft.
type Documents struct {
	accountStore  model.AccountStore
	documentStore model.DocumentStore
	draftStore    model.ProfileDraftStore
	storage       model.Storage
	maxSize       int64
	logger        *logger.Logger
	now           func() time.Time
}

func NewDocuments(
	accountStore model.AccountStore,
	documentStore model.DocumentStore,
	draftStore model.ProfileDraftStore,
	storage model.Storage,
	maxSize int64,
	logger *logger.Logger,
) *Documents {
	return &Documents{
		accountStore:  accountStore,
		documentStore: documentStore,
		draftStore:    draftStore,
		storage:       storage,
		maxSize:       maxSize,
		logger:        logger,
		now:           time.Now,
	}
}

// Upload stores the document and references it from the draft of the account.
func (s *Documents) Upload(ctx context.Context, req model.UploadRequest) (doc model.Document, err error) {
	ctx, span := tracer.Start(ctx, "Documents.Upload")
	defer func() { finish(span, err) }()
	span.SetAttributes(attribute.String("document.kind", string(req.Kind)), attribute.Int64("document.size", req.Size))

	account, err := s.accountStore.GetByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Document{}, err
		}
		return model.Document{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	if !account.EmailVerified {
		return model.Document{}, model.ErrNotVerified
	}
	if account.ProfileComplete {
		return model.Document{}, model.ErrProfileAlreadyComplete
	}
	if err := s.validateUpload(account.Role, req); err != nil {
		return model.Document{}, err
	}

	doc = model.Document{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Kind:        req.Kind,
		Category:    req.Category,
		ObjectKey:   objectKey(account.ID, req.Kind),
		ContentType: req.ContentType,
		Size:        req.Size,
		CreatedAt:   s.now(),
	}

	doc, err = s.saveDocument(ctx, doc, req.Body)
	if err != nil {
		return model.Document{}, err
	}

	if err := s.attach(ctx, account, doc); err != nil {
		return model.Document{}, err
	}

	s.logger.Info("Document service: document uploaded",
		"account_id", account.ID,
		"document_id", doc.ID,
		"kind", doc.Kind)
	obs.RecordDocument(string(doc.Kind))

	return doc, nil
}

// Open returns the metadata and content of a document owned by accountID.
func (s *Documents) Open(ctx context.Context, accountID, documentID uuid.UUID) (model.Document, io.ReadCloser, error) {
	doc, err := s.documentStore.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Document{}, nil, err
		}
		return model.Document{}, nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc.AccountID != accountID {
		return model.Document{}, nil, model.ErrNotFound
	}

	rc, err := s.storage.Download(ctx, doc.ObjectKey)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Document{}, nil, err
		}
		return model.Document{}, nil, &model.CollaboratorError{Kind: model.ErrStorageFailed, Err: err}
	}

	return doc, rc, nil
}

// List returns the documents of the account.
func (s *Documents) List(ctx context.Context, accountID uuid.UUID) ([]model.Document, error) {
	docs, err := s.documentStore.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *Documents) validateUpload(role model.Role, req model.UploadRequest) error {
	if req.Body == nil || req.Size <= 0 {
		return model.NewValidationError(model.ErrMissingField, model.FieldError{Field: "body", Message: "is required"})
	}
	if s.maxSize > 0 && req.Size > s.maxSize {
		return model.NewValidationError(model.ErrInvalidField,
			model.FieldError{Field: "body", Message: fmt.Sprintf("must be at most %d bytes", s.maxSize)})
	}

	switch {
	case req.Kind == model.DocumentIdentity && role.IsProfessional():
	case req.Kind == model.DocumentBusinessProof && role == model.RoleVendor:
	case req.Kind == model.DocumentPortfolioPhoto && role == model.RoleVendor:
	default:
		return model.NewValidationError(model.ErrInvalidField,
			model.FieldError{Field: "kind", Message: fmt.Sprintf("%q documents are not accepted for role %s", req.Kind, role)})
	}

	allowed := documentTypes
	if req.Kind == model.DocumentPortfolioPhoto {
		allowed = imageTypes
		if !model.IsKnownCategory(req.Category) {
			return model.NewValidationError(model.ErrInvalidField,
				model.FieldError{Field: "category", Message: "must be a known service category"})
		}
	}
	if !slices.Contains(allowed, req.ContentType) {
		return model.NewValidationError(model.ErrInvalidField,
			model.FieldError{Field: "contentType", Message: fmt.Sprintf("must be one of %v", allowed)})
	}

	return nil
}

func (s *Documents) saveDocument(ctx context.Context, doc model.Document, body io.Reader) (model.Document, error) {
	if err := s.storage.Upload(ctx, doc.ObjectKey, body, doc.Size, doc.ContentType); err != nil {
		s.logger.Error("Document service: failed to upload to storage",
			"account_id", doc.AccountID,
			"error", err.Error())
		return model.Document{}, &model.CollaboratorError{Kind: model.ErrStorageFailed, Err: err}
	}

	saved, err := s.documentStore.Create(ctx, doc)
	if err != nil {
		if err := s.storage.Delete(ctx, doc.ObjectKey); err != nil {
			s.logger.Error("Document service: failed to delete orphaned object",
				"object_key", doc.ObjectKey,
				"error", err.Error())
		}
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return saved, nil
}

// attach references doc from the matching field of the draft.
func (s *Documents) attach(ctx context.Context, account model.Account, doc model.Document) error {
	draft, err := s.draftStore.Get(ctx, account.ID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		data, err := model.NewProfileData(account.Role)
		if err != nil {
			return err
		}
		draft = model.ProfileDraft{AccountID: account.ID, Role: account.Role, Data: data, CreatedAt: s.now()}
	case err != nil:
		return fmt.Errorf("failed to get profile draft: %w", err)
	}

	id := doc.ID.String()
	switch data := draft.Data.(type) {
	case *model.ServiceProfile:
		data.IdentityDocumentID = id
	case *model.VendorProfile:
		switch doc.Kind {
		case model.DocumentIdentity:
			data.IdentityDocumentID = id
		case model.DocumentBusinessProof:
			data.BusinessProofDocumentID = id
		case model.DocumentPortfolioPhoto:
			if data.CategoryPhotos == nil {
				data.CategoryPhotos = map[string][]string{}
			}
			data.CategoryPhotos[doc.Category] = append(data.CategoryPhotos[doc.Category], id)
		}
	default:
		return fmt.Errorf("documents cannot be attached to a %s profile", account.Role)
	}

	draft.UpdatedAt = s.now()
	if err := s.draftStore.Save(ctx, draft); err != nil {
		return fmt.Errorf("failed to attach document to draft: %w", err)
	}
	return nil
}

func objectKey(accountID uuid.UUID, kind model.DocumentKind) string {
	return fmt.Sprintf("account-%s/%s/%s", accountID, kind, ulid.Make())
}
