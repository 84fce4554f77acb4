// Package handler exposes the onboarding services over HTTP with huma.
package handler

import (
	"context"
	"io"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
)

// SignupService creates accounts.
type SignupService interface {
	Register(ctx context.Context, req model.SignupRequest) (model.SignupResult, error)
}

// VerificationService resends and confirms verification emails.
type VerificationService interface {
	Request(ctx context.Context, accountID uuid.UUID) (model.IssuedVerification, error)
	Confirm(ctx context.Context, token string) (model.Account, error)
}

// ProfileService drives profile completion.
type ProfileService interface {
	Draft(ctx context.Context, accountID uuid.UUID) (model.ProfileDraft, error)
	SaveDraft(ctx context.Context, accountID uuid.UUID, data model.ProfileData) (model.ProfileDraft, error)
	Advance(ctx context.Context, accountID uuid.UUID, fromStep string, data model.ProfileData) (model.ProfileDraft, error)
	Back(ctx context.Context, accountID uuid.UUID, fromStep string, data model.ProfileData) (model.ProfileDraft, error)
	Submit(ctx context.Context, accountID uuid.UUID, role model.Role, data model.ProfileData) (model.CompletionResult, error)
	Skip(ctx context.Context, accountID uuid.UUID) (model.CompletionResult, error)
}

// SessionService manages sessions of completed accounts.
type SessionService interface {
	Login(ctx context.Context, email, password string) (model.EstablishedSession, error)
	Refresh(ctx context.Context, refreshToken string) (model.EstablishedSession, error)
	Logout(ctx context.Context, accountID uuid.UUID) error
}

// DocumentService stores professional uploads.
type DocumentService interface {
	Upload(ctx context.Context, req model.UploadRequest) (model.Document, error)
	Open(ctx context.Context, accountID, documentID uuid.UUID) (model.Document, io.ReadCloser, error)
	List(ctx context.Context, accountID uuid.UUID) ([]model.Document, error)
}

// Handler registers the HTTP operations of the onboarding API.
type Handler struct {
	signup       SignupService
	verification VerificationService
	profile      ProfileService
	sessions     SessionService
	documents    DocumentService
	maxUpload    int64
	logger       *logger.Logger
}

func New(
	signup SignupService,
	verification VerificationService,
	profile ProfileService,
	sessions SessionService,
	documents DocumentService,
	maxUpload int64,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		signup:       signup,
		verification: verification,
		profile:      profile,
		sessions:     sessions,
		documents:    documents,
		maxUpload:    maxUpload,
		logger:       logger,
	}
}

// Register adds every operation to api.
func (h *Handler) Register(api huma.API) {
	h.registerSignup(api)
	h.registerVerification(api)
	h.registerProfile(api)
	h.registerDocuments(api)
	h.registerSessions(api)
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, huma.Error422UnprocessableEntity("invalid id", &huma.ErrorDetail{
			Location: field,
			Message:  "must be a UUID",
			Value:    raw,
		})
	}
	return id, nil
}
