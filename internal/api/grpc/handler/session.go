package handler

import (
	"context"
	"time"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// AccountSessions reads and closes the session of an authenticated account.
type AccountSessions interface {
	Current(ctx context.Context, accountID uuid.UUID) (model.Session, error)
	Logout(ctx context.Context, accountID uuid.UUID) error
}

// Session serves the session service for downstream services.
type Session struct {
	sessionService AccountSessions
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewSession(sessionService AccountSessions, contextManager model.ContextManager, logger *logger.Logger) *Session {
	return &Session{
		sessionService: sessionService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// WhoAmI returns the account snapshot bound to the caller's session.
func (h *Session) WhoAmI(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no account in context")
	}

	session, err := h.sessionService.Current(ctx, accountID)
	if err != nil {
		h.logger.Warn("Session handler: session lookup failed",
			"account_id", accountID,
			"error", err.Error())
		return nil, handleError(err)
	}

	out, err := structpb.NewStruct(snapshot(session))
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode session")
	}
	return out, nil
}

// Logout closes the caller's session.
func (h *Session) Logout(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no account in context")
	}

	if err := h.sessionService.Logout(ctx, accountID); err != nil {
		h.logger.Error("Session handler: logout failed",
			"account_id", accountID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

func snapshot(session model.Session) map[string]any {
	account := session.Account
	return map[string]any{
		"sessionId": session.ID.String(),
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		"account": map[string]any{
			"id":              account.ID.String(),
			"email":           account.Email,
			"firstName":       account.FirstName,
			"lastName":        account.LastName,
			"role":            string(account.Role),
			"emailVerified":   account.EmailVerified,
			"profileComplete": account.ProfileComplete,
		},
	}
}
