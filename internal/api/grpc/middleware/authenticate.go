package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Authenticator resolves an access token to its live session.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.Session, error)
}

// Authenticate validates bearer tokens and injects the account id into context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// AuthFunc is the go-grpc-middleware auth hook.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token := bearerToken(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing bearer token")
	}

	session, err := m.authenticator.Authenticate(ctx, token)
	if err != nil {
		if isTokenError(err) {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		m.logger.Error("gRPC authenticate: session lookup failed",
			"error", err.Error())
		return nil, status.Error(codes.Unavailable, "session lookup failed")
	}

	return m.contextManager.SetAccountIDToContext(ctx, session.AccountID), nil
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	scheme, token, found := strings.Cut(values[0], " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func isTokenError(err error) bool {
	return errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrTokenMismatch) ||
		errors.Is(err, model.ErrTokenRevoked)
}
