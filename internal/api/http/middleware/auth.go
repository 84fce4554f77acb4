package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
)

// BearerScheme is the security scheme name secured operations declare.
const BearerScheme = "bearerAuth"

// Authenticator resolves an access token to its current session.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.Session, error)
}

type sessionKey struct{}

// NewAuth returns huma middleware that authenticates operations declaring BearerScheme.
func NewAuth(api huma.API, authenticator Authenticator, logger *logger.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresBearer(ctx.Operation()) {
			next(ctx)
			return
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		session, err := authenticator.Authenticate(ctx.Context(), token)
		if err != nil {
			if !isTokenError(err) {
				logger.Error("HTTP auth: failed to authenticate",
					"error", err.Error())
				_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal error")
				return
			}
			logger.Debug("HTTP auth: token rejected",
				"error", err.Error())
			ctx.SetHeader("WWW-Authenticate", `Bearer error="invalid_token"`)
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next(huma.WithValue(ctx, sessionKey{}, session))
	}
}

// SessionFromContext returns the session attached by the auth middleware.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(model.Session)
	return s, ok
}

// ContextWithSession attaches a session to ctx.
func ContextWithSession(ctx context.Context, s model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func requiresBearer(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, req := range op.Security {
		if _, ok := req[BearerScheme]; ok {
			return true
		}
	}
	return false
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isTokenError(err error) bool {
	return errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrTokenMismatch) ||
		errors.Is(err, model.ErrTokenRevoked)
}
