package handler

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dtroode/glowbook-server/internal/api/http/middleware"
)

var (
	tagSessions = []string{"Sessions"}
	bearer      = []map[string][]string{{middleware.BearerScheme: {}}}
)

func (h *Handler) registerSessions(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "login",
		Method:        http.MethodPost,
		Path:          "/v1/sessions",
		Summary:       "Sign in to a verified account",
		Tags:          tagSessions,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, in *LoginInput) (*SessionOutput, error) {
		est, err := h.sessions.Login(ctx, in.Body.Email, in.Body.Password)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		return &SessionOutput{Body: toSession(est)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-session",
		Method:      http.MethodPost,
		Path:        "/v1/sessions/refresh",
		Summary:     "Rotate the refresh token",
		Tags:        tagSessions,
	}, func(ctx context.Context, in *RefreshInput) (*SessionOutput, error) {
		est, err := h.sessions.Refresh(ctx, in.Body.RefreshToken)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		return &SessionOutput{Body: toSession(est)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodDelete,
		Path:          "/v1/sessions/current",
		Summary:       "Close the current session",
		Tags:          tagSessions,
		DefaultStatus: http.StatusNoContent,
		Security:      bearer,
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		session, ok := middleware.SessionFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("not authenticated")
		}
		if err := h.sessions.Logout(ctx, session.AccountID); err != nil {
			return nil, h.mapServiceError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/v1/me",
		Summary:     "Describe the current session",
		Tags:        tagSessions,
		Security:    bearer,
	}, func(ctx context.Context, _ *struct{}) (*MeOutput, error) {
		session, ok := middleware.SessionFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("not authenticated")
		}
		out := &MeOutput{}
		out.Body.SessionID = session.ID
		out.Body.ExpiresAt = session.ExpiresAt
		out.Body.Account = toAccount(session.Account)
		return out, nil
	})
}
