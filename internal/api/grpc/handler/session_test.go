package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dtroode/glowbook-server/internal/mocks"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestSession_WhoAmI(t *testing.T) {
	accountID := uuid.New()
	session := model.Session{
		ID:        uuid.New(),
		AccountID: accountID,
		Account: model.AccountSnapshot{
			ID:              accountID,
			Email:           "a@b.com",
			FirstName:       "A",
			LastName:        "B",
			Role:            model.RoleClient,
			EmailVerified:   true,
			ProfileComplete: true,
		},
		ExpiresAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("returns the snapshot", func(t *testing.T) {
		sessions := mocks.NewAccountSessions(t)
		cm := mocks.NewContextManager(t)
		cm.On("GetAccountIDFromContext", mock.Anything).Return(accountID, true)
		sessions.On("Current", mock.Anything, accountID).Return(session, nil)
		h := NewSession(sessions, cm, testutil.MakeNoopLogger())

		out, err := h.WhoAmI(context.Background(), &emptypb.Empty{})
		require.NoError(t, err)

		m := out.AsMap()
		assert.Equal(t, session.ID.String(), m["sessionId"])
		assert.Equal(t, "2026-01-02T03:04:05Z", m["expiresAt"])
		account := m["account"].(map[string]any)
		assert.Equal(t, "a@b.com", account["email"])
		assert.Equal(t, string(model.RoleClient), account["role"])
		assert.Equal(t, true, account["profileComplete"])
	})

	t.Run("no account in context", func(t *testing.T) {
		cm := mocks.NewContextManager(t)
		cm.On("GetAccountIDFromContext", mock.Anything).Return(uuid.Nil, false)
		h := NewSession(mocks.NewAccountSessions(t), cm, testutil.MakeNoopLogger())

		_, err := h.WhoAmI(context.Background(), &emptypb.Empty{})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("session gone", func(t *testing.T) {
		sessions := mocks.NewAccountSessions(t)
		cm := mocks.NewContextManager(t)
		cm.On("GetAccountIDFromContext", mock.Anything).Return(accountID, true)
		sessions.On("Current", mock.Anything, accountID).Return(model.Session{}, model.ErrNotFound)
		h := NewSession(sessions, cm, testutil.MakeNoopLogger())

		_, err := h.WhoAmI(context.Background(), &emptypb.Empty{})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}

func TestSession_Logout(t *testing.T) {
	accountID := uuid.New()

	t.Run("closes the session", func(t *testing.T) {
		sessions := mocks.NewAccountSessions(t)
		cm := mocks.NewContextManager(t)
		cm.On("GetAccountIDFromContext", mock.Anything).Return(accountID, true)
		sessions.On("Logout", mock.Anything, accountID).Return(nil)
		h := NewSession(sessions, cm, testutil.MakeNoopLogger())

		out, err := h.Logout(context.Background(), &emptypb.Empty{})
		require.NoError(t, err)
		assert.NotNil(t, out)
	})

	t.Run("store failure", func(t *testing.T) {
		sessions := mocks.NewAccountSessions(t)
		cm := mocks.NewContextManager(t)
		cm.On("GetAccountIDFromContext", mock.Anything).Return(accountID, true)
		sessions.On("Logout", mock.Anything, accountID).Return(errors.New("connection reset"))
		h := NewSession(sessions, cm, testutil.MakeNoopLogger())

		_, err := h.Logout(context.Background(), &emptypb.Empty{})
		assert.Equal(t, codes.Internal, status.Code(err))
	})
}
