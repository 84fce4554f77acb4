package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
	}{
		{name: "not found", in: fmt.Errorf("get: %w", model.ErrNotFound), wantCode: codes.NotFound},
		{name: "expired token", in: model.ErrTokenExpired, wantCode: codes.Unauthenticated},
		{name: "replaced session", in: model.ErrTokenRevoked, wantCode: codes.Unauthenticated},
		{name: "unverified", in: model.ErrNotVerified, wantCode: codes.PermissionDenied},
		{name: "session store", in: fmt.Errorf("delete: %w", model.ErrSessionFailed), wantCode: codes.Unavailable},
		{name: "other", in: errors.New("boom"), wantCode: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
		})
	}
}
