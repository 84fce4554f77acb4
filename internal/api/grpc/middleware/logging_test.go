package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dtroode/glowbook-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   grpc.UnaryHandler
		wantCode  codes.Code
		wantLevel string
	}{
		{
			name: "success",
			handler: func(context.Context, any) (any, error) {
				return "ok", nil
			},
			wantCode:  codes.OK,
			wantLevel: "level=INFO",
		},
		{
			name: "client error",
			handler: func(context.Context, any) (any, error) {
				return nil, status.Error(codes.Unauthenticated, "missing bearer token")
			},
			wantCode:  codes.Unauthenticated,
			wantLevel: "level=WARN",
		},
		{
			name: "plain error",
			handler: func(context.Context, any) (any, error) {
				return nil, errors.New("boom")
			},
			wantCode:  codes.Unknown,
			wantLevel: "level=ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			lg := NewLogging(testutil.MakeLogger(&buf))
			info := &grpc.UnaryServerInfo{FullMethod: "/glowbook.session.v1.SessionService/WhoAmI"}

			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode == codes.OK {
				assert.Equal(t, "ok", resp)
			}
			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "code="+tt.wantCode.String())
			assert.Contains(t, out, "SessionService/WhoAmI")
		})
	}
}
