package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/glowbook-server/internal/mocks"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/testutil"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "generated", incoming: ""},
		{name: "reused", incoming: "req-123", reuse: true},
		{name: "control characters", incoming: "bad\nid"},
		{name: "too long", incoming: strings.Repeat("a", maxRequestIDLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = chimiddleware.GetReqID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(chimiddleware.RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get(chimiddleware.RequestIDHeader))
			if tt.reuse {
				assert.Equal(t, tt.incoming, seen)
				return
			}
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders("/docs")(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Empty(t, rec.Header().Get("X-Frame-Options"))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/v1/signup", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/signup", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	l := NewRateLimiter(1, 2)
	l.now = clock.Now
	h := l.Handler(okHandler)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/signup", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"), "buckets are per client")

	clock.Advance(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1003"))

	clock.Advance(10 * time.Minute)
	call("10.0.0.3:1000")
	l.mu.Lock()
	assert.Len(t, l.buckets, 1, "idle buckets are dropped")
	l.mu.Unlock()
}

func TestLogging(t *testing.T) {
	var out strings.Builder
	log := testutil.MakeLogger(&out)

	h := RequestID(NewLogging(log).Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/signup", nil))

	assert.Contains(t, out.String(), "status=201")
	assert.Contains(t, out.String(), "path=/v1/signup")
}

type meOutput struct {
	Body struct {
		AccountID string `json:"accountId"`
	}
}

func newAuthRouter(t *testing.T, authenticator Authenticator) http.Handler {
	t.Helper()
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("AuthTest", "test"))
	api.UseMiddleware(NewAuth(api, authenticator, testutil.MakeNoopLogger()))

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/me",
		Security:    []map[string][]string{{BearerScheme: {}}},
	}, func(ctx context.Context, _ *struct{}) (*meOutput, error) {
		s, ok := SessionFromContext(ctx)
		require.True(t, ok)
		out := &meOutput{}
		out.Body.AccountID = s.AccountID.String()
		return out, nil
	})
	huma.Register(api, huma.Operation{
		OperationID: "open",
		Method:      http.MethodGet,
		Path:        "/open",
	}, func(context.Context, *struct{}) (*struct{}, error) {
		return nil, nil
	})
	return router
}

func TestAuth(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name   string
		path   string
		header string
		setup  func(a *mocks.Authenticator)
		want   int
	}{
		{name: "open operation", path: "/open", want: http.StatusNoContent},
		{name: "missing header", path: "/me", want: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/me", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "valid", path: "/me", header: "Bearer good", want: http.StatusOK, setup: func(a *mocks.Authenticator) {
			a.On("Authenticate", mock.Anything, "good").Return(model.Session{AccountID: accountID}, nil)
		}},
		{name: "revoked", path: "/me", header: "Bearer old", want: http.StatusUnauthorized, setup: func(a *mocks.Authenticator) {
			a.On("Authenticate", mock.Anything, "old").Return(model.Session{}, model.ErrTokenRevoked)
		}},
		{name: "store failure", path: "/me", header: "Bearer good", want: http.StatusInternalServerError, setup: func(a *mocks.Authenticator) {
			a.On("Authenticate", mock.Anything, "good").Return(model.Session{}, errors.New("db down"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mocks.NewAuthenticator(t)
			if tt.setup != nil {
				tt.setup(a)
			}
			h := newAuthRouter(t, a)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want == http.StatusOK {
				assert.Contains(t, rec.Body.String(), accountID.String())
			}
			if tt.want == http.StatusUnauthorized {
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
