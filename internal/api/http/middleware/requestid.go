package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestID reuses a well-formed X-Request-Id header or generates a UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(chimiddleware.RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		r = r.WithContext(context.WithValue(r.Context(), chimiddleware.RequestIDKey, id))
		w.Header().Set(chimiddleware.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// validRequestID accepts printable ASCII only so ids are safe to log.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
