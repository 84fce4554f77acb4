package handler

import (
	"errors"

	"github.com/dtroode/glowbook-server/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "session not found")
	case errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch),
		errors.Is(err, model.ErrTokenRevoked):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, model.ErrNotVerified):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, model.ErrSessionFailed):
		return status.Error(codes.Unavailable, "session store unavailable")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
