package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dtroode/glowbook-server/internal/model"
)

// mapServiceError converts a service error into a problem response.
func (h *Handler) mapServiceError(err error) error {
	var (
		verr     *model.ValidationError
		cooldown *model.ResendCooldownError
		serr     *model.StateError
	)

	switch {
	case errors.As(err, &verr):
		return huma.Error422UnprocessableEntity(verr.Kind.Error(), fieldDetails(verr)...)
	case errors.As(err, &cooldown):
		headers := make(http.Header)
		headers.Set("Retry-After", strconv.Itoa(int(math.Ceil(cooldown.RetryAfter.Seconds()))))
		return huma.ErrorWithHeaders(huma.Error429TooManyRequests("verification email was sent recently"), headers)
	case errors.As(err, &serr):
		h.logger.Error("HTTP handler: state invariant violated",
			"error", err.Error())
		return huma.Error500InternalServerError("internal error")

	case errors.Is(err, model.ErrNotFound):
		return huma.Error404NotFound("not found")
	case errors.Is(err, model.ErrTokenNotFound):
		return huma.Error404NotFound("verification link is invalid or was already used")
	case errors.Is(err, model.ErrInvalidCredentials):
		return huma.Error401Unauthorized("invalid email or password")
	case errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch),
		errors.Is(err, model.ErrTokenRevoked):
		return huma.Error401Unauthorized("invalid or expired token")
	case errors.Is(err, model.ErrNotVerified):
		return huma.Error403Forbidden("email address is not verified")
	case errors.Is(err, model.ErrSkipNotAllowed):
		return huma.Error403Forbidden("only clients may skip profile completion")
	case errors.Is(err, model.ErrEmailAlreadyExists):
		return huma.Error409Conflict("an account with this email already exists")
	case errors.Is(err, model.ErrAlreadyVerified):
		return huma.Error409Conflict("email address is already verified")
	case errors.Is(err, model.ErrProfileAlreadyComplete):
		return huma.Error409Conflict("profile is already complete")
	case errors.Is(err, model.ErrStaleStep):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, model.ErrStepNotReached):
		return huma.Error409Conflict("complete every step before submitting")
	case errors.Is(err, model.ErrEmailDeliveryFailed):
		return huma.Error502BadGateway("verification email could not be sent")
	case errors.Is(err, model.ErrStorageFailed):
		return huma.Error502BadGateway("document storage is unavailable")
	case errors.Is(err, model.ErrSessionFailed):
		return huma.Error502BadGateway("session could not be established, sign in to continue")
	case errors.Is(err, model.ErrAccountCreationFailed):
		return huma.Error502BadGateway("account could not be created")
	}

	h.logger.Error("HTTP handler: unexpected error",
		"error", err.Error())
	return huma.Error500InternalServerError("internal error")
}

func fieldDetails(verr *model.ValidationError) []error {
	details := make([]error, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		location := "body." + f.Field
		if verr.Step != "" {
			location = "body.profile." + f.Field
		}
		details = append(details, &huma.ErrorDetail{Location: location, Message: f.Message})
	}
	return details
}
