package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/glowbook-server/internal/auth"
	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/obs"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// VerificationIssuer sends a fresh verification email for an account.
type VerificationIssuer interface {
	Issue(ctx context.Context, account model.Account) (model.IssuedVerification, error)
}

// Signup creates unverified accounts and starts email verification.
type Signup struct {
	accountStore model.AccountStore
	hasher       model.PasswordHasher
	verification VerificationIssuer
	logger       *logger.Logger
	inflight     singleflight.Group
}

func NewSignup(
	accountStore model.AccountStore,
	hasher model.PasswordHasher,
	verification VerificationIssuer,
	logger *logger.Logger,
) *Signup {
	return &Signup{
		accountStore: accountStore,
		hasher:       hasher,
		verification: verification,
		logger:       logger,
	}
}

// Register validates the form, creates the account and sends the verification email.
//
// When the email cannot be delivered the account still exists: the result carries
// it together with an ErrEmailDeliveryFailed error so the caller can offer a resend.
func (s *Signup) Register(ctx context.Context, req model.SignupRequest) (res model.SignupResult, err error) {
	ctx, span := tracer.Start(ctx, "Signup.Register")
	defer func() { finish(span, err) }()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	span.SetAttributes(attribute.String("account.role", req.Role))

	role, err := validateSignup(req)
	if err != nil {
		s.logger.Debug("Signup service: validation failed",
			"email", req.Email,
			"error", err.Error())
		obs.RecordSignup(roleLabel(req.Role), "invalid")
		return model.SignupResult{}, err
	}

	return do(&s.inflight, "signup:"+req.Email, func() (model.SignupResult, error) {
		return s.register(ctx, req, role)
	})
}

func (s *Signup) register(ctx context.Context, req model.SignupRequest, role model.Role) (model.SignupResult, error) {
	s.logger.Debug("Signup service: creating account",
		"email", req.Email,
		"role", role)

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("Signup service: failed to hash password",
			"email", req.Email,
			"error", err.Error())
		return model.SignupResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accountStore.Create(ctx, model.Account{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			s.logger.Info("Signup service: email already registered",
				"email", req.Email)
		} else {
			s.logger.Error("Signup service: failed to create account",
				"email", req.Email,
				"error", err.Error())
		}
		obs.RecordSignup(string(role), "store_failed")
		return model.SignupResult{}, &model.CollaboratorError{Kind: model.ErrAccountCreationFailed, Err: err}
	}

	result := model.SignupResult{Account: account.Snapshot()}

	issued, err := s.verification.Issue(ctx, account)
	if err != nil {
		s.logger.Warn("Signup service: account created but verification email failed",
			"account_id", account.ID,
			"error", err.Error())
		obs.RecordSignup(string(role), "email_failed")
		if !errors.Is(err, model.ErrEmailDeliveryFailed) {
			err = &model.CollaboratorError{Kind: model.ErrEmailDeliveryFailed, Err: err}
		}
		return result, err
	}
	result.Verification = issued

	s.logger.Info("Signup service: account created",
		"account_id", account.ID,
		"role", role)
	obs.RecordSignup(string(role), "success")

	return result, nil
}

// validateSignup checks the form in a fixed order and stops at the first failure.
func validateSignup(req model.SignupRequest) (model.Role, error) {
	if !emailPattern.MatchString(req.Email) {
		return "", model.NewValidationError(model.ErrInvalidEmail,
			model.FieldError{Field: "email", Message: "must look like name@domain.tld"})
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return "", model.NewValidationError(model.ErrWeakPassword,
			model.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)})
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return "", model.NewValidationError(model.ErrInvalidField,
			model.FieldError{Field: "password", Message: fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes)})
	}
	if req.Password != req.ConfirmPassword {
		return "", model.NewValidationError(model.ErrPasswordMismatch,
			model.FieldError{Field: "confirmPassword", Message: "does not match password"})
	}

	var missing []model.FieldError
	if req.FirstName == "" {
		missing = append(missing, model.FieldError{Field: "firstName", Message: "is required"})
	}
	if req.LastName == "" {
		missing = append(missing, model.FieldError{Field: "lastName", Message: "is required"})
	}
	if len(missing) > 0 {
		return "", model.NewValidationError(model.ErrMissingField, missing...)
	}

	if strings.TrimSpace(req.Role) == "" {
		return "", model.NewValidationError(model.ErrMissingField,
			model.FieldError{Field: "role", Message: "is required"})
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return "", model.NewValidationError(model.ErrInvalidRole,
			model.FieldError{Field: "role", Message: err.Error()})
	}

	return role, nil
}

func roleLabel(raw string) string {
	if role, err := model.ParseRole(raw); err == nil {
		return string(role)
	}
	return "unknown"
}
