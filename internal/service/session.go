package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/obs"
)

// Sessions establishes, rotates and revokes the single session of an account.
// It composes the TokenManager and SessionStore.
type Sessions struct {
	accountStore model.AccountStore
	sessionStore model.SessionStore
	manager      model.TokenManager
	hasher       model.PasswordHasher
	logger       *logger.Logger
	now          func() time.Time
}

func NewSessions(
	accountStore model.AccountStore,
	sessionStore model.SessionStore,
	manager model.TokenManager,
	hasher model.PasswordHasher,
	logger *logger.Logger,
) *Sessions {
	return &Sessions{
		accountStore: accountStore,
		sessionStore: sessionStore,
		manager:      manager,
		hasher:       hasher,
		logger:       logger,
		now:          time.Now,
	}
}

// Establish creates the session of a verified account, replacing any previous one.
func (s *Sessions) Establish(ctx context.Context, account model.Account) (model.EstablishedSession, error) {
	return s.establish(ctx, account, uuid.New(), "onboarding")
}

// Login checks the credentials of a verified account and establishes a session.
func (s *Sessions) Login(ctx context.Context, email, password string) (established model.EstablishedSession, err error) {
	ctx, span := tracer.Start(ctx, "Sessions.Login")
	defer func() { finish(span, err) }()

	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.accountStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.EstablishedSession{}, model.ErrInvalidCredentials
		}
		return model.EstablishedSession{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		s.logger.Info("Session service: login rejected",
			"account_id", account.ID)
		return model.EstablishedSession{}, model.ErrInvalidCredentials
	}
	if !account.EmailVerified {
		return model.EstablishedSession{}, model.ErrNotVerified
	}

	return s.establish(ctx, account, uuid.New(), "login")
}

// Refresh rotates the refresh token of the current session.
func (s *Sessions) Refresh(ctx context.Context, presentedRefresh string) (established model.EstablishedSession, err error) {
	ctx, span := tracer.Start(ctx, "Sessions.Refresh")
	defer func() { finish(span, err) }()

	accountID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return model.EstablishedSession{}, err
	}

	stored, err := s.sessionStore.GetByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.EstablishedSession{}, model.ErrTokenRevoked
		}
		return model.EstablishedSession{}, fmt.Errorf("failed to get session: %w", err)
	}

	if err := validateSession(stored, jti, hashRefresh(presentedRefresh), s.now()); err != nil {
		s.logger.Info("Session service: refresh rejected",
			"account_id", accountID,
			"error", err.Error())
		return model.EstablishedSession{}, err
	}

	account, err := s.accountStore.GetByID(ctx, accountID)
	if err != nil {
		return model.EstablishedSession{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	return s.establish(ctx, account, stored.ID, "refresh")
}

// Authenticate resolves an access token to the session it was issued for.
// Tokens of a replaced session are rejected.
func (s *Sessions) Authenticate(ctx context.Context, accessToken string) (model.Session, error) {
	claims, err := s.manager.ParseAccessToken(accessToken)
	if err != nil {
		return model.Session{}, err
	}

	stored, err := s.sessionStore.GetByAccount(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrTokenRevoked
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	if stored.ID != claims.SessionID {
		return model.Session{}, model.ErrTokenRevoked
	}

	return stored, nil
}

// Current returns the session of the account.
func (s *Sessions) Current(ctx context.Context, accountID uuid.UUID) (model.Session, error) {
	return s.sessionStore.GetByAccount(ctx, accountID)
}

// Logout deletes the session of the account.
func (s *Sessions) Logout(ctx context.Context, accountID uuid.UUID) error {
	if err := s.sessionStore.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("Session service: session closed",
		"account_id", accountID)
	return nil
}

func (s *Sessions) establish(ctx context.Context, account model.Account, sessionID uuid.UUID, source string) (established model.EstablishedSession, err error) {
	ctx, span := tracer.Start(ctx, "Sessions.Establish")
	defer func() { finish(span, err) }()
	span.SetAttributes(attribute.String("account.id", account.ID.String()), attribute.String("session.source", source))

	if !account.EmailVerified {
		err := &model.StateError{Op: "establish session", Err: model.ErrNotVerified}
		s.logger.Error("Session service: session requested for unverified account",
			"account_id", account.ID,
			"source", source,
			"error", err.Error())
		return model.EstablishedSession{}, err
	}

	access, accessExpires, err := s.manager.GenerateAccessToken(model.AccessClaims{
		AccountID: account.ID,
		SessionID: sessionID,
		Role:      account.Role,
	})
	if err != nil {
		return model.EstablishedSession{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, refreshExpires, err := s.manager.GenerateRefreshToken(account.ID, sessionID)
	if err != nil {
		return model.EstablishedSession{}, fmt.Errorf("issue refresh: %w", err)
	}

	now := s.now()
	session := model.Session{
		ID:          sessionID,
		AccountID:   account.ID,
		Account:     account.Snapshot(),
		RefreshJTI:  jti,
		RefreshHash: hashRefresh(refresh),
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   refreshExpires,
	}
	if err := s.sessionStore.Save(ctx, session); err != nil {
		s.logger.Error("Session service: failed to save session",
			"account_id", account.ID,
			"error", err.Error())
		return model.EstablishedSession{}, &model.CollaboratorError{Kind: model.ErrSessionFailed, Err: err}
	}

	s.logger.Info("Session service: session established",
		"account_id", account.ID,
		"session_id", sessionID,
		"source", source)
	obs.RecordSession(source)

	return model.EstablishedSession{
		Session:         session,
		AccessToken:     access,
		AccessExpiresAt: accessExpires,
		RefreshToken:    refresh,
	}, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateSession(stored model.Session, jti string, presentedHash []byte, now time.Time) error {
	if stored.RefreshJTI != jti {
		return model.ErrTokenRevoked
	}
	if now.After(stored.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if !equalBytes(stored.RefreshHash, presentedHash) {
		return model.ErrTokenMismatch
	}
	return nil
}

func equalBytes(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
