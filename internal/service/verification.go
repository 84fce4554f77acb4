package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/obs"
)

const verificationTokenBytes = 32

// Verification issues, resends and confirms email verification tokens.
type Verification struct {
	accountStore model.AccountStore
	tokenStore   model.VerificationTokenStore
	mailer       model.Mailer
	cfg          config.Verification
	logger       *logger.Logger
	inflight     singleflight.Group

	now      func() time.Time
	newToken func() (string, error)
}

func NewVerification(
	accountStore model.AccountStore,
	tokenStore model.VerificationTokenStore,
	mailer model.Mailer,
	cfg config.Verification,
	logger *logger.Logger,
) *Verification {
	if cfg.TTL <= 0 {
		cfg.TTL = model.VerificationTokenTTL
	}
	return &Verification{
		accountStore: accountStore,
		tokenStore:   tokenStore,
		mailer:       mailer,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		newToken:     randomToken,
	}
}

// Issue stores a new token for the account, superseding earlier ones, and emails the link.
func (v *Verification) Issue(ctx context.Context, account model.Account) (issued model.IssuedVerification, err error) {
	ctx, span := tracer.Start(ctx, "Verification.Issue")
	defer func() { finish(span, err) }()
	span.SetAttributes(attribute.String("account.id", account.ID.String()))

	raw, err := v.newToken()
	if err != nil {
		return model.IssuedVerification{}, fmt.Errorf("failed to generate verification token: %w", err)
	}

	now := v.now()
	token := model.VerificationToken{
		ID:        uuid.New(),
		AccountID: account.ID,
		TokenHash: hashToken(raw),
		IssuedAt:  now,
		ExpiresAt: now.Add(v.cfg.TTL),
	}
	if err := v.tokenStore.Issue(ctx, token); err != nil {
		v.logger.Error("Verification service: failed to store token",
			"account_id", account.ID,
			"error", err.Error())
		return model.IssuedVerification{}, fmt.Errorf("failed to store verification token: %w", err)
	}

	link, err := v.link(raw)
	if err != nil {
		return model.IssuedVerification{}, err
	}

	receipt, err := v.mailer.Send(ctx, verificationEmail(account, link, token.ExpiresAt))
	if err != nil {
		v.logger.Error("Verification service: failed to send email",
			"account_id", account.ID,
			"error", err.Error())
		obs.RecordEmail("failed")
		return model.IssuedVerification{}, &model.CollaboratorError{Kind: model.ErrEmailDeliveryFailed, Err: err}
	}
	obs.RecordEmail("sent")

	v.logger.Info("Verification service: verification email sent",
		"account_id", account.ID,
		"message_id", receipt.MessageID)

	return model.IssuedVerification{
		AccountID: account.ID,
		ExpiresAt: token.ExpiresAt,
		MessageID: receipt.MessageID,
	}, nil
}

// Request resends the verification email of an unverified account.
func (v *Verification) Request(ctx context.Context, accountID uuid.UUID) (issued model.IssuedVerification, err error) {
	ctx, span := tracer.Start(ctx, "Verification.Request")
	defer func() { finish(span, err) }()

	account, err := v.accountStore.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.IssuedVerification{}, err
		}
		return model.IssuedVerification{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	if account.EmailVerified {
		return model.IssuedVerification{}, model.ErrAlreadyVerified
	}

	latest, err := v.tokenStore.Latest(ctx, accountID)
	switch {
	case errors.Is(err, model.ErrNotFound):
	case err != nil:
		return model.IssuedVerification{}, fmt.Errorf("failed to get latest verification token: %w", err)
	default:
		if wait := latest.IssuedAt.Add(v.cfg.ResendCooldown).Sub(v.now()); wait > 0 {
			v.logger.Info("Verification service: resend inside cooldown",
				"account_id", accountID,
				"retry_after", wait.String())
			return model.IssuedVerification{}, &model.ResendCooldownError{RetryAfter: wait}
		}
	}

	return v.Issue(ctx, account)
}

// Confirm consumes the token and marks its account verified.
func (v *Verification) Confirm(ctx context.Context, token string) (account model.Account, err error) {
	ctx, span := tracer.Start(ctx, "Verification.Confirm")
	defer func() { finish(span, err) }()

	if token == "" {
		obs.RecordVerification("not_found")
		return model.Account{}, model.ErrTokenNotFound
	}
	hash := hashToken(token)

	return do(&v.inflight, "confirm:"+base64.RawURLEncoding.EncodeToString(hash), func() (model.Account, error) {
		return v.confirm(ctx, hash)
	})
}

func (v *Verification) confirm(ctx context.Context, hash []byte) (model.Account, error) {
	stored, err := v.tokenStore.Find(ctx, hash)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			obs.RecordVerification("not_found")
			return model.Account{}, model.ErrTokenNotFound
		}
		return model.Account{}, fmt.Errorf("failed to find verification token: %w", err)
	}
	if !stored.Outstanding() {
		obs.RecordVerification("not_found")
		return model.Account{}, model.ErrTokenNotFound
	}

	now := v.now()
	if stored.Expired(now) {
		obs.RecordVerification("expired")
		return model.Account{}, model.ErrTokenExpired
	}

	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}

	// A resend may supersede the token after Find; only the caller that
	// consumes it verifies the account.
	if err := v.tokenStore.Consume(ctx, hash, now); err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			obs.RecordVerification("not_found")
			return model.Account{}, err
		}
		return model.Account{}, fmt.Errorf("failed to consume verification token: %w", err)
	}

	account, err := v.accountStore.MarkVerified(ctx, stored.AccountID, now)
	if err != nil {
		v.logger.Error("Verification service: failed to mark account verified",
			"account_id", stored.AccountID,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to mark account verified: %w", err)
	}

	v.logger.Info("Verification service: email verified",
		"account_id", account.ID)
	obs.RecordVerification("verified")

	return account, nil
}

func (v *Verification) link(token string) (string, error) {
	u, err := url.Parse(v.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid verification base url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func verificationEmail(account model.Account, link string, expiresAt time.Time) model.Email {
	text := fmt.Sprintf("Hi %s,\n\nconfirm your email address to continue setting up your Glowbook account:\n\n%s\n\nThe link expires at %s.\n",
		account.FirstName, link, expiresAt.UTC().Format(time.RFC1123))
	body := fmt.Sprintf(`<p>Hi %s,</p><p>confirm your email address to continue setting up your Glowbook account:</p><p><a href="%s">Verify email</a></p><p>The link expires at %s.</p>`,
		html.EscapeString(account.FirstName), html.EscapeString(link), expiresAt.UTC().Format(time.RFC1123))

	return model.Email{
		To:      account.Email,
		Subject: "Verify your Glowbook email",
		Text:    text,
		HTML:    body,
	}
}

func randomToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}
