package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/mocks"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/testutil"
)

var testVerificationConfig = config.Verification{
	TTL:            24 * time.Hour,
	ResendCooldown: time.Minute,
	BaseURL:        "https://glowbook.test/verify-email",
}

type verificationFixture struct {
	accounts *mocks.AccountStore
	tokens   *mocks.VerificationTokenStore
	mailer   *mocks.Mailer
	clock    *testutil.Clock
	svc      *Verification
}

func newVerificationFixture(t *testing.T) verificationFixture {
	f := verificationFixture{
		accounts: mocks.NewAccountStore(t),
		tokens:   mocks.NewVerificationTokenStore(t),
		mailer:   mocks.NewMailer(t),
		clock:    testutil.NewClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.svc = NewVerification(f.accounts, f.tokens, f.mailer, testVerificationConfig, testutil.MakeNoopLogger())
	f.svc.now = f.clock.Now
	f.svc.newToken = func() (string, error) { return "raw-token", nil }
	return f
}

func TestVerification_Issue(t *testing.T) {
	f := newVerificationFixture(t)
	account := model.Account{ID: uuid.New(), Email: "a@b.com", FirstName: "A"}

	f.tokens.On("Issue", mock.Anything, mock.MatchedBy(func(tok model.VerificationToken) bool {
		return tok.AccountID == account.ID &&
			string(tok.TokenHash) == string(hashToken("raw-token")) &&
			tok.ExpiresAt.Equal(f.clock.Now().Add(24*time.Hour))
	})).Return(nil).Once()

	var sent model.Email
	f.mailer.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(model.Email) }).
		Return(model.DeliveryReceipt{MessageID: "msg-1"}, nil).Once()

	issued, err := f.svc.Issue(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, account.ID, issued.AccountID)
	assert.Equal(t, "msg-1", issued.MessageID)

	assert.Equal(t, "a@b.com", sent.To)
	assert.Contains(t, sent.Text, "https://glowbook.test/verify-email?token=raw-token")
	assert.NotContains(t, sent.Text, string(hashToken("raw-token")))
}

func TestVerificationEmail_EscapesHTML(t *testing.T) {
	account := model.Account{Email: "a@b.com", FirstName: "<b>Ada</b>"}
	email := verificationEmail(account, "https://glowbook.test/verify-email?token=a&b", time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC))

	assert.Contains(t, email.HTML, "Hi &lt;b&gt;Ada&lt;/b&gt;,")
	assert.Contains(t, email.HTML, `href="https://glowbook.test/verify-email?token=a&amp;b"`)
	assert.Contains(t, email.Text, "Hi <b>Ada</b>,")
}

func TestVerification_Issue_MailerFailure(t *testing.T) {
	f := newVerificationFixture(t)

	f.tokens.On("Issue", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(model.DeliveryReceipt{}, errors.New("550 mailbox unavailable"))

	_, err := f.svc.Issue(context.Background(), model.Account{ID: uuid.New(), Email: "a@b.com"})
	require.ErrorIs(t, err, model.ErrEmailDeliveryFailed)
	assert.Contains(t, err.Error(), "550")
}

func TestVerification_Request(t *testing.T) {
	id := uuid.New()

	t.Run("already verified", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.accounts.On("GetByID", mock.Anything, id).Return(model.Account{ID: id, EmailVerified: true}, nil)

		_, err := f.svc.Request(context.Background(), id)
		require.ErrorIs(t, err, model.ErrAlreadyVerified)
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.accounts.On("GetByID", mock.Anything, id).Return(model.Account{}, model.ErrNotFound)

		_, err := f.svc.Request(context.Background(), id)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("inside cooldown", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.accounts.On("GetByID", mock.Anything, id).Return(model.Account{ID: id}, nil)
		f.tokens.On("Latest", mock.Anything, id).Return(model.VerificationToken{IssuedAt: f.clock.Now().Add(-20 * time.Second)}, nil)

		_, err := f.svc.Request(context.Background(), id)
		require.ErrorIs(t, err, model.ErrResendTooSoon)

		var cerr *model.ResendCooldownError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, 40*time.Second, cerr.RetryAfter)
	})

	t.Run("after cooldown", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.accounts.On("GetByID", mock.Anything, id).Return(model.Account{ID: id, Email: "a@b.com"}, nil)
		f.tokens.On("Latest", mock.Anything, id).Return(model.VerificationToken{IssuedAt: f.clock.Now().Add(-2 * time.Minute)}, nil)
		f.tokens.On("Issue", mock.Anything, mock.Anything).Return(nil).Once()
		f.mailer.On("Send", mock.Anything, mock.Anything).Return(model.DeliveryReceipt{MessageID: "m2"}, nil).Once()

		issued, err := f.svc.Request(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "m2", issued.MessageID)
	})

	t.Run("no earlier token", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.accounts.On("GetByID", mock.Anything, id).Return(model.Account{ID: id, Email: "a@b.com"}, nil)
		f.tokens.On("Latest", mock.Anything, id).Return(model.VerificationToken{}, model.ErrNotFound)
		f.tokens.On("Issue", mock.Anything, mock.Anything).Return(nil).Once()
		f.mailer.On("Send", mock.Anything, mock.Anything).Return(model.DeliveryReceipt{}, nil).Once()

		_, err := f.svc.Request(context.Background(), id)
		require.NoError(t, err)
	})
}

func TestVerification_Confirm(t *testing.T) {
	accountID := uuid.New()
	hash := hashToken("raw-token")

	t.Run("empty token", func(t *testing.T) {
		f := newVerificationFixture(t)
		_, err := f.svc.Confirm(context.Background(), "")
		require.ErrorIs(t, err, model.ErrTokenNotFound)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.tokens.On("Find", mock.Anything, hash).Return(model.VerificationToken{}, model.ErrNotFound)

		_, err := f.svc.Confirm(context.Background(), "raw-token")
		require.ErrorIs(t, err, model.ErrTokenNotFound)
	})

	t.Run("consumed token", func(t *testing.T) {
		f := newVerificationFixture(t)
		used := f.clock.Now().Add(-time.Minute)
		f.tokens.On("Find", mock.Anything, hash).Return(model.VerificationToken{AccountID: accountID, ConsumedAt: &used, ExpiresAt: f.clock.Now().Add(time.Hour)}, nil)

		_, err := f.svc.Confirm(context.Background(), "raw-token")
		require.ErrorIs(t, err, model.ErrTokenNotFound)
	})

	t.Run("superseded token", func(t *testing.T) {
		f := newVerificationFixture(t)
		at := f.clock.Now().Add(-time.Minute)
		f.tokens.On("Find", mock.Anything, hash).Return(model.VerificationToken{AccountID: accountID, SupersededAt: &at, ExpiresAt: f.clock.Now().Add(time.Hour)}, nil)

		_, err := f.svc.Confirm(context.Background(), "raw-token")
		require.ErrorIs(t, err, model.ErrTokenNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.tokens.On("Find", mock.Anything, hash).Return(model.VerificationToken{AccountID: accountID, ExpiresAt: f.clock.Now().Add(-time.Second)}, nil)

		_, err := f.svc.Confirm(context.Background(), "raw-token")
		require.ErrorIs(t, err, model.ErrTokenExpired)
	})

	t.Run("success", func(t *testing.T) {
		f := newVerificationFixture(t)
		now := f.clock.Now()
		var calls []string
		f.tokens.On("Find", mock.Anything, hash).Return(model.VerificationToken{AccountID: accountID, ExpiresAt: now.Add(time.Hour)}, nil)
		f.tokens.On("Consume", mock.Anything, hash, now).
			Run(func(mock.Arguments) { calls = append(calls, "consume") }).
			Return(nil).Once()
		f.accounts.On("MarkVerified", mock.Anything, accountID, now).
			Run(func(mock.Arguments) { calls = append(calls, "verify") }).
			Return(model.Account{ID: accountID, EmailVerified: true}, nil).Once()

		account, err := f.svc.Confirm(context.Background(), "raw-token")
		require.NoError(t, err)
		assert.True(t, account.EmailVerified)
		assert.Equal(t, []string{"consume", "verify"}, calls)
	})

	t.Run("superseded before consume", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.tokens.On("Find", mock.Anything, hash).Return(model.VerificationToken{AccountID: accountID, ExpiresAt: f.clock.Now().Add(time.Hour)}, nil)
		f.tokens.On("Consume", mock.Anything, hash, mock.Anything).Return(model.ErrTokenNotFound)

		_, err := f.svc.Confirm(context.Background(), "raw-token")
		require.ErrorIs(t, err, model.ErrTokenNotFound)
		f.accounts.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled before commit", func(t *testing.T) {
		f := newVerificationFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		f.tokens.On("Find", mock.Anything, hash).
			Run(func(mock.Arguments) { cancel() }).
			Return(model.VerificationToken{AccountID: accountID, ExpiresAt: f.clock.Now().Add(time.Hour)}, nil)

		_, err := f.svc.Confirm(ctx, "raw-token")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestVerification_Link(t *testing.T) {
	f := newVerificationFixture(t)
	f.svc.cfg.BaseURL = "https://glowbook.test/verify?source=email"

	link, err := f.svc.link("a+b/c")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "a+b/c", u.Query().Get("token"))
	assert.Equal(t, "email", u.Query().Get("source"))
}

func TestRandomToken(t *testing.T) {
	a, err := randomToken()
	require.NoError(t, err)
	b, err := randomToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.False(t, strings.ContainsAny(a, "+/="))
}

func TestTokenSweeper_Sweep(t *testing.T) {
	tokens := mocks.NewVerificationTokenStore(t)
	clock := testutil.NewClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	s := NewTokenSweeper(tokens, time.Hour, 7*24*time.Hour, testutil.MakeNoopLogger())
	s.now = clock.Now
	cutoff := clock.Now().Add(-7 * 24 * time.Hour)

	tokens.On("DeleteExpired", mock.Anything, cutoff).Return(int64(3), nil).Once()
	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	tokens.On("DeleteExpired", mock.Anything, cutoff).Return(int64(0), errors.New("locked")).Once()
	_, err = s.Sweep(context.Background())
	require.Error(t, err)
}

func TestTokenSweeper_RunStopsOnCancel(t *testing.T) {
	tokens := mocks.NewVerificationTokenStore(t)
	s := NewTokenSweeper(tokens, 5*time.Millisecond, 0, testutil.MakeNoopLogger())
	tokens.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
