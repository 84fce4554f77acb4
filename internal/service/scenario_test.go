package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/glowbook-server/internal/auth"
	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/mocks"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/repository/sqlite"
	"github.com/dtroode/glowbook-server/internal/testutil"
	"github.com/dtroode/glowbook-server/internal/token"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []model.Email
}

func (m *recordingMailer) Send(_ context.Context, email model.Email) (model.DeliveryReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return model.DeliveryReceipt{MessageID: fmt.Sprintf("msg-%d", len(m.sent))}, nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// onboarding wires every service over a real SQLite database.
type onboarding struct {
	clock        *testutil.Clock
	mailer       *recordingMailer
	signup       *Signup
	verification *Verification
	sessions     *Sessions
	profile      *Profile
	documents    *Documents
	sweeper      *TokenSweeper
	accounts     model.AccountStore
	drafts       model.ProfileDraftStore
	docStore     model.DocumentStore
	sessionStore model.SessionStore
}

func newOnboarding(t *testing.T) *onboarding {
	t.Helper()

	conn, err := sqlite.NewConnection(context.Background(), filepath.Join(t.TempDir(), "onboarding.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	log := testutil.MakeNoopLogger()
	accounts := sqlite.NewAccountRepository(conn)
	tokens := sqlite.NewVerificationTokenRepository(conn)
	drafts := sqlite.NewProfileDraftRepository(conn)
	docStore := sqlite.NewDocumentRepository(conn)
	sessionStore := sqlite.NewSessionRepository(conn)
	hasher := auth.NewBcrypt(4)

	storage := mocks.NewStorage(t)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	o := &onboarding{
		clock:        testutil.NewClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)),
		mailer:       &recordingMailer{},
		accounts:     accounts,
		drafts:       drafts,
		docStore:     docStore,
		sessionStore: sessionStore,
	}

	o.verification = NewVerification(accounts, tokens, o.mailer, config.Verification{
		TTL:            24 * time.Hour,
		ResendCooldown: time.Minute,
		BaseURL:        "http://localhost:3000/verify-email",
	}, log)
	o.verification.now = o.clock.Now
	var seq int
	o.verification.newToken = func() (string, error) {
		seq++
		return fmt.Sprintf("token-%d", seq), nil
	}

	o.sessions = NewSessions(accounts, sessionStore, token.NewJWT("test-secret", 15*time.Minute, 720*time.Hour), hasher, log)
	o.signup = NewSignup(accounts, hasher, o.verification, log)
	o.profile = NewProfile(accounts, drafts, docStore, o.sessions, log)
	o.profile.now = o.clock.Now
	o.documents = NewDocuments(accounts, docStore, drafts, storage, 1024, log)
	o.documents.now = o.clock.Now
	o.sweeper = NewTokenSweeper(tokens, time.Hour, 7*24*time.Hour, log)
	o.sweeper.now = o.clock.Now

	return o
}

func (o *onboarding) upload(t *testing.T, accountID uuid.UUID, kind model.DocumentKind, category string) model.Document {
	t.Helper()
	doc, err := o.documents.Upload(context.Background(), model.UploadRequest{
		AccountID:   accountID,
		Kind:        kind,
		Category:    category,
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	require.NoError(t, err)
	return doc
}

func (o *onboarding) register(t *testing.T, email string, role model.Role) model.SignupResult {
	t.Helper()
	res, err := o.signup.Register(context.Background(), model.SignupRequest{
		Email:           email,
		Password:        "password1",
		ConfirmPassword: "password1",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Role:            string(role),
	})
	require.NoError(t, err)
	return res
}

func TestOnboarding_ClientSkip(t *testing.T) {
	ctx := context.Background()
	o := newOnboarding(t)

	res := o.register(t, "a@b.com", model.RoleClient)
	assert.False(t, res.Account.EmailVerified)
	require.Equal(t, 1, o.mailer.count())
	assert.Equal(t, "a@b.com", o.mailer.sent[0].To)
	assert.Contains(t, o.mailer.sent[0].Text, "token=token-1")

	_, err := o.profile.Skip(ctx, res.Account.ID)
	require.ErrorIs(t, err, model.ErrNotVerified)

	account, err := o.verification.Confirm(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, account.EmailVerified)

	_, err = o.verification.Confirm(ctx, "token-1")
	require.ErrorIs(t, err, model.ErrTokenNotFound)

	done, err := o.profile.Skip(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.True(t, done.Account.ProfileComplete)
	assert.NotEmpty(t, done.Session.AccessToken)

	stored, err := o.sessionStore.GetByAccount(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Session.Session.ID, stored.ID)
	assert.True(t, stored.Account.ProfileComplete)

	_, err = o.profile.Skip(ctx, res.Account.ID)
	require.ErrorIs(t, err, model.ErrProfileAlreadyComplete)
}

func TestOnboarding_ExpiredToken(t *testing.T) {
	o := newOnboarding(t)
	o.register(t, "late@b.com", model.RoleClient)

	o.clock.Advance(25 * time.Hour)

	_, err := o.verification.Confirm(context.Background(), "token-1")
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestOnboarding_ExpiredTokenAfterSweep(t *testing.T) {
	ctx := context.Background()
	o := newOnboarding(t)
	o.register(t, "late@b.com", model.RoleClient)

	o.clock.Advance(25 * time.Hour)
	swept, err := o.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)

	_, err = o.verification.Confirm(ctx, "token-1")
	require.ErrorIs(t, err, model.ErrTokenExpired)

	o.clock.Advance(8 * 24 * time.Hour)
	swept, err = o.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)
}

func TestOnboarding_ResendSupersedes(t *testing.T) {
	ctx := context.Background()
	o := newOnboarding(t)
	res := o.register(t, "a@b.com", model.RoleServiceProvider)

	_, err := o.verification.Request(ctx, res.Account.ID)
	require.ErrorIs(t, err, model.ErrResendTooSoon)
	assert.Equal(t, 1, o.mailer.count())

	o.clock.Advance(61 * time.Second)
	_, err = o.verification.Request(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, o.mailer.count())

	_, err = o.verification.Confirm(ctx, "token-1")
	require.ErrorIs(t, err, model.ErrTokenNotFound)

	_, err = o.verification.Confirm(ctx, "token-2")
	require.NoError(t, err)

	_, err = o.verification.Request(ctx, res.Account.ID)
	require.ErrorIs(t, err, model.ErrAlreadyVerified)
}

func TestOnboarding_VendorWizard(t *testing.T) {
	ctx := context.Background()
	o := newOnboarding(t)
	res := o.register(t, "shop@b.com", model.RoleVendor)
	_, err := o.verification.Confirm(ctx, "token-1")
	require.NoError(t, err)
	id := res.Account.ID

	_, err = o.profile.Skip(ctx, id)
	require.ErrorIs(t, err, model.ErrSkipNotAllowed)

	data := &model.VendorProfile{BusinessName: "Glow Supply", Phone: "+1 555 010 2030", ServiceArea: "Austin"}
	draft, err := o.profile.Advance(ctx, id, "business", data)
	require.NoError(t, err)
	require.Equal(t, 1, draft.Step)

	draft, err = o.profile.Advance(ctx, id, "categories", data)
	require.ErrorIs(t, err, model.ErrIncompleteStep)
	assert.Equal(t, 1, draft.Step)

	data.Categories = []string{"nails"}
	draft, err = o.profile.Back(ctx, id, "categories", data)
	require.NoError(t, err)
	assert.Equal(t, 0, draft.Step)

	draft, err = o.profile.Draft(ctx, id)
	require.NoError(t, err)
	kept := draft.Data.(*model.VendorProfile)
	assert.Equal(t, "Glow Supply", kept.BusinessName)
	assert.Equal(t, []string{"nails"}, kept.Categories)

	_, err = o.profile.Submit(ctx, id, model.RoleVendor, completeVendor())
	require.ErrorIs(t, err, model.ErrStepNotReached)

	for _, step := range []string{"business", "categories"} {
		_, err = o.profile.Advance(ctx, id, step, nil)
		require.NoError(t, err)
	}
	data.CategoryPhotos = map[string][]string{"nails": {"photo-1"}}
	_, err = o.profile.Advance(ctx, id, "portfolio", data)
	require.ErrorIs(t, err, model.ErrIncompleteStep, "photo ids sent by the caller are ignored")

	photo := o.upload(t, id, model.DocumentPortfolioPhoto, "nails")
	_, err = o.profile.Advance(ctx, id, "portfolio", data)
	require.NoError(t, err)

	identity := o.upload(t, id, model.DocumentIdentity, "")
	forged := completeVendor()
	_, err = o.profile.Submit(ctx, id, model.RoleVendor, forged)
	require.ErrorIs(t, err, model.ErrIncompleteStep)

	proof := o.upload(t, id, model.DocumentBusinessProof, "")
	done, err := o.profile.Submit(ctx, id, model.RoleVendor, forged)
	require.NoError(t, err)
	assert.True(t, done.Account.ProfileComplete)
	assert.NotEmpty(t, done.Session.RefreshToken)

	account, err := o.accounts.GetByID(ctx, id)
	require.NoError(t, err)
	committed := account.Profile.(*model.VendorProfile)
	assert.Equal(t, identity.ID.String(), committed.IdentityDocumentID)
	assert.Equal(t, proof.ID.String(), committed.BusinessProofDocumentID)
	assert.Equal(t, []string{photo.ID.String()}, committed.CategoryPhotos["nails"])

	_, err = o.profile.Draft(ctx, id)
	require.ErrorIs(t, err, model.ErrProfileAlreadyComplete)
}

func TestOnboarding_SecondSessionReplacesFirst(t *testing.T) {
	ctx := context.Background()
	o := newOnboarding(t)
	res := o.register(t, "a@b.com", model.RoleClient)
	account, err := o.verification.Confirm(ctx, "token-1")
	require.NoError(t, err)

	first, err := o.sessions.Establish(ctx, account)
	require.NoError(t, err)
	second, err := o.sessions.Establish(ctx, account)
	require.NoError(t, err)

	_, err = o.sessions.Authenticate(ctx, first.AccessToken)
	require.ErrorIs(t, err, model.ErrTokenRevoked)

	current, err := o.sessions.Authenticate(ctx, second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.Account.ID, current.AccountID)

	_, err = o.sessions.Login(ctx, "a@b.com", "wrong-password")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	relogged, err := o.sessions.Login(ctx, "A@B.com", "password1")
	require.NoError(t, err)
	assert.NotEqual(t, second.Session.ID, relogged.Session.ID)
}

func TestOnboarding_ConcurrentCompletion(t *testing.T) {
	ctx := context.Background()
	o := newOnboarding(t)
	res := o.register(t, "race@b.com", model.RoleClient)
	_, err := o.verification.Confirm(ctx, "token-1")
	require.NoError(t, err)
	id := res.Account.ID

	var (
		wg      sync.WaitGroup
		results [2]model.CompletionResult
		errs    [2]error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], errs[0] = o.profile.Submit(ctx, id, model.RoleClient, &model.ClientProfile{Location: "Austin"})
	}()
	go func() {
		defer wg.Done()
		results[1], errs[1] = o.profile.Skip(ctx, id)
	}()
	wg.Wait()

	require.False(t, errs[0] != nil && errs[1] != nil, "one completion must commit")

	stored, err := o.sessionStore.GetByAccount(ctx, id)
	require.NoError(t, err)
	for i, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, model.ErrProfileAlreadyComplete)
			continue
		}
		assert.Equal(t, stored.ID, results[i].Session.Session.ID, "every successful caller sees the one established session")
	}
}

// staleAccounts serves an account snapshot taken before another instance completed it.
type staleAccounts struct {
	model.AccountStore
	snapshot model.Account
}

func (s staleAccounts) GetByID(context.Context, uuid.UUID) (model.Account, error) {
	return s.snapshot, nil
}

func TestOnboarding_CompletionOnStaleRead(t *testing.T) {
	ctx := context.Background()
	o := newOnboarding(t)
	res := o.register(t, "stale@b.com", model.RoleClient)
	verified, err := o.verification.Confirm(ctx, "token-1")
	require.NoError(t, err)

	done, err := o.profile.Submit(ctx, verified.ID, model.RoleClient, &model.ClientProfile{Location: "Austin"})
	require.NoError(t, err)

	other := NewProfile(staleAccounts{AccountStore: o.accounts, snapshot: verified}, o.drafts, o.docStore, o.sessions, testutil.MakeNoopLogger())
	_, err = other.Skip(ctx, res.Account.ID)
	require.ErrorIs(t, err, model.ErrProfileAlreadyComplete)

	account, err := o.accounts.GetByID(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, &model.ClientProfile{Location: "Austin"}, account.Profile)

	stored, err := o.sessionStore.GetByAccount(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Session.Session.ID, stored.ID)
}
