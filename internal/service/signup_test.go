package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/glowbook-server/internal/mocks"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/testutil"
)

func validSignup() model.SignupRequest {
	return model.SignupRequest{
		Email:           "a@b.com",
		Password:        "longenough1",
		ConfirmPassword: "longenough1",
		FirstName:       "A",
		LastName:        "B",
		Role:            "client",
	}
}

func TestSignup_ValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.SignupRequest)
		want   error
		field  string
	}{
		{name: "invalid email", mutate: func(r *model.SignupRequest) { r.Email = "not-an-email" }, want: model.ErrInvalidEmail, field: "email"},
		{name: "email without tld", mutate: func(r *model.SignupRequest) { r.Email = "a@b" }, want: model.ErrInvalidEmail, field: "email"},
		{name: "invalid email wins over weak password", mutate: func(r *model.SignupRequest) { r.Email = "x"; r.Password = "short" }, want: model.ErrInvalidEmail, field: "email"},
		{name: "weak password", mutate: func(r *model.SignupRequest) { r.Password = "short"; r.ConfirmPassword = "short" }, want: model.ErrWeakPassword, field: "password"},
		{name: "weak password wins over mismatch", mutate: func(r *model.SignupRequest) { r.Password = "short" }, want: model.ErrWeakPassword, field: "password"},
		{name: "mismatch", mutate: func(r *model.SignupRequest) { r.ConfirmPassword = "longenough2" }, want: model.ErrPasswordMismatch, field: "confirmPassword"},
		{name: "mismatch wins over missing name", mutate: func(r *model.SignupRequest) { r.ConfirmPassword = "other-password"; r.FirstName = "" }, want: model.ErrPasswordMismatch, field: "confirmPassword"},
		{name: "missing first name", mutate: func(r *model.SignupRequest) { r.FirstName = "  " }, want: model.ErrMissingField, field: "firstName"},
		{name: "missing last name", mutate: func(r *model.SignupRequest) { r.LastName = "" }, want: model.ErrMissingField, field: "lastName"},
		{name: "missing role", mutate: func(r *model.SignupRequest) { r.Role = "" }, want: model.ErrMissingField, field: "role"},
		{name: "unknown role", mutate: func(r *model.SignupRequest) { r.Role = "admin" }, want: model.ErrInvalidRole, field: "role"},
		{name: "password longer than bcrypt accepts", mutate: func(r *model.SignupRequest) {
			long := string(make([]byte, 80))
			r.Password, r.ConfirmPassword = long, long
		}, want: model.ErrInvalidField, field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := mocks.NewAccountStore(t)
			hasher := mocks.NewPasswordHasher(t)
			issuer := mocks.NewVerificationIssuer(t)
			s := NewSignup(accounts, hasher, issuer, testutil.MakeNoopLogger())

			req := validSignup()
			tt.mutate(&req)

			_, err := s.Register(context.Background(), req)
			require.ErrorIs(t, err, tt.want)

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestSignup_Register_Success(t *testing.T) {
	accounts := mocks.NewAccountStore(t)
	hasher := mocks.NewPasswordHasher(t)
	issuer := mocks.NewVerificationIssuer(t)
	s := NewSignup(accounts, hasher, issuer, testutil.MakeNoopLogger())

	id := uuid.New()
	hasher.On("Hash", "longenough1").Return([]byte("hashed"), nil).Once()
	accounts.On("Create", mock.Anything, mock.MatchedBy(func(a model.Account) bool {
		return a.Email == "a@b.com" && string(a.PasswordHash) == "hashed" && a.Role == model.RoleClient && !a.EmailVerified
	})).Return(model.Account{ID: id, Email: "a@b.com", FirstName: "A", LastName: "B", Role: model.RoleClient}, nil).Once()
	issuer.On("Issue", mock.Anything, mock.MatchedBy(func(a model.Account) bool { return a.ID == id })).
		Return(model.IssuedVerification{AccountID: id, MessageID: "m1"}, nil).Once()

	req := validSignup()
	req.Email = "  A@B.com "
	res, err := s.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, id, res.Account.ID)
	assert.False(t, res.Account.EmailVerified)
	assert.Equal(t, "m1", res.Verification.MessageID)
}

func TestSignup_Register_DuplicateEmail(t *testing.T) {
	accounts := mocks.NewAccountStore(t)
	hasher := mocks.NewPasswordHasher(t)
	issuer := mocks.NewVerificationIssuer(t)
	s := NewSignup(accounts, hasher, issuer, testutil.MakeNoopLogger())

	hasher.On("Hash", mock.Anything).Return([]byte("hashed"), nil)
	accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrEmailAlreadyExists)

	_, err := s.Register(context.Background(), validSignup())
	require.ErrorIs(t, err, model.ErrAccountCreationFailed)
	require.ErrorIs(t, err, model.ErrEmailAlreadyExists)

	var cerr *model.CollaboratorError
	require.ErrorAs(t, err, &cerr)
}

func TestSignup_Register_EmailFailureKeepsAccount(t *testing.T) {
	accounts := mocks.NewAccountStore(t)
	hasher := mocks.NewPasswordHasher(t)
	issuer := mocks.NewVerificationIssuer(t)
	s := NewSignup(accounts, hasher, issuer, testutil.MakeNoopLogger())

	id := uuid.New()
	hasher.On("Hash", mock.Anything).Return([]byte("hashed"), nil)
	accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{ID: id, Email: "a@b.com", Role: model.RoleClient}, nil)
	issuer.On("Issue", mock.Anything, mock.Anything).Return(model.IssuedVerification{},
		&model.CollaboratorError{Kind: model.ErrEmailDeliveryFailed, Err: errors.New("smtp down")})

	res, err := s.Register(context.Background(), validSignup())
	require.ErrorIs(t, err, model.ErrEmailDeliveryFailed)
	assert.Equal(t, id, res.Account.ID)
}

func TestSignup_Register_ConcurrentDuplicatesShareExecution(t *testing.T) {
	accounts := mocks.NewAccountStore(t)
	hasher := mocks.NewPasswordHasher(t)
	issuer := mocks.NewVerificationIssuer(t)
	s := NewSignup(accounts, hasher, issuer, testutil.MakeNoopLogger())

	entered := make(chan struct{})
	release := make(chan struct{})
	id := uuid.New()

	hasher.On("Hash", mock.Anything).Return([]byte("hashed"), nil).Once()
	accounts.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(model.Account{ID: id, Email: "a@b.com", Role: model.RoleClient}, nil).Once()
	issuer.On("Issue", mock.Anything, mock.Anything).Return(model.IssuedVerification{AccountID: id}, nil).Once()

	var wg sync.WaitGroup
	results := make([]model.SignupResult, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = s.Register(context.Background(), validSignup())
	}()
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = s.Register(context.Background(), validSignup())
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
}
