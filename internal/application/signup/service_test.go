package signup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/biz-onboarding-api/internal/domain"
	"github.com/biz-onboarding-api/internal/infrastructure/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) GetByEmailAndOTP(ctx context.Context, email, otp string) (*domain.Account, error) {
	args := m.Called(ctx, email, otp)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) Put(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAccountStore) MarkVerified(ctx context.Context, accountID string) error {
	return m.Called(ctx, accountID).Error(0)
}
func (m *mockAccountStore) Delete(ctx context.Context, accountID string) error {
	return m.Called(ctx, accountID).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, text, html string) error {
	return m.Called(to, subject, text, html).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(accountID, email string) (string, error) {
	args := m.Called(accountID, email)
	return args.String(0), args.Error(1)
}

type mockGoogleVerifier struct{ mock.Mock }

func (m *mockGoogleVerifier) Verify(ctx context.Context, token string) (*google.Payload, error) {
	args := m.Called(ctx, token)
	if p, _ := args.Get(0).(*google.Payload); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func newService(as *mockAccountStore, ml *mockMailer, signer *mockSigner, gv *mockGoogleVerifier) Service {
	return NewService(ServiceDeps{
		AccountRepo:    as,
		Mailer:         ml,
		JWTProvider:    signer,
		GoogleVerifier: gv,
		AppName:        "Acme",
		OTPValidity:    15 * time.Minute,
		// Long enough that the scheduled sweep never fires inside a test.
		CancelDelay: time.Hour,
	})
}

func baseReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Name:     "Alice",
		Email:    "a@b.com",
		Password: "password123",
	}
}

// --- Register tests ---

func TestRegister_EmailConflict(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.Account{}, nil)

	svc := newService(as, nil, nil, nil)
	err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	as.AssertExpectations(t)
}

func TestRegister_HappyPath(t *testing.T) {
	as := &mockAccountStore{}
	ml := &mockMailer{}
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	var stored *domain.Account
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Account) }).
		Return(nil)
	ml.On("SendEmail", "a@b.com", "Your verification code", mock.Anything, mock.Anything).Return(nil)

	svc := newService(as, ml, nil, nil)
	err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.OTP, 6)
	assert.False(t, stored.Verified)
	assert.Equal(t, "local", stored.AuthProvider)
	assert.Greater(t, stored.ExpiresAt, time.Now().Unix())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
	as.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestRegister_EmailContainsCode(t *testing.T) {
	as := &mockAccountStore{}
	ml := &mockMailer{}
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	var stored *domain.Account
	as.On("Put", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Account) }).
		Return(nil)
	var text string
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { text = args.String(2) }).
		Return(nil)

	svc := newService(as, ml, nil, nil)
	require.NoError(t, svc.Register(context.Background(), baseReq()))

	require.NotNil(t, stored)
	assert.Contains(t, text, stored.OTP)
	assert.Contains(t, text, "15 minutes")
}

func TestRegister_MailFailureRollsBackPendingAccount(t *testing.T) {
	as := &mockAccountStore{}
	ml := &mockMailer{}
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	var stored *domain.Account
	as.On("Put", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Account) }).
		Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))
	as.On("Delete", mock.Anything, mock.MatchedBy(func(id string) bool {
		return stored != nil && id == stored.AccountID
	})).Return(nil)

	svc := newService(as, ml, nil, nil)
	err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "send verification email"))
	as.AssertExpectations(t)
}

func TestRegister_StoreErrorIsNotAbsence(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, errors.New("dynamo unavailable"))

	svc := newService(as, &mockMailer{}, nil, nil)
	err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConflict))
	as.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- VerifyOTP tests ---

func TestVerifyOTP_HappyPath(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmailAndOTP", mock.Anything, "a@b.com", "482913").
		Return(&domain.Account{AccountID: "acc1", Email: "a@b.com", OTP: "482913"}, nil)
	as.On("MarkVerified", mock.Anything, "acc1").Return(nil)

	svc := newService(as, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), "a@b.com", "482913")

	require.NoError(t, err)
	as.AssertExpectations(t)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmailAndOTP", mock.Anything, "a@b.com", "000000").
		Return(nil, domain.ErrNotFound)

	svc := newService(as, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), "a@b.com", "000000")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerifyOTP_AccountSweptBetweenLookupAndWrite(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmailAndOTP", mock.Anything, "a@b.com", "482913").
		Return(&domain.Account{AccountID: "acc1", Email: "a@b.com", OTP: "482913"}, nil)
	// The sweep deleted the record after the lookup; the conditional write
	// refuses to recreate it.
	as.On("MarkVerified", mock.Anything, "acc1").
		Return(fmt.Errorf("account no longer pending: %w", domain.ErrNotFound))

	svc := newService(as, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), "a@b.com", "482913")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	as.AssertExpectations(t)
}

// --- SweepExpired tests ---

func TestSweepExpired_DeletesUnverifiedAndNotifies(t *testing.T) {
	as := &mockAccountStore{}
	ml := &mockMailer{}
	as.On("GetByEmail", mock.Anything, "a@b.com").
		Return(&domain.Account{AccountID: "acc1", Name: "Alice", Email: "a@b.com", Verified: false}, nil)
	as.On("Delete", mock.Anything, "acc1").Return(nil)
	ml.On("SendEmail", "a@b.com", "Signup expired", mock.Anything, mock.Anything).Return(nil)

	svc := newService(as, ml, nil, nil)
	svc.SweepExpired(context.Background(), "a@b.com")

	as.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestSweepExpired_NoOpWhenVerificationWonTheRace(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "a@b.com").
		Return(&domain.Account{AccountID: "acc1", Verified: true}, nil)

	svc := newService(as, &mockMailer{}, nil, nil)
	svc.SweepExpired(context.Background(), "a@b.com")

	as.AssertExpectations(t)
	as.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSweepExpired_NoOpWhenRecordGone(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	svc := newService(as, &mockMailer{}, nil, nil)
	svc.SweepExpired(context.Background(), "a@b.com")

	as.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// --- Login tests ---

func verifiedAccount(t *testing.T) *domain.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.Account{
		AccountID:    "acc1",
		Email:        "a@b.com",
		PasswordHash: string(hash),
		Verified:     true,
	}
}

func TestLogin_HappyPath(t *testing.T) {
	as := &mockAccountStore{}
	signer := &mockSigner{}
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(verifiedAccount(t), nil)
	signer.On("Sign", "acc1", "a@b.com").Return("token123", nil)

	svc := newService(as, nil, signer, nil)
	bearer, a, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "token123", bearer)
	assert.Equal(t, "acc1", a.AccountID)
}

func TestLogin_UnverifiedAccountRejected(t *testing.T) {
	as := &mockAccountStore{}
	a := verifiedAccount(t)
	a.Verified = false
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(a, nil)

	svc := newService(as, nil, &mockSigner{}, nil)
	_, _, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "password123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_WrongPassword(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(verifiedAccount(t), nil)

	svc := newService(as, nil, &mockSigner{}, nil)
	_, _, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "nope-nope"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

// --- Google login tests ---

func TestLoginWithGoogle_ProvisionsVerifiedAccount(t *testing.T) {
	as := &mockAccountStore{}
	gv := &mockGoogleVerifier{}
	signer := &mockSigner{}
	gv.On("Verify", mock.Anything, "idtok").Return(&google.Payload{
		Sub: "g-sub", Email: "a@b.com", EmailVerified: true, Name: "Alice",
	}, nil)
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	var stored *domain.Account
	as.On("Put", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Account) }).
		Return(nil)
	signer.On("Sign", mock.Anything, "a@b.com").Return("token123", nil)

	svc := newService(as, nil, signer, gv)
	bearer, a, err := svc.LoginWithGoogle(context.Background(), "idtok")

	require.NoError(t, err)
	assert.Equal(t, "token123", bearer)
	require.NotNil(t, stored)
	assert.True(t, stored.Verified)
	assert.Equal(t, "google", stored.AuthProvider)
	assert.Equal(t, "g-sub", stored.GoogleSub)
	assert.Equal(t, stored.AccountID, a.AccountID)
}

func TestLoginWithGoogle_UnverifiedEmailRejected(t *testing.T) {
	gv := &mockGoogleVerifier{}
	gv.On("Verify", mock.Anything, "idtok").Return(&google.Payload{
		Sub: "g-sub", Email: "a@b.com", EmailVerified: false,
	}, nil)

	svc := newService(&mockAccountStore{}, nil, &mockSigner{}, gv)
	_, _, err := svc.LoginWithGoogle(context.Background(), "idtok")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

// --- OTP generation ---

func TestGenerateOTP_SixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
