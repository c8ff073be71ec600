package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biz-onboarding-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockSignupSvc struct{ mock.Mock }

func (m *mockSignupSvc) Register(ctx context.Context, req domain.RegisterRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockSignupSvc) VerifyOTP(ctx context.Context, email, otp string) error {
	return m.Called(ctx, email, otp).Error(0)
}

func (m *mockSignupSvc) SweepExpired(ctx context.Context, email string) {
	m.Called(ctx, email)
}

func (m *mockSignupSvc) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Account, error) {
	args := m.Called(ctx, req)
	if a, _ := args.Get(1).(*domain.Account); a != nil {
		return args.String(0), a, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

func (m *mockSignupSvc) LoginWithGoogle(ctx context.Context, idToken string) (string, *domain.Account, error) {
	args := m.Called(ctx, idToken)
	if a, _ := args.Get(1).(*domain.Account); a != nil {
		return args.String(0), a, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

// --- Register tests ---

func TestRegister_InvalidBody(t *testing.T) {
	h := NewAccountHandler(&mockSignupSvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_ValidationFailure(t *testing.T) {
	h := NewAccountHandler(&mockSignupSvc{})
	body, _ := json.Marshal(domain.RegisterRequest{Name: "Alice", Email: "a@b.com", Password: "short"})
	r := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(domain.ErrConflict)
	h := NewAccountHandler(svc)
	body, _ := json.Marshal(domain.RegisterRequest{Name: "Alice", Email: "a@b.com", Password: "password123"})
	r := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertExpectations(t)
}

func TestRegister_MailerFailureIs500(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(assert.AnError)
	h := NewAccountHandler(svc)
	body, _ := json.Marshal(domain.RegisterRequest{Name: "Alice", Email: "a@b.com", Password: "password123"})
	r := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRegister_HappyPath(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Register", mock.Anything, mock.MatchedBy(func(req domain.RegisterRequest) bool {
		return req.Email == "a@b.com"
	})).Return(nil)
	h := NewAccountHandler(svc)
	body, _ := json.Marshal(domain.RegisterRequest{Name: "Alice", Email: "a@b.com", Password: "password123"})
	r := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "a@b.com")
	svc.AssertExpectations(t)
}

// --- VerifyOTP tests ---

func TestVerifyOTP_HappyPath(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("VerifyOTP", mock.Anything, "a@b.com", "482913").Return(nil)
	h := NewAccountHandler(svc)
	body, _ := json.Marshal(domain.VerifyOTPRequest{Email: "a@b.com", OTP: "482913"})
	r := httptest.NewRequest(http.MethodPost, "/v1/accounts/verify-otp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.VerifyOTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	svc.AssertExpectations(t)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("VerifyOTP", mock.Anything, "a@b.com", "000000").Return(domain.ErrNotFound)
	h := NewAccountHandler(svc)
	body, _ := json.Marshal(domain.VerifyOTPRequest{Email: "a@b.com", OTP: "000000"})
	r := httptest.NewRequest(http.MethodPost, "/v1/accounts/verify-otp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.VerifyOTP(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.Success)
}

func TestVerifyOTP_MalformedCodeRejectedBeforeService(t *testing.T) {
	svc := &mockSignupSvc{}
	h := NewAccountHandler(svc)
	body, _ := json.Marshal(domain.VerifyOTPRequest{Email: "a@b.com", OTP: "12ab56"})
	r := httptest.NewRequest(http.MethodPost, "/v1/accounts/verify-otp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.VerifyOTP(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything, mock.Anything)
}

// --- Login tests ---

func TestLogin_HappyPath(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return("token123", &domain.Account{AccountID: "acc1", Email: "a@b.com", Verified: true}, nil)
	h := NewSessionHandler(svc)
	body, _ := json.Marshal(domain.LoginRequest{Email: "a@b.com", Password: "password123"})
	r := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "token123", resp.Bearer)
	assert.Equal(t, "acc1", resp.Account.AccountID)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return("", nil, domain.ErrUnauthorized)
	h := NewSessionHandler(svc)
	body, _ := json.Marshal(domain.LoginRequest{Email: "a@b.com", Password: "wrong-pass"})
	r := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGoogleLogin_InvalidToken(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("LoginWithGoogle", mock.Anything, "bad-token").Return("", nil, domain.ErrUnauthorized)
	h := NewSessionHandler(svc)
	body, _ := json.Marshal(domain.GoogleLoginRequest{IDToken: "bad-token"})
	r := httptest.NewRequest(http.MethodPost, "/v1/sessions/google", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.GoogleLogin(rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
