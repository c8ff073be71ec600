package signup

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/biz-onboarding-api/internal/domain"
	"github.com/biz-onboarding-api/internal/infrastructure/google"
	"github.com/biz-onboarding-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Register creates a pending account, emails the OTP and schedules the
	// one-shot expiry sweep. The email's advertised validity window and the
	// sweep delay are independent configuration.
	Register(ctx context.Context, req domain.RegisterRequest) error
	// VerifyOTP promotes a pending account to verified via a single combined
	// (email, otp) lookup. Exposes only success or failure.
	VerifyOTP(ctx context.Context, email, otp string) error
	// SweepExpired deletes the account for email if it is still unverified and
	// sends the expiry notification. A no-op if verification won the race or
	// the record is already gone.
	SweepExpired(ctx context.Context, email string)
	Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Account, error)
	LoginWithGoogle(ctx context.Context, idToken string) (string, *domain.Account, error)
}

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByEmailAndOTP(ctx context.Context, email, otp string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
	MarkVerified(ctx context.Context, accountID string) error
	Delete(ctx context.Context, accountID string) error
}

type mailer interface {
	SendEmail(to, subject, text, html string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type tokenSigner interface {
	Sign(accountID, email string) (string, error)
}

type googleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type service struct {
	accounts    accountStore
	mailer      mailer
	smsSender   smsSender
	signer      tokenSigner
	google      googleVerifier
	appName     string
	otpValidity time.Duration
	cancelDelay time.Duration
}

type ServiceDeps struct {
	AccountRepo    accountStore
	Mailer         mailer
	SMSSender      smsSender
	JWTProvider    tokenSigner
	GoogleVerifier googleVerifier
	AppName        string
	// OTPValidity is what the verification email tells the user; CancelDelay
	// is when the sweep actually fires. They need not agree.
	OTPValidity time.Duration
	CancelDelay time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		accounts:    deps.AccountRepo,
		mailer:      deps.Mailer,
		smsSender:   deps.SMSSender,
		signer:      deps.JWTProvider,
		google:      deps.GoogleVerifier,
		appName:     deps.AppName,
		otpValidity: deps.OTPValidity,
		cancelDelay: deps.CancelDelay,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) error {
	if _, err := s.accounts.GetByEmail(ctx, req.Email); err == nil {
		return fmt.Errorf("account already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		// A store outage is not proof of absence; creating anyway could
		// leave two records for one email.
		return fmt.Errorf("check existing account: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	otp, err := generateOTP()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	a := &domain.Account{
		AccountID:    id.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		OTP:          otp,
		Verified:     false,
		AuthProvider: "local",
		ExpiresAt:    now.Add(s.cancelDelay).Unix(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Put(ctx, a); err != nil {
		return err
	}

	text, html := otpEmail(s.appName, req.Name, otp, s.otpValidity)
	if err := s.mailer.SendEmail(req.Email, "Your verification code", text, html); err != nil {
		// Roll back the pending record: an account whose code was never
		// delivered can only ever expire.
		if delErr := s.accounts.Delete(ctx, a.AccountID); delErr != nil {
			slog.Warn("failed to roll back pending account after mail failure", "email", req.Email, "err", delErr)
		}
		return fmt.Errorf("send verification email: %w", err)
	}
	if req.Phone != nil && s.smsSender != nil {
		if err := s.smsSender.SendSMS(ctx, *req.Phone, "Your "+s.appName+" verification code: "+otp); err != nil {
			slog.Warn("failed to send verification SMS", "email", req.Email, "err", err)
		}
	}

	time.AfterFunc(s.cancelDelay, func() {
		s.SweepExpired(context.Background(), req.Email)
	})
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, otp string) error {
	a, err := s.accounts.GetByEmailAndOTP(ctx, email, otp)
	if err != nil {
		return fmt.Errorf("invalid otp or email: %w", domain.ErrNotFound)
	}
	return s.accounts.MarkVerified(ctx, a.AccountID)
}

// SweepExpired re-reads the account at fire time rather than trusting any
// snapshot taken at registration: a verification that won the race makes the
// sweep a no-op. Last observed state wins; there is no lock.
func (s *service) SweepExpired(ctx context.Context, email string) {
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil || a.Verified {
		return
	}
	if err := s.accounts.Delete(ctx, a.AccountID); err != nil {
		slog.Warn("failed to delete expired pending account", "email", email, "err", err)
		return
	}
	text, html := expiryEmail(s.appName, a.Name, s.cancelDelay)
	if err := s.mailer.SendEmail(email, "Signup expired", text, html); err != nil {
		slog.Warn("failed to send signup-expired email", "email", email, "err", err)
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Account, error) {
	if s.signer == nil {
		return "", nil, fmt.Errorf("login not configured: %w", domain.ErrUnauthorized)
	}
	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !a.Verified {
		return "", nil, fmt.Errorf("account not verified: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.signer.Sign(a.AccountID, a.Email)
	if err != nil {
		return "", nil, err
	}
	return bearer, a, nil
}

// LoginWithGoogle verifies the Google ID token and signs in the matching
// account, provisioning a verified one on first sight. Google already proved
// control of the email address, so the OTP gate is skipped.
func (s *service) LoginWithGoogle(ctx context.Context, idToken string) (string, *domain.Account, error) {
	if s.google == nil || s.signer == nil {
		return "", nil, fmt.Errorf("google login not configured: %w", domain.ErrUnauthorized)
	}
	p, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return "", nil, err
	}
	if !p.EmailVerified {
		return "", nil, fmt.Errorf("google email not verified: %w", domain.ErrUnauthorized)
	}
	a, err := s.accounts.GetByEmail(ctx, p.Email)
	if err != nil {
		now := time.Now().UTC()
		a = &domain.Account{
			AccountID:    id.New(),
			Name:         p.Name,
			Email:        p.Email,
			Verified:     true,
			AuthProvider: "google",
			GoogleSub:    p.Sub,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.accounts.Put(ctx, a); err != nil {
			return "", nil, err
		}
	}
	bearer, err := s.signer.Sign(a.AccountID, a.Email)
	if err != nil {
		return "", nil, err
	}
	return bearer, a, nil
}

// generateOTP draws a 6-digit code uniformly from 000000–999999.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func otpEmail(appName, name, otp string, validity time.Duration) (text, html string) {
	minutes := int(validity.Minutes())
	text = fmt.Sprintf("Your OTP code is %s, use it within %d minutes.", otp, minutes)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2>OTP Verification</h2>
  <p>Hello %s,</p>
  <p>Your OTP code is <strong>%s</strong>. Please use it within the next %d minutes to verify your account.</p>
  <p>If you did not request this code, please ignore this email.</p>
  <br>
  <p>Thanks,</p>
  <p>The %s Team</p>
</div>`, name, otp, minutes, appName)
	return text, html
}

func expiryEmail(appName, name string, delay time.Duration) (text, html string) {
	minutes := int(delay.Minutes())
	text = fmt.Sprintf("Hello %s, since you did not verify your email within %d minutes, your signup was canceled. Please try signing up again.", name, minutes)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2>Signup Expired</h2>
  <p>Hello %s,</p>
  <p>Since you did not verify your email within %d minutes, your signup was canceled and your data has been deleted.</p>
  <p>Please try signing up again to create your account.</p>
  <br>
  <p>Thanks,</p>
  <p>The %s Team</p>
</div>`, name, minutes, appName)
	return text, html
}
