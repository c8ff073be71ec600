package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/biz-onboarding-api/internal/application/business"
	"github.com/biz-onboarding-api/internal/application/signup"
	"github.com/biz-onboarding-api/internal/application/upload"
	"github.com/biz-onboarding-api/internal/config"
	"github.com/biz-onboarding-api/internal/infrastructure/dynamo"
	"github.com/biz-onboarding-api/internal/infrastructure/google"
	jwtinfra "github.com/biz-onboarding-api/internal/infrastructure/jwt"
	s3infra "github.com/biz-onboarding-api/internal/infrastructure/s3"
	"github.com/biz-onboarding-api/internal/infrastructure/smtp"
	"github.com/biz-onboarding-api/internal/infrastructure/sns"
	"github.com/biz-onboarding-api/internal/transport/http/handler"
	appmiddleware "github.com/biz-onboarding-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo    *dynamo.AccountRepo
	BusinessRepo   *dynamo.BusinessRepo
	S3Store        *s3infra.Store
	Mailer         smtp.Mailer
	SMSSender      sns.SMSSender
	JWTProvider    *jwtinfra.Provider
	GoogleVerifier *google.Verifier
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	signupDeps := signup.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Mailer:      deps.Mailer,
		AppName:     cfg.AppName,
		OTPValidity: cfg.OTPValidity,
		CancelDelay: cfg.SignupCancelDelay,
	}
	// Assign optional collaborators only when present so the service sees a
	// nil interface, not a typed nil pointer.
	if deps.SMSSender != nil {
		signupDeps.SMSSender = deps.SMSSender
	}
	if deps.JWTProvider != nil {
		signupDeps.JWTProvider = deps.JWTProvider
	}
	if deps.GoogleVerifier != nil {
		signupDeps.GoogleVerifier = deps.GoogleVerifier
	}
	signupSvc := signup.NewService(signupDeps)
	uploadSvc := upload.NewService(deps.S3Store, cfg.UploadURLTTL)
	businessSvc := business.NewService(business.ServiceDeps{
		BusinessRepo: deps.BusinessRepo,
		AccountRepo:  deps.AccountRepo,
	})

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(signupSvc)
	sessionH := handler.NewSessionHandler(signupSvc)
	uploadH := handler.NewUploadHandler(uploadSvc)
	businessH := handler.NewBusinessHandler(businessSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/accounts", accountH.Register)
		r.With(sensitiveRL.Limit).Post("/accounts/verify-otp", accountH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/sessions/google", sessionH.GoogleLogin)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/uploads/credentials", uploadH.IssueCredentials)
			r.Post("/accounts/{id}/business", businessH.Create)
			r.Get("/businesses/me", businessH.GetOwn)
			r.Get("/businesses/{id}", businessH.Get)
		})
	})

	return r
}
