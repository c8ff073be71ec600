package handler

import (
	"encoding/json"
	"net/http"

	"github.com/biz-onboarding-api/internal/application/signup"
	"github.com/biz-onboarding-api/internal/domain"
	"github.com/biz-onboarding-api/internal/pkg/validate"
)

// AccountHandler handles registration and OTP verification.
type AccountHandler struct {
	svc signup.Service
}

func NewAccountHandler(svc signup.Service) *AccountHandler { return &AccountHandler{svc: svc} }

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Register(r.Context(), req); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{
		Success: true,
		Message: "verification code sent to " + req.Email,
	})
}

func (h *AccountHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		// A wrong code and an unknown email report the same failure.
		writeJSON(w, http.StatusBadRequest, MessageEnvelope{Success: false, Error: "invalid otp or email"})
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "account verified"})
}
