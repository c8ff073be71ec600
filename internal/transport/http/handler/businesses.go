package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/biz-onboarding-api/internal/application/business"
	"github.com/biz-onboarding-api/internal/domain"
	"github.com/biz-onboarding-api/internal/pkg/validate"
	"github.com/biz-onboarding-api/internal/transport/http/middleware"
)

// BusinessHandler commits and serves business profiles.
type BusinessHandler struct {
	svc business.Service
}

func NewBusinessHandler(svc business.Service) *BusinessHandler {
	return &BusinessHandler{svc: svc}
}

// Create commits the profile for the owner named in the URL. Only the owner
// themselves may commit; a mismatched token is forbidden, not unauthorized.
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ownerID := chi.URLParam(r, "id")
	if claims.AccountID != ownerID {
		writeError(w, http.StatusForbidden, "cannot create a business for another account")
		return
	}
	var req domain.CreateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := h.svc.Create(r.Context(), ownerID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, BusinessEnvelope{Success: true, Business: b})
}

func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BusinessEnvelope{Success: true, Business: b})
}

// GetOwn returns the caller's business, if any.
func (h *BusinessHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	b, err := h.svc.GetByOwner(r.Context(), claims.AccountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BusinessEnvelope{Success: true, Business: b})
}
