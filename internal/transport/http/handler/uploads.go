package handler

import (
	"encoding/json"
	"net/http"

	"github.com/biz-onboarding-api/internal/application/upload"
	"github.com/biz-onboarding-api/internal/domain"
	"github.com/biz-onboarding-api/internal/pkg/validate"
)

// UploadHandler issues presigned write credentials for business images.
type UploadHandler struct {
	svc upload.Service
}

func NewUploadHandler(svc upload.Service) *UploadHandler { return &UploadHandler{svc: svc} }

func (h *UploadHandler) IssueCredentials(w http.ResponseWriter, r *http.Request) {
	var req domain.UploadCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	creds, err := h.svc.IssueCredentials(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadsEnvelope{Uploads: creds})
}
