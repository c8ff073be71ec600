package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/biz-onboarding-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Bearer  string          `json:"Bearer,omitempty"`
	Account *domain.Account `json:"account,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// UploadsEnvelope wraps issued upload credentials.
type UploadsEnvelope struct {
	Uploads []domain.UploadCredential `json:"uploads"`
}

// BusinessEnvelope wraps a committed business profile.
type BusinessEnvelope struct {
	Success  bool                    `json:"success"`
	Business *domain.BusinessProfile `json:"business,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps a service error onto its HTTP status via the domain
// sentinels. Anything unrecognized is an upstream failure and reports 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
