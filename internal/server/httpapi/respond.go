package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
)

// errorResponse is the error envelope: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func success(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: message})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrTableMissing):
		return http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists), errors.Is(err, common.ErrInvalidField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error onto its status code and emits the given
// detail. Internal failures get a generic detail so nothing leaks.
func writeError(w http.ResponseWriter, err error, detail string) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		detail = "Errore interno del server"
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Richiesta non valida"})
		return false
	}
	return true
}
