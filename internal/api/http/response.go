package http

import (
	"encoding/json"
	"net/http"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the workflow error taxonomy onto HTTP statuses. Conflict
// (409) is kept distinct from InvalidState (422) so clients know a re-fetch
// and single retry may help.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case domain.IsUnauthorized(err):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case domain.IsConflict(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case domain.IsInvalidState(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		logger.Error("Internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int32 `json:"total"`
}
