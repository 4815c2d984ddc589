package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/lifecycle"
	"bibliotec-gateway/internal/logger"
	"bibliotec-gateway/internal/session"
)

// listMeta carries pagination bookkeeping on list responses.
type listMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

type listResponse struct {
	Data any      `json:"data"`
	Meta listMeta `json:"meta"`
}

// mutationResponse wraps a write result. Warnings carry partial-failure
// notes for operations that succeeded but left follow-up work undone.
type mutationResponse struct {
	Data     any      `json:"data"`
	Warnings []string `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Message: message}})
}

// respondError maps domain and upstream errors onto HTTP statuses. Lifecycle
// rejections are conflicts or validation failures, dead sessions are 401,
// permission refusals 403, and unexpected upstream failures surface as 502.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cms.ErrSessionExpired), errors.Is(err, session.ErrNoSession):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, cms.ErrPermission):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, lifecycle.ErrNoAvailability),
		errors.Is(err, lifecycle.ErrRenewalLimit),
		errors.Is(err, lifecycle.ErrNotRenewable),
		errors.Is(err, lifecycle.ErrAlreadyClosed),
		errors.Is(err, lifecycle.ErrNotLost),
		errors.Is(err, lifecycle.ErrTooManyOpenLoans):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, lifecycle.ErrDueDateInPast),
		errors.Is(err, lifecycle.ErrDueDateTooFar):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		var httpErr *cms.HTTPError
		if errors.As(err, &httpErr) {
			// Pass through client-side statuses (not found, validation);
			// everything server-side means the CMS is unhealthy.
			if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
				writeError(w, httpErr.StatusCode, httpErr.Message)
				return
			}
			writeError(w, http.StatusBadGateway, "backend unavailable")
			return
		}
		logger.Error("unhandled error in http layer", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
