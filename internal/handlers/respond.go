package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/booking"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/lifecycle"
)

// Wire error codes. The booking UI distinguishes "no slots exist" (empty
// list, not an error) from "your slot was just taken" from "bad request".
const (
	codeSlotUnavailable   = "slot_unavailable"
	codeValidationError   = "validation_error"
	codeInvalidTransition = "invalid_transition"
	codeNotFound          = "not_found"
	codeInternal          = "internal_error"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorCode maps a core error to its wire code and HTTP status.
func errorCode(err error) (string, int) {
	switch {
	case errors.Is(err, booking.ErrSlotUnavailable):
		return codeSlotUnavailable, http.StatusConflict
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return codeInvalidTransition, http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrNotFound):
		return codeNotFound, http.StatusNotFound
	case booking.IsValidation(err):
		return codeValidationError, http.StatusBadRequest
	default:
		return codeInternal, http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code, status := errorCode(err)
	msg := ""
	if code != codeInternal {
		msg = err.Error()
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
