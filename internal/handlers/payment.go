package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/payments"
)

type PaymentHandler struct {
	rec    *payments.Reconciler
	logger *slog.Logger
}

func NewPaymentHandler(rec *payments.Reconciler, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{rec: rec, logger: logger}
}

type callbackRequest struct {
	PaymentID string `json:"provider_payment_id"`
	Status    string `json:"provider_status"`
	Reference string `json:"appointment_reference,omitempty"`
}

// Callback receives payment gateway notifications. Gateways retry on any
// non-2xx, so every parseable payload is acknowledged with 200 even when we
// cannot act on it; 400 is reserved for payloads we could never act on.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "invalid json body"})
		return
	}
	ev := payments.CallbackEvent{
		ProviderPaymentID:    strings.TrimSpace(req.PaymentID),
		ProviderStatus:       strings.TrimSpace(req.Status),
		AppointmentReference: strings.TrimSpace(req.Reference),
	}
	if err := ev.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: err.Error()})
		return
	}

	res, err := h.rec.Apply(r.Context(), ev)
	if err != nil {
		h.logger.Error("callback reconciliation failed", "err", err, "provider_payment_id", ev.ProviderPaymentID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := "ok"
	switch {
	case res.Duplicate:
		status = "duplicate"
	case !res.Matched:
		status = "unmatched"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}
