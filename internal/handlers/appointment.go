package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/availability"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/booking"
)

// parseDayTime combines a YYYY-MM-DD date and a wall-clock HH:MM into a
// local timestamp.
func parseDayTime(dateStr, timeStr string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dateStr), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	minute, err := availability.ParseMinute(strings.TrimSpace(timeStr))
	if err != nil {
		return time.Time{}, err
	}
	return booking.At(date, minute), nil
}

type AppointmentHandler struct {
	svc    *booking.Service
	logger *slog.Logger
}

func NewAppointmentHandler(svc *booking.Service, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, logger: logger}
}

type rescheduleRequest struct {
	AppointmentID string `json:"appointment_id"`
	NewDate       string `json:"new_date"`
	NewTime       string `json:"new_time"`
}

func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "invalid json body"})
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "appointment_id required"})
		return
	}
	newStart, err := parseDayTime(req.NewDate, req.NewTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "invalid new_date/new_time"})
		return
	}

	if err := h.svc.Reschedule(r.Context(), req.AppointmentID, newStart); err != nil {
		if code, _ := errorCode(err); code == codeInternal {
			h.logger.Error("reschedule failed", "err", err, "appointment_id", req.AppointmentID)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type statusRequest struct {
	AppointmentID string  `json:"appointment_id"`
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "invalid json body"})
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "appointment_id required"})
		return
	}
	if req.Status == nil && req.PaymentStatus == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "status or payment_status required"})
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), req.AppointmentID, req.Status, req.PaymentStatus, strings.TrimSpace(req.Reason)); err != nil {
		if code, _ := errorCode(err); code == codeInternal {
			h.logger.Error("status update failed", "err", err, "appointment_id", req.AppointmentID)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
