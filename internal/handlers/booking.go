package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/booking"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = "2006-01-02 15:04"
)

type BookingHandler struct {
	svc    *booking.Service
	appts  *storage.AppointmentRepository
	idem   *storage.IdempotencyRepository
	logger *slog.Logger
}

func NewBookingHandler(svc *booking.Service, appts *storage.AppointmentRepository, idem *storage.IdempotencyRepository, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, appts: appts, idem: idem, logger: logger}
}

// Slots answers the public availability query. An empty array is a valid
// answer meaning no availability, never an error.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	professionalID := strings.TrimSpace(r.URL.Query().Get("professional_id"))
	if dateStr == "" || serviceID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "date and service_id are required"})
		return
	}
	date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "invalid date"})
		return
	}

	slots, err := h.svc.AvailableSlots(r.Context(), date, serviceID, professionalID)
	if err != nil {
		h.logger.Error("slot query failed", "err", err, "date", dateStr, "service_id", serviceID)
		writeError(w, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	writeJSON(w, http.StatusOK, slots)
}

type bookRequest struct {
	Client struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"client"`
	Items []struct {
		ServiceID      string `json:"service_id"`
		ProfessionalID string `json:"professional_id"`
		StartTime      string `json:"start_time"`
	} `json:"items"`
	ManualPayment *struct {
		Amount string `json:"amount"`
		Method string `json:"method"`
	} `json:"manual_payment,omitempty"`
	Status   string `json:"status,omitempty"`
	IsManual bool   `json:"is_manual,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type bookItemResponse struct {
	AppointmentID string `json:"appointment_id,omitempty"`
	Error         string `json:"error,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Book runs the booking transaction for a cart. Items succeed or fail
// individually; the response reports each one.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "invalid json body"})
		return
	}

	coreReq := booking.BookRequest{
		Client: booking.ClientInfo{
			Name:  req.Client.Name,
			Phone: req.Client.Phone,
			Email: req.Client.Email,
		},
		Status:   strings.TrimSpace(req.Status),
		IsManual: req.IsManual,
		Notes:    req.Notes,
	}
	if req.ManualPayment != nil {
		coreReq.ManualPayment = &booking.ManualPayment{
			Amount: req.ManualPayment.Amount,
			Method: req.ManualPayment.Method,
		}
	}
	for _, item := range req.Items {
		start, err := time.ParseInLocation(dateTimeLayout, strings.TrimSpace(item.StartTime), time.Local)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "invalid start_time (want YYYY-MM-DD HH:MM)"})
			return
		}
		coreReq.Items = append(coreReq.Items, booking.CartItem{
			ServiceID:      strings.TrimSpace(item.ServiceID),
			ProfessionalID: strings.TrimSpace(item.ProfessionalID),
			StartTime:      start,
		})
	}

	ctx := r.Context()
	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idempotencyKey == "" {
		status, body := h.performBook(ctx, coreReq)
		writeJSON(w, status, body)
		return
	}

	tx, err := h.idem.Begin(ctx)
	if err != nil {
		h.logger.Error("idempotency begin failed", "err", err)
		writeError(w, err)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec, exists, err := h.idem.LockKey(ctx, tx, idempotencyKey)
	if err != nil {
		h.logger.Error("idempotency key lock failed", "err", err)
		writeError(w, err)
		return
	}
	if exists && rec.StatusCode > 0 {
		_ = tx.Commit(ctx)
		replayStored(w, rec)
		return
	}

	status, body := h.performBook(ctx, coreReq)
	// Internal failures are not finalized; the client may retry with the
	// same key once the dependency recovers.
	if status < http.StatusInternalServerError {
		if payload, err := json.Marshal(body); err == nil {
			if err := h.idem.Finalize(ctx, tx, idempotencyKey, status, payload); err != nil {
				h.logger.Error("idempotency finalize failed", "err", err)
			} else {
				_ = tx.Commit(ctx)
			}
		}
	}
	writeJSON(w, status, body)
}

func (h *BookingHandler) performBook(ctx context.Context, req booking.BookRequest) (int, any) {
	results, err := h.svc.Book(ctx, req)
	if err != nil {
		code, status := errorCode(err)
		msg := ""
		if code != codeInternal {
			msg = err.Error()
		} else {
			h.logger.Error("booking failed", "err", err)
		}
		return status, errorBody{Error: code, Message: msg}
	}

	items := make([]bookItemResponse, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			code, _ := errorCode(res.Err)
			msg := ""
			if code != codeInternal {
				msg = res.Err.Error()
			} else {
				h.logger.Error("booking item failed", "err", res.Err)
			}
			items = append(items, bookItemResponse{Error: code, Message: msg})
			continue
		}
		items = append(items, bookItemResponse{AppointmentID: res.AppointmentID})
	}
	return http.StatusOK, map[string]any{"items": items}
}

// replayStored answers a repeated Idempotency-Key submission with the
// response recorded for the first one.
func replayStored(w http.ResponseWriter, rec storage.IdempotencyRecord) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rec.StatusCode)
	if len(rec.ResponsePayload) > 0 {
		_, _ = w.Write(rec.ResponsePayload)
	}
}

type listAppointmentItem struct {
	AppointmentID  string `json:"appointment_id"`
	ServiceID      string `json:"service_id"`
	ProfessionalID string `json:"professional_id"`
	ClientID       string `json:"client_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	IsManual       bool   `json:"is_manual"`
}

// List is the staff day view: every appointment for one professional on one
// date, regardless of status.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	professionalID := strings.TrimSpace(r.URL.Query().Get("professional_id"))
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if professionalID == "" || dateStr == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "professional_id and date are required"})
		return
	}
	date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: codeValidationError, Message: "invalid date"})
		return
	}

	dayStart, dayEnd := booking.DayBounds(date)
	appts, err := h.appts.ListByProfessionalDay(r.Context(), professionalID, dayStart, dayEnd)
	if err != nil {
		h.logger.Error("appointment list failed", "err", err)
		writeError(w, err)
		return
	}

	items := make([]listAppointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, listAppointmentItem{
			AppointmentID:  a.ID,
			ServiceID:      a.ServiceID,
			ProfessionalID: a.ProfessionalID,
			ClientID:       a.ClientID,
			Date:           a.StartTime.Format(dateLayout),
			StartTime:      a.StartTime.Format(timeLayout),
			EndTime:        a.EndTime.Format(timeLayout),
			Status:         a.Status,
			PaymentStatus:  a.PaymentStatus,
			IsManual:       a.IsManual,
		})
	}
	writeJSON(w, http.StatusOK, items)
}
