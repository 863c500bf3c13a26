package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/lifecycle"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/outbox"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/schedule"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

type Config struct {
	// SlotStepMins is the candidate grid for the public booking flow.
	// Staff-facing paths may run a finer grid; both come from configuration.
	SlotStepMins int
	// UpfrontPayment controls whether new appointments start with
	// payment_status pending (true) or not_required (false).
	UpfrontPayment bool
	// BookingLinkBase prefixes the durable per-client booking view link
	// carried on outbound events.
	BookingLinkBase string
}

// Service is the booking core: slot queries, the booking transaction,
// reschedules and status updates.
type Service struct {
	pool     *db.Pool
	appts    *storage.AppointmentRepository
	clients  *storage.ClientRepository
	payments *storage.PaymentRepository
	catalog  *storage.CatalogRepository
	windows  *schedule.Catalog
	outbox   *outbox.Repository
	logger   *slog.Logger
	cfg      Config
}

func NewService(pool *db.Pool, appts *storage.AppointmentRepository, clients *storage.ClientRepository,
	payments *storage.PaymentRepository, catalog *storage.CatalogRepository, windows *schedule.Catalog,
	outboxRepo *outbox.Repository, logger *slog.Logger, cfg Config) *Service {
	if cfg.SlotStepMins <= 0 {
		cfg.SlotStepMins = 60
	}
	return &Service{
		pool:     pool,
		appts:    appts,
		clients:  clients,
		payments: payments,
		catalog:  catalog,
		windows:  windows,
		outbox:   outboxRepo,
		logger:   logger,
		cfg:      cfg,
	}
}

type ClientInfo struct {
	Name  string
	Phone string
	Email string
}

type CartItem struct {
	ServiceID      string
	ProfessionalID string
	StartTime      time.Time
}

type ManualPayment struct {
	Amount string
	Method string
}

type BookRequest struct {
	Client        ClientInfo
	Items         []CartItem
	ManualPayment *ManualPayment
	// Status lets the staff path supply an initial status; empty means the
	// self-service default (confirmed).
	Status   string
	IsManual bool
	Notes    string
}

// ItemResult reports one cart item's outcome. Items are independent: a
// failed item never rolls back earlier successes in the same checkout.
type ItemResult struct {
	AppointmentID string
	Err           error
}

// Book runs the booking transaction for every cart item in one checkout.
// The client is resolved once by email and reused across items. The error
// return covers checkout-level failures (bad client descriptor, client
// resolution); per-item failures live in the results.
func (s *Service) Book(ctx context.Context, req BookRequest) ([]ItemResult, error) {
	if strings.TrimSpace(req.Client.Name) == "" {
		return nil, validationErr("client.name", "required")
	}
	if strings.TrimSpace(req.Client.Email) == "" {
		return nil, validationErr("client.email", "required")
	}
	if len(req.Items) == 0 {
		return nil, validationErr("items", "at least one item required")
	}

	status := req.Status
	if status == "" {
		status = lifecycle.StatusConfirmed
	}
	if !lifecycle.ValidStatus(status) {
		return nil, validationErr("status", fmt.Sprintf("unknown status %q", status))
	}

	paymentStatus := lifecycle.PaymentPending
	if !s.cfg.UpfrontPayment {
		paymentStatus = lifecycle.PaymentNotRequired
	}

	clientID, err := s.resolveClient(ctx, req.Client)
	if err != nil {
		return nil, err
	}

	results := make([]ItemResult, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := s.bookItem(ctx, clientID, req, item, status, paymentStatus)
		results = append(results, ItemResult{AppointmentID: id, Err: err})
	}
	return results, nil
}

func (s *Service) resolveClient(ctx context.Context, info ClientInfo) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := s.clients.ResolveOrCreate(ctx, tx, strings.TrimSpace(info.Name), strings.TrimSpace(info.Phone), info.Email)
	if err != nil {
		return "", err
	}
	return id, tx.Commit(ctx)
}

func (s *Service) bookItem(ctx context.Context, clientID string, req BookRequest, item CartItem, status, paymentStatus string) (string, error) {
	if item.ServiceID == "" {
		return "", validationErr("service_id", "required")
	}
	if item.ProfessionalID == "" {
		return "", validationErr("professional_id", "required")
	}
	if item.StartTime.IsZero() {
		return "", validationErr("start_time", "required")
	}

	svc, err := s.catalog.GetService(ctx, item.ServiceID)
	if err != nil {
		if storage.IsNotFound(err) {
			return "", fmt.Errorf("service %s: %w", item.ServiceID, ErrNotFound)
		}
		return "", err
	}
	pro, err := s.catalog.GetProfessional(ctx, item.ProfessionalID)
	if err != nil {
		if storage.IsNotFound(err) {
			return "", fmt.Errorf("professional %s: %w", item.ProfessionalID, ErrNotFound)
		}
		return "", err
	}

	// End time is always derived server-side from the service duration.
	end := EndTime(item.StartTime, svc.DurationMins)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize validate-then-write per (professional, day). Two clients
	// racing for the same slot queue here; the loser sees the winner's row
	// in the overlap re-check below.
	if err := storage.AcquireDayLock(ctx, tx, pro.ID, item.StartTime); err != nil {
		return "", err
	}
	taken, err := s.appts.OverlapExists(ctx, tx, pro.ID, item.StartTime, end, "")
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrSlotUnavailable
	}

	appt := &model.Appointment{
		ServiceID:      svc.ID,
		ProfessionalID: pro.ID,
		ClientID:       clientID,
		StartTime:      item.StartTime,
		EndTime:        end,
		Status:         status,
		PaymentStatus:  paymentStatus,
		Notes:          req.Notes,
		IsManual:       req.IsManual,
	}
	id, err := s.appts.Insert(ctx, tx, appt)
	if err != nil {
		if storage.IsConflict(err) {
			return "", ErrSlotUnavailable
		}
		return "", err
	}

	if req.ManualPayment != nil {
		now := time.Now()
		if _, err := s.payments.Insert(ctx, tx, &model.Payment{
			AppointmentID: &id,
			Amount:        req.ManualPayment.Amount,
			Method:        req.ManualPayment.Method,
			Status:        lifecycle.PaymentRowApproved,
			PaymentDate:   &now,
		}); err != nil {
			return "", err
		}
	}

	if err := s.emitBooked(ctx, tx, id, req.Client, clientID, svc.Name, pro.Name, item.StartTime, end); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		if storage.IsConflict(err) {
			return "", ErrSlotUnavailable
		}
		return "", err
	}
	return id, nil
}

func (s *Service) emitBooked(ctx context.Context, tx pgx.Tx, appointmentID string, client ClientInfo, clientID, serviceName, professionalName string, start, end time.Time) error {
	payload := mustJSON(map[string]any{
		"appointment_id":    appointmentID,
		"client_name":       client.Name,
		"client_phone":      client.Phone,
		"client_email":      client.Email,
		"service_name":      serviceName,
		"professional_name": professionalName,
		"date":              start.Format("2006-01-02"),
		"time":              start.Format("15:04"),
		"end_time":          end.Format("15:04"),
		"booking_link":      s.bookingLink(clientID),
	})
	return s.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appointmentID,
		EventType:     outbox.EventAppointmentBooked,
		Payload:       payload,
	})
}

func (s *Service) bookingLink(clientID string) string {
	base := strings.TrimRight(s.cfg.BookingLinkBase, "/")
	if base == "" {
		return ""
	}
	return base + "/" + clientID
}

func mustJSON(v map[string]any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Payload maps only hold strings and bools; marshal cannot fail.
		return []byte("{}")
	}
	return b
}
