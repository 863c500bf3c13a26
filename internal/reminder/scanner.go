package reminder

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/outbox"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

type Scanner struct {
	pool        *db.Pool
	repo        *storage.ReminderRepository
	outbox      *outbox.Repository
	logger      *slog.Logger
	thresholds  []int
	tolerance   int
	interval    time.Duration
	advisoryKey int64
	inFlight    atomic.Bool
}

type ScannerConfig struct {
	// ThresholdsMins are the reminder lead times, e.g. 1440 and 60.
	ThresholdsMins  []int
	ToleranceMins   int
	Interval        time.Duration
	AdvisoryLockKey int64
}

func NewScanner(pool *db.Pool, repo *storage.ReminderRepository, outboxRepo *outbox.Repository, logger *slog.Logger, cfg ScannerConfig) *Scanner {
	if len(cfg.ThresholdsMins) == 0 {
		cfg.ThresholdsMins = []int{1440, 60}
	}
	if cfg.ToleranceMins <= 0 {
		cfg.ToleranceMins = 2
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	lockKey := cfg.AdvisoryLockKey
	if lockKey == 0 {
		lockKey = 7788001
	}
	return &Scanner{
		pool:        pool,
		repo:        repo,
		outbox:      outboxRepo,
		logger:      logger,
		thresholds:  cfg.ThresholdsMins,
		tolerance:   cfg.ToleranceMins,
		interval:    cfg.Interval,
		advisoryKey: lockKey,
	}
}

// Run sweeps on a fixed period. Scans never overlap: a tick arriving while a
// sweep is still in flight is skipped. With multiple instances only the
// advisory-lock holder scans.
func (s *Scanner) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		var locked bool
		if err := s.pool.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, s.advisoryKey).Scan(&locked); err != nil {
			s.logger.Error("reminder scan: failed to acquire advisory lock", "err", err)
			time.Sleep(5 * time.Second)
			continue
		}
		if !locked {
			s.logger.Info("reminder scan: advisory lock held by another instance", "lock_key", s.advisoryKey)
			time.Sleep(30 * time.Second)
			continue
		}
		defer func() {
			_, _ = s.pool.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, s.advisoryKey)
		}()
		break
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.inFlight.CompareAndSwap(false, true) {
				s.logger.Warn("reminder scan still in flight; skipping tick")
				continue
			}
			if err := s.scanOnce(ctx, time.Now()); err != nil {
				s.logger.Error("reminder scan failed", "err", err)
			}
			s.inFlight.Store(false)
		}
	}
}

func (s *Scanner) scanOnce(ctx context.Context, now time.Time) error {
	upcoming, err := s.repo.ListUpcoming(ctx, now, now.Add(Horizon(s.thresholds, s.tolerance)))
	if err != nil {
		return err
	}

	for _, appt := range upcoming {
		for _, threshold := range DueThresholds(appt.StartTime.Sub(now), s.thresholds, s.tolerance) {
			if err := s.dispatch(ctx, appt, threshold); err != nil {
				s.logger.Error("reminder dispatch failed",
					"err", err,
					"appointment_id", appt.AppointmentID,
					"reminder_type", ReminderType(threshold),
				)
			}
		}
	}
	return nil
}

// dispatch writes the dedup record and the outbound event atomically. The
// record's existence is the sole at-most-once guard: if it is already there,
// a previous sweep (or a racing instance) owns this reminder.
func (s *Scanner) dispatch(ctx context.Context, appt storage.UpcomingAppointment, threshold int) error {
	reminderType := ReminderType(threshold)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	fresh, err := s.repo.TryMarkSent(ctx, tx, appt.AppointmentID, reminderType)
	if err != nil {
		return err
	}
	if !fresh {
		return tx.Commit(ctx)
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id":    appt.AppointmentID,
		"reminder_type":     reminderType,
		"client_name":       appt.ClientName,
		"client_contact":    map[string]string{"phone": appt.ClientPhone, "email": appt.ClientEmail},
		"service_name":      appt.ServiceName,
		"professional_name": appt.ProfessionalName,
		"date":              appt.StartTime.Format("2006-01-02"),
		"time":              appt.StartTime.Format("15:04"),
	})
	if err != nil {
		return err
	}
	if err := s.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.AppointmentID,
		EventType:     outbox.EventReminderDue,
		Payload:       payload,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
