package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/booking"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/handlers"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/outbox"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/payments"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/reminder"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/schedule"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/config"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/httpx"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/kafkax"
	otelx "github.com/navirastartup/studio-donna-patty-sub000/libs/otel"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/runtime"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	service := config.String("SERVICE_NAME", "salon-core")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	apptRepo := storage.NewAppointmentRepository(pool)
	clientRepo := storage.NewClientRepository(pool)
	paymentRepo := storage.NewPaymentRepository(pool)
	catalogRepo := storage.NewCatalogRepository(pool)
	reminderRepo := storage.NewReminderRepository(pool)
	idemRepo := storage.NewIdempotencyRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	windows := schedule.NewCatalog(catalogRepo)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	svc := booking.NewService(pool, apptRepo, clientRepo, paymentRepo, catalogRepo, windows, outboxRepo, logger, booking.Config{
		SlotStepMins:    config.Int("SLOT_STEP_MINUTES", 60),
		UpfrontPayment:  config.Bool("UPFRONT_PAYMENT_ENABLED", false),
		BookingLinkBase: config.String("BOOKING_LINK_BASE", ""),
	})
	reconciler := payments.NewReconciler(pool, paymentRepo, apptRepo, logger)

	scanner := reminder.NewScanner(pool, reminderRepo, outboxRepo, logger, reminder.ScannerConfig{
		ThresholdsMins: config.MinuteList("REMINDER_THRESHOLDS_MINUTES", []int{1440, 60}),
		ToleranceMins:  config.Int("REMINDER_TOLERANCE_MINUTES", 2),
		Interval:       time.Duration(config.Int("REMINDER_SCAN_INTERVAL_SECONDS", 60)) * time.Second,
	})
	go scanner.Run(ctx)

	bookingHandler := handlers.NewBookingHandler(svc, apptRepo, idemRepo, logger)
	apptHandler := handlers.NewAppointmentHandler(svc, logger)
	paymentHandler := handlers.NewPaymentHandler(reconciler, logger)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)},
	)
	mux.HandleFunc("/api/v1/public/slots", bookingHandler.Slots)
	mux.HandleFunc("/api/v1/public/book", bookingHandler.Book)
	mux.HandleFunc("/api/v1/appointments", bookingHandler.List)
	mux.HandleFunc("/api/v1/appointments/reschedule", apptHandler.Reschedule)
	mux.HandleFunc("/api/v1/appointments/status", apptHandler.UpdateStatus)
	mux.HandleFunc("/api/v1/payments/callback", paymentHandler.Callback)

	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 60)
	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	bodyLimit := int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))
	httpHandler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   parseList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods:   parseList(config.String("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")),
			AllowedHeaders:   parseList(config.String("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-Id,Idempotency-Key")),
			AllowCredentials: config.Bool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(bodyLimit),
		rateLimitMW,
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "salon-core")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
