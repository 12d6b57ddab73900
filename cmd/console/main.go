package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/visitor-console/internal/application"
	"github.com/example/visitor-console/internal/audit"
	"github.com/example/visitor-console/internal/config"
	"github.com/example/visitor-console/internal/events"
	"github.com/example/visitor-console/internal/export"
	httptransport "github.com/example/visitor-console/internal/http"
	"github.com/example/visitor-console/internal/logging"
	"github.com/example/visitor-console/internal/metrics"
	"github.com/example/visitor-console/internal/persistence"
	"github.com/example/visitor-console/internal/persistence/memory"
	"github.com/example/visitor-console/internal/persistence/sqlite"
	"github.com/example/visitor-console/internal/qrcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("console stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	producer, err := newProducer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := producer.Close(); cerr != nil {
			logger.Error("failed to close event producer", "error", cerr)
		}
	}()

	sink := audit.NewZapSink(os.Stdout)
	defer func() { _ = sink.Sync() }()

	app := newConsole(cfg, store, producer, sink, logger)
	if err := app.bootstrap(ctx, cfg.BootstrapAdmin); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.audit.Run(gctx)
	})
	g.Go(func() error {
		return app.relay.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("console API listening", "addr", server.Addr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// storage is the set of repositories behind one backend.
type storage struct {
	users       persistence.UserRepository
	sessions    persistence.SessionRepository
	vehicles    persistence.VehicleRepository
	vehicleLogs persistence.VehicleLogRepository
	visitorLogs persistence.VisitorLogRepository
	outbox      persistence.OutboxRepository
	ping        func(ctx context.Context) error
	close       func() error
}

func openStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		return newMemoryStorage(memory.New(memory.WithOutboxTopic(cfg.KafkaTopic))), nil
	}

	db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLitePath, AutoMigrate: true})
	if err != nil {
		return nil, err
	}
	conn := sqlite.NewConn(db, sqlite.WithOutboxTopic(cfg.KafkaTopic))
	return &storage{
		users:       sqlite.NewUserRepository(conn),
		sessions:    sqlite.NewSessionRepository(conn),
		vehicles:    sqlite.NewVehicleRepository(conn),
		vehicleLogs: sqlite.NewVehicleLogRepository(conn),
		visitorLogs: sqlite.NewVisitorLogRepository(conn),
		outbox:      sqlite.NewOutboxRepository(conn),
		ping:        conn.Ping,
		close:       conn.Close,
	}, nil
}

func newMemoryStorage(mem *memory.Storage) *storage {
	return &storage{
		users:       mem,
		sessions:    mem,
		vehicles:    mem,
		vehicleLogs: mem,
		visitorLogs: mem,
		outbox:      mem,
		ping:        func(context.Context) error { return nil },
		close:       mem.Close,
	}
}

func newProducer(cfg config.Config, logger *slog.Logger) (events.Producer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("no kafka brokers configured, outbox events are only logged")
		return events.NewLogProducer(logger), nil
	}
	producer, err := events.NewKafkaProducer(events.KafkaConfig{Brokers: cfg.KafkaBrokers})
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// console holds the wired services and background workers.
type console struct {
	handler http.Handler
	users   *application.UserService
	relay   *events.Relay
	audit   *audit.Manager
	metrics *metrics.Metrics
}

func newConsole(cfg config.Config, store *storage, producer events.Producer, sink audit.Sink, logger *slog.Logger) *console {
	now := time.Now
	newID := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }

	userRepo := newUserRepositoryAdapter(store.users)
	vehicleRepo := newVehicleRepositoryAdapter(store.vehicles)
	vehicleLogRepo := newVehicleLogRepositoryAdapter(store.vehicleLogs)
	visitorLogRepo := newVisitorLogRepositoryAdapter(store.visitorLogs)
	codec := qrcode.New()

	userService := application.NewUserServiceWithLogger(userRepo, nil, newID, now, logger)
	authService := application.NewAuthServiceWithLogger(newCredentialStoreAdapter(store.users), newSessionRepositoryAdapter(store.sessions), nil, tokenGenerator, now, cfg.SessionTTL, logger)
	vehicleService := application.NewVehicleServiceWithLogger(vehicleRepo, newID, now, logger)
	vehicleLogService := application.NewVehicleLogServiceWithLogger(vehicleLogRepo, vehicleRepo, newID, now, logger)
	visitorLogService := application.NewVisitorLogServiceWithLogger(visitorLogRepo, logger)
	signer := application.NewPassSigner(cfg.QRSecret, cfg.QRRequireSignature)
	passService := application.NewPassServiceWithLogger(visitorLogRepo, signer, codec, codec, newID, now, cfg.PassTTL, logger)
	dashboardService := application.NewDashboardService(vehicleRepo, vehicleLogRepo, visitorLogRepo, logger)

	m := metrics.New()
	auditManager := audit.NewManager(sink, audit.Config{
		Workers:       cfg.AuditWorkers,
		BatchSize:     cfg.AuditBatchSize,
		FlushInterval: cfg.AuditFlushInterval,
	}, logger)
	relay := events.NewRelay(store.outbox, producer, events.RelayConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
	}, logger, events.WithObserver(m))

	csv := export.NewWriter(cfg.Location)
	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:        httptransport.NewAuthHandler(authService, logger),
		Users:       httptransport.NewUserHandler(userService, logger),
		Vehicles:    httptransport.NewVehicleHandler(vehicleService, logger),
		VehicleLogs: httptransport.NewVehicleLogHandler(vehicleLogService, csv, logger),
		VisitorLogs: httptransport.NewVisitorLogHandler(visitorLogService, csv, logger),
		Passes:      httptransport.NewPassHandler(passService, m, logger),
		Dashboard:   httptransport.NewDashboardHandler(dashboardService, logger),
		Sessions:    authService,
		Audit:       auditManager,
		Observer:    m,
		Metrics:     m.Handler(),
		Health:      healthHandler(store, logger),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	return &console{
		handler: handler,
		users:   userService,
		relay:   relay,
		audit:   auditManager,
		metrics: m,
	}
}

// bootstrap creates the first administrator when one is configured.
func (c *console) bootstrap(ctx context.Context, admin config.BootstrapAdmin) error {
	if !admin.Enabled() {
		return nil
	}
	if _, err := c.users.EnsureAdmin(ctx, application.UserInput{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: admin.Password,
	}); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}

func healthHandler(store *storage, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := store.ping(ctx); err != nil {
			logger.ErrorContext(ctx, "health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"status":"unavailable"}`)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
