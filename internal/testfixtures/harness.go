package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/visitor-console/internal/persistence"
	"github.com/example/visitor-console/internal/persistence/memory"
	"github.com/example/visitor-console/internal/persistence/sqlite"
)

// OutboxTopic is the topic harnesses configure for log events.
const OutboxTopic = "console.logs.test"

// Harness exposes every repository of one storage backend.
type Harness struct {
	Name        string
	Users       persistence.UserRepository
	Sessions    persistence.SessionRepository
	Vehicles    persistence.VehicleRepository
	VehicleLogs persistence.VehicleLogRepository
	VisitorLogs persistence.VisitorLogRepository
	Outbox      persistence.OutboxRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *Harness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a migrated SQLite database in a temporary directory.
// The harness is closed automatically when the test ends.
func NewSQLiteHarness(tb testing.TB) *Harness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "console.db")
	db, err := sqlite.Open(context.Background(), sqlite.Config{Path: path, AutoMigrate: true})
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}

	conn := sqlite.NewConn(db, sqlite.WithOutboxTopic(OutboxTopic), sqlite.WithClock(ReferenceTime))
	harness := &Harness{
		Name:        "sqlite",
		Users:       sqlite.NewUserRepository(conn),
		Sessions:    sqlite.NewSessionRepository(conn),
		Vehicles:    sqlite.NewVehicleRepository(conn),
		VehicleLogs: sqlite.NewVehicleLogRepository(conn),
		VisitorLogs: sqlite.NewVisitorLogRepository(conn),
		Outbox:      sqlite.NewOutboxRepository(conn),
		cleanup: func() {
			_ = conn.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// NewMemoryHarness returns repositories backed by one memory.Storage.
func NewMemoryHarness(tb testing.TB) *Harness {
	tb.Helper()

	storage := memory.New(memory.WithOutboxTopic(OutboxTopic), memory.WithClock(ReferenceTime))
	return &Harness{
		Name:        "memory",
		Users:       storage,
		Sessions:    storage,
		Vehicles:    storage,
		VehicleLogs: storage,
		VisitorLogs: storage,
		Outbox:      storage,
		cleanup:     func() { _ = storage.Close() },
	}
}

// Harnesses returns one harness per storage backend so contract tests can
// run the same assertions against each.
func Harnesses(tb testing.TB) []*Harness {
	tb.Helper()
	return []*Harness{NewMemoryHarness(tb), NewSQLiteHarness(tb)}
}
