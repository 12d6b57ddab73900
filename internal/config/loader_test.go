package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var consoleKeys = []string{
	"CONSOLE_ENV_FILE",
	"CONSOLE_HTTP_PORT",
	"CONSOLE_STORAGE",
	"CONSOLE_SQLITE_PATH",
	"CONSOLE_LOG_LEVEL",
	"CONSOLE_TIMEZONE",
	"CONSOLE_CORS_ORIGINS",
	"CONSOLE_SESSION_TTL",
	"CONSOLE_QR_SECRET",
	"CONSOLE_QR_REQUIRE_SIGNATURE",
	"CONSOLE_PASS_TTL",
	"CONSOLE_KAFKA_BROKERS",
	"CONSOLE_KAFKA_TOPIC",
	"CONSOLE_OUTBOX_POLL_INTERVAL",
	"CONSOLE_OUTBOX_BATCH_SIZE",
	"CONSOLE_AUDIT_WORKERS",
	"CONSOLE_AUDIT_BATCH_SIZE",
	"CONSOLE_AUDIT_FLUSH_INTERVAL",
	"CONSOLE_BOOTSTRAP_ADMIN_EMAIL",
	"CONSOLE_BOOTSTRAP_ADMIN_PASSWORD",
	"CONSOLE_BOOTSTRAP_ADMIN_NAME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range consoleKeys {
		t.Setenv(key, "")
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)
		const secret = "super-secret"
		t.Setenv("CONSOLE_QR_SECRET", secret)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.Addr() != ":8080" {
			t.Fatalf("unexpected addr: %q", cfg.Addr())
		}
		if cfg.Storage != StorageSQLite || cfg.SQLitePath != "./data/console.db" {
			t.Fatalf("unexpected storage defaults: %q %q", cfg.Storage, cfg.SQLitePath)
		}
		if cfg.QRSecret != secret {
			t.Fatalf("expected QR secret to be %q, got %q", secret, cfg.QRSecret)
		}
		if cfg.QRRequireSignature {
			t.Fatalf("expected signature enforcement to be off by default")
		}
		if cfg.PassTTL != 120*time.Hour || cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("unexpected TTL defaults: pass %s session %s", cfg.PassTTL, cfg.SessionTTL)
		}
		if cfg.KafkaTopic != "console.logs" || len(cfg.KafkaBrokers) != 0 {
			t.Fatalf("unexpected kafka defaults: %q %v", cfg.KafkaTopic, cfg.KafkaBrokers)
		}
		if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
			t.Fatalf("unexpected CORS defaults: %v", cfg.CORSOrigins)
		}
		if cfg.Location != time.UTC {
			t.Fatalf("expected UTC location, got %v", cfg.Location)
		}
		if cfg.AuditWorkers != 2 || cfg.AuditBatchSize != 20 || cfg.AuditFlushInterval != time.Second {
			t.Fatalf("unexpected audit defaults: %+v", cfg)
		}
		if cfg.BootstrapAdmin.Enabled() {
			t.Fatalf("expected bootstrap admin to be disabled")
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnv(t)

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "missing required environment variables: CONSOLE_QR_SECRET"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reports missing and invalid values together", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONSOLE_HTTP_PORT", "-1")
		t.Setenv("CONSOLE_STORAGE", "postgres")
		t.Setenv("CONSOLE_OUTBOX_POLL_INTERVAL", "soon")
		t.Setenv("CONSOLE_BOOTSTRAP_ADMIN_EMAIL", "admin@example.com")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error")
		}
		msg := err.Error()
		for _, want := range []string{
			"CONSOLE_QR_SECRET",
			"CONSOLE_HTTP_PORT",
			"CONSOLE_STORAGE",
			"CONSOLE_OUTBOX_POLL_INTERVAL",
			"CONSOLE_BOOTSTRAP_ADMIN_PASSWORD",
		} {
			if !strings.Contains(msg, want) {
				t.Fatalf("expected %q in %q", want, msg)
			}
		}
	})

	t.Run("parses duration, list and numeric fields", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONSOLE_QR_SECRET", "secret-value")
		t.Setenv("CONSOLE_HTTP_PORT", "9090")
		t.Setenv("CONSOLE_STORAGE", "Memory")
		t.Setenv("CONSOLE_SESSION_TTL", "12h")
		t.Setenv("CONSOLE_PASS_TTL", "48h")
		t.Setenv("CONSOLE_QR_REQUIRE_SIGNATURE", "true")
		t.Setenv("CONSOLE_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
		t.Setenv("CONSOLE_CORS_ORIGINS", "https://console.example.com")
		t.Setenv("CONSOLE_TIMEZONE", "Asia/Manila")
		t.Setenv("CONSOLE_AUDIT_BATCH_SIZE", "5")
		t.Setenv("CONSOLE_BOOTSTRAP_ADMIN_EMAIL", "admin@example.com")
		t.Setenv("CONSOLE_BOOTSTRAP_ADMIN_PASSWORD", "password123")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.Storage != StorageMemory {
			t.Fatalf("expected memory storage, got %q", cfg.Storage)
		}
		if cfg.SessionTTL != 12*time.Hour || cfg.PassTTL != 48*time.Hour {
			t.Fatalf("unexpected TTLs: %s %s", cfg.SessionTTL, cfg.PassTTL)
		}
		if !cfg.QRRequireSignature {
			t.Fatalf("expected signature enforcement")
		}
		if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
			t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
		}
		if cfg.CORSOrigins[0] != "https://console.example.com" {
			t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
		}
		if cfg.Location.String() != "Asia/Manila" {
			t.Fatalf("unexpected location: %v", cfg.Location)
		}
		if cfg.AuditBatchSize != 5 {
			t.Fatalf("expected audit batch size 5, got %d", cfg.AuditBatchSize)
		}
		if !cfg.BootstrapAdmin.Enabled() || cfg.BootstrapAdmin.Name != "Administrator" {
			t.Fatalf("unexpected bootstrap admin: %+v", cfg.BootstrapAdmin)
		}
	})

	t.Run("applies the env file without overriding the environment", func(t *testing.T) {
		clearEnv(t)
		const fileOnly = "CONSOLE_TEST_FROM_FILE"
		t.Cleanup(func() { _ = os.Unsetenv(fileOnly) })

		path := filepath.Join(t.TempDir(), "console.env")
		content := "CONSOLE_QR_SECRET=from-file\n" + fileOnly + "=yes\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("CONSOLE_ENV_FILE", path)
		t.Setenv("CONSOLE_QR_SECRET", "from-env")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.QRSecret != "from-env" {
			t.Fatalf("expected environment to win, got %q", cfg.QRSecret)
		}
		if os.Getenv(fileOnly) != "yes" {
			t.Fatalf("expected env file values to be applied")
		}
	})

	t.Run("ignores a missing env file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONSOLE_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
		t.Setenv("CONSOLE_QR_SECRET", "secret")

		if _, err := Load(); err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
	})
}
