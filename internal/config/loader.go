package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config captures environment driven configuration values for the console service.
type Config struct {
	HTTPPort    int
	Storage     string
	SQLitePath  string
	LogLevel    string
	Location    *time.Location
	CORSOrigins []string

	SessionTTL time.Duration

	QRSecret           string
	QRRequireSignature bool
	PassTTL            time.Duration

	KafkaBrokers       []string
	KafkaTopic         string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	AuditWorkers       int
	AuditBatchSize     int
	AuditFlushInterval time.Duration

	BootstrapAdmin BootstrapAdmin
}

// BootstrapAdmin describes the first administrator created at startup.
type BootstrapAdmin struct {
	Email    string
	Password string
	Name     string
}

// Enabled reports whether enough values are present to create the account.
func (b BootstrapAdmin) Enabled() bool {
	return b.Email != "" && b.Password != ""
}

// Load parses configuration values from the current process environment.
//
// When CONSOLE_ENV_FILE names a dotenv file it is applied first; variables
// already present in the environment win. Missing and invalid values are
// collected and reported together.
func Load() (Config, error) {
	if path := strings.TrimSpace(os.Getenv("CONSOLE_ENV_FILE")); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
	}

	cfg := Config{
		HTTPPort:           8080,
		Storage:            StorageSQLite,
		SQLitePath:         "./data/console.db",
		LogLevel:           "info",
		Location:           time.UTC,
		CORSOrigins:        []string{"*"},
		SessionTTL:         24 * time.Hour,
		PassTTL:            120 * time.Hour,
		KafkaTopic:         "console.logs",
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    50,
		AuditWorkers:       2,
		AuditBatchSize:     20,
		AuditFlushInterval: time.Second,
	}

	p := &parser{}

	p.positiveInt("CONSOLE_HTTP_PORT", &cfg.HTTPPort)
	if storage := env("CONSOLE_STORAGE"); storage != "" {
		switch strings.ToLower(storage) {
		case StorageSQLite, StorageMemory:
			cfg.Storage = strings.ToLower(storage)
		default:
			p.invalid = append(p.invalid, "CONSOLE_STORAGE")
		}
	}
	if path := env("CONSOLE_SQLITE_PATH"); path != "" {
		cfg.SQLitePath = path
	}
	if level := env("CONSOLE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if tz := env("CONSOLE_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			p.invalid = append(p.invalid, "CONSOLE_TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}
	if origins := splitList(env("CONSOLE_CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}

	p.positiveDuration("CONSOLE_SESSION_TTL", &cfg.SessionTTL)

	if secret := env("CONSOLE_QR_SECRET"); secret == "" {
		p.missing = append(p.missing, "CONSOLE_QR_SECRET")
	} else {
		cfg.QRSecret = secret
	}
	p.boolean("CONSOLE_QR_REQUIRE_SIGNATURE", &cfg.QRRequireSignature)
	p.positiveDuration("CONSOLE_PASS_TTL", &cfg.PassTTL)

	cfg.KafkaBrokers = splitList(env("CONSOLE_KAFKA_BROKERS"))
	if topic := env("CONSOLE_KAFKA_TOPIC"); topic != "" {
		cfg.KafkaTopic = topic
	}
	p.positiveDuration("CONSOLE_OUTBOX_POLL_INTERVAL", &cfg.OutboxPollInterval)
	p.positiveInt("CONSOLE_OUTBOX_BATCH_SIZE", &cfg.OutboxBatchSize)

	p.positiveInt("CONSOLE_AUDIT_WORKERS", &cfg.AuditWorkers)
	p.positiveInt("CONSOLE_AUDIT_BATCH_SIZE", &cfg.AuditBatchSize)
	p.positiveDuration("CONSOLE_AUDIT_FLUSH_INTERVAL", &cfg.AuditFlushInterval)

	cfg.BootstrapAdmin = BootstrapAdmin{
		Email:    env("CONSOLE_BOOTSTRAP_ADMIN_EMAIL"),
		Password: os.Getenv("CONSOLE_BOOTSTRAP_ADMIN_PASSWORD"),
		Name:     env("CONSOLE_BOOTSTRAP_ADMIN_NAME"),
	}
	if cfg.BootstrapAdmin.Name == "" {
		cfg.BootstrapAdmin.Name = "Administrator"
	}
	if (cfg.BootstrapAdmin.Email == "") != (cfg.BootstrapAdmin.Password == "") {
		p.invalid = append(p.invalid, "CONSOLE_BOOTSTRAP_ADMIN_EMAIL/CONSOLE_BOOTSTRAP_ADMIN_PASSWORD")
	}

	if err := p.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

type parser struct {
	missing []string
	invalid []string
}

func (p *parser) positiveInt(key string, dst *int) {
	value := env(key)
	if value == "" {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		p.invalid = append(p.invalid, key)
		return
	}
	*dst = n
}

func (p *parser) positiveDuration(key string, dst *time.Duration) {
	value := env(key)
	if value == "" {
		return
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		p.invalid = append(p.invalid, key)
		return
	}
	*dst = d
}

func (p *parser) boolean(key string, dst *bool) {
	value := env(key)
	if value == "" {
		return
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return
	}
	*dst = b
}

func (p *parser) err() error {
	var errs []error
	if len(p.missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required environment variables: %s", strings.Join(p.missing, ", ")))
	}
	if len(p.invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid environment variable values: %s", strings.Join(p.invalid, ", ")))
	}
	return errors.Join(errs...)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
