package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	driverName     = "sqlite"
	defaultPath    = "./data/console.db"
	pingTimeout    = 3 * time.Second
	defaultPragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
)

// Config describes where the console database lives
type Config struct {
	// Path is a filesystem path or a full "file:" DSN
	Path string
	// AutoMigrate applies pending schema migrations after opening
	AutoMigrate bool
}

// Open connects to SQLite with a single connection and validates it with a ping
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	dsn, err := buildDSN(cfg.Path)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// All writes go through one Worker, reads share the same connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

func buildDSN(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPath
	}

	if strings.HasPrefix(path, "file:") {
		if strings.Contains(path, "_pragma=") {
			return path, nil
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + defaultPragmas, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("sqlite: create database directory: %w", err)
	}

	return fmt.Sprintf("file:%s?%s", path, defaultPragmas), nil
}
