package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/example/visitor-console/internal/persistence"
)

// Conn bundles the shared connection, the single writer and the query builder
// used by every repository in this package.
type Conn struct {
	db          *sqlx.DB
	writer      *Worker
	builder     squirrel.StatementBuilderType
	mapper      *ErrorMapper
	outboxTopic string
	now         func() time.Time
}

// Option customises a Conn.
type Option func(*Conn)

// WithOutboxTopic makes log writes append an outbox event for topic.
// An empty topic disables the outbox.
func WithOutboxTopic(topic string) Option {
	return func(c *Conn) {
		c.outboxTopic = topic
	}
}

// WithClock overrides the clock used for outbox timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Conn) {
		if now != nil {
			c.now = now
		}
	}
}

// NewConn wraps an open database and starts its writer.
func NewConn(db *sqlx.DB, opts ...Option) *Conn {
	c := &Conn{
		db:      db,
		writer:  NewWorker(db),
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		mapper:  NewErrorMapper(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping tests the database connection.
func (c *Conn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close drains the writer and closes the database.
func (c *Conn) Close() error {
	if c.writer != nil {
		c.writer.Close()
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// WithTransaction runs fn on the writer. Errors are mapped to persistence errors.
func (c *Conn) WithTransaction(ctx context.Context, fn TxFunc) error {
	return c.mapper.MapError(c.writer.Do(ctx, fn))
}

func (c *Conn) get(ctx context.Context, dest any, query squirrel.Sqlizer) error {
	q, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: build query: %w", err)
	}
	return c.mapper.MapError(c.db.GetContext(ctx, dest, q, args...))
}

func (c *Conn) selectAll(ctx context.Context, dest any, query squirrel.Sqlizer) error {
	q, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: build query: %w", err)
	}
	return c.mapper.MapError(c.db.SelectContext(ctx, dest, q, args...))
}

func (c *Conn) count(ctx context.Context, query squirrel.SelectBuilder) (int, error) {
	var total int
	if err := c.get(ctx, &total, query); err != nil {
		return 0, err
	}
	return total, nil
}

func txGet(ctx context.Context, tx *sqlx.Tx, dest any, query squirrel.Sqlizer) error {
	q, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: build query: %w", err)
	}
	if err := tx.GetContext(ctx, dest, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		return err
	}
	return nil
}

func txExec(ctx context.Context, tx *sqlx.Tx, query squirrel.Sqlizer) (int64, error) {
	q, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("sqlite: build query: %w", err)
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ErrorMapper maps SQLite errors to persistence layer errors
type ErrorMapper struct{}

// NewErrorMapper creates a new error mapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps SQLite-specific errors to persistence layer errors
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	code := sqliteErr.Code()
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	}

	switch code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return fmt.Errorf("%w: %v", persistence.ErrBusy, err)
	}

	return err
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// containsFold matches a case-insensitive substring of column.
func containsFold(column, value string) squirrel.Sqlizer {
	return squirrel.Expr(fmt.Sprintf("instr(lower(%s), lower(?)) > 0", column), value)
}

func applyPage(query squirrel.SelectBuilder, page persistence.Page) squirrel.SelectBuilder {
	if page.Limit > 0 {
		query = query.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		if page.Limit <= 0 {
			query = query.Limit(math.MaxInt64)
		}
		query = query.Offset(uint64(page.Offset))
	}
	return query
}

var (
	_ persistence.UserRepository       = (*UserRepository)(nil)
	_ persistence.SessionRepository    = (*SessionRepository)(nil)
	_ persistence.VehicleRepository    = (*VehicleRepository)(nil)
	_ persistence.VehicleLogRepository = (*VehicleLogRepository)(nil)
	_ persistence.VisitorLogRepository = (*VisitorLogRepository)(nil)
	_ persistence.OutboxRepository     = (*OutboxRepository)(nil)
)
