package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/example/visitor-console/internal/persistence"
)

// enqueue appends an outbox row inside tx. It is a no-op without a topic.
func (c *Conn) enqueue(ctx context.Context, tx *sqlx.Tx, key string, encode func(at time.Time) ([]byte, error)) error {
	if c.outboxTopic == "" {
		return nil
	}

	now := c.now()
	payload, err := encode(now)
	if err != nil {
		return fmt.Errorf("sqlite: encode outbox event: %w", err)
	}

	insert := c.builder.Insert("outbox").
		Columns("topic", "message_key", "payload", "status", "attempts", "created_at_ms").
		Values(c.outboxTopic, key, payload, persistence.OutboxPending, 0, toMillis(now))
	_, err = txExec(ctx, tx, insert)
	return err
}

type outboxRow struct {
	ID          int64          `db:"id"`
	Topic       string         `db:"topic"`
	Key         string         `db:"message_key"`
	Payload     []byte         `db:"payload"`
	Status      string         `db:"status"`
	Attempts    int            `db:"attempts"`
	LastError   sql.NullString `db:"last_error"`
	CreatedAt   int64          `db:"created_at_ms"`
	ProcessedAt sql.NullInt64  `db:"processed_at_ms"`
}

func (row outboxRow) toModel() persistence.OutboxMessage {
	msg := persistence.OutboxMessage{
		ID:          row.ID,
		Topic:       row.Topic,
		Key:         row.Key,
		Payload:     row.Payload,
		Status:      row.Status,
		Attempts:    row.Attempts,
		CreatedAt:   fromMillis(row.CreatedAt),
		ProcessedAt: fromNullMillis(row.ProcessedAt),
	}
	if row.LastError.Valid {
		reason := row.LastError.String
		msg.LastError = &reason
	}
	return msg
}

// OutboxRepository implements persistence.OutboxRepository using SQLite
type OutboxRepository struct {
	conn *Conn
}

// NewOutboxRepository creates a new SQLite outbox repository
func NewOutboxRepository(conn *Conn) *OutboxRepository {
	return &OutboxRepository{conn: conn}
}

// ClaimOutbox moves up to limit pending messages to PROCESSING and returns them in id order.
// Messages that already failed maxAttempts times stay FAILED.
func (r *OutboxRepository) ClaimOutbox(ctx context.Context, limit, maxAttempts int) ([]persistence.OutboxMessage, error) {
	if limit <= 0 {
		return nil, nil
	}

	var claimed []persistence.OutboxMessage
	err := r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		query := r.conn.builder.
			Select("id", "topic", "message_key", "payload", "status", "attempts", "last_error", "created_at_ms", "processed_at_ms").
			From("outbox").
			Where(squirrel.Eq{"status": persistence.OutboxPending}).
			OrderBy("id ASC").
			Limit(uint64(limit))
		if maxAttempts > 0 {
			query = query.Where(squirrel.Lt{"attempts": maxAttempts})
		}

		q, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("sqlite: build query: %w", err)
		}
		var rows []outboxRow
		if err := tx.SelectContext(ctx, &rows, q, args...); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		update := r.conn.builder.Update("outbox").
			Set("status", persistence.OutboxProcessing).
			Where(squirrel.Eq{"id": ids})
		if _, err := txExec(ctx, tx, update); err != nil {
			return err
		}

		claimed = make([]persistence.OutboxMessage, 0, len(rows))
		for _, row := range rows {
			msg := row.toModel()
			msg.Status = persistence.OutboxProcessing
			claimed = append(claimed, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// MarkOutboxDone records a successful publish
func (r *OutboxRepository) MarkOutboxDone(ctx context.Context, id int64, at time.Time) error {
	update := r.conn.builder.Update("outbox").
		Set("status", persistence.OutboxDone).
		Set("processed_at_ms", toMillis(at)).
		Set("last_error", nil).
		Where(squirrel.Eq{"id": id})
	return r.updateOne(ctx, update)
}

// MarkOutboxFailed stores the failure. The message goes back to PENDING
// unless final is set, in which case it is parked as FAILED.
func (r *OutboxRepository) MarkOutboxFailed(ctx context.Context, id int64, attempts int, reason string, final bool) error {
	status := persistence.OutboxPending
	if final {
		status = persistence.OutboxFailed
	}
	update := r.conn.builder.Update("outbox").
		Set("status", status).
		Set("attempts", attempts).
		Set("last_error", reason).
		Where(squirrel.Eq{"id": id})
	return r.updateOne(ctx, update)
}

// RequeueOutbox puts messages left PROCESSING by a stopped relay back to PENDING.
func (r *OutboxRepository) RequeueOutbox(ctx context.Context) (int, error) {
	var requeued int64
	err := r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		update := r.conn.builder.Update("outbox").
			Set("status", persistence.OutboxPending).
			Where(squirrel.Eq{"status": persistence.OutboxProcessing})
		affected, err := txExec(ctx, tx, update)
		requeued = affected
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(requeued), nil
}

func (r *OutboxRepository) updateOne(ctx context.Context, update squirrel.UpdateBuilder) error {
	return r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		affected, err := txExec(ctx, tx, update)
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}
