package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/example/visitor-console/internal/persistence"
)

var sessionColumns = []string{
	"id", "user_id", "token", "fingerprint",
	"expires_at_ms", "revoked_at_ms", "created_at_ms", "updated_at_ms",
}

type sessionRow struct {
	ID          string        `db:"id"`
	UserID      string        `db:"user_id"`
	Token       string        `db:"token"`
	Fingerprint string        `db:"fingerprint"`
	ExpiresAt   int64         `db:"expires_at_ms"`
	RevokedAt   sql.NullInt64 `db:"revoked_at_ms"`
	CreatedAt   int64         `db:"created_at_ms"`
	UpdatedAt   int64         `db:"updated_at_ms"`
}

func (row sessionRow) toModel() persistence.Session {
	return persistence.Session{
		ID:          row.ID,
		UserID:      row.UserID,
		Token:       row.Token,
		Fingerprint: row.Fingerprint,
		ExpiresAt:   fromMillis(row.ExpiresAt),
		RevokedAt:   fromNullMillis(row.RevokedAt),
		CreatedAt:   fromMillis(row.CreatedAt),
		UpdatedAt:   fromMillis(row.UpdatedAt),
	}
}

// SessionRepository implements persistence.SessionRepository using SQLite
type SessionRepository struct {
	conn *Conn
}

// NewSessionRepository creates a new SQLite session repository
func NewSessionRepository(conn *Conn) *SessionRepository {
	return &SessionRepository{conn: conn}
}

// CreateSession stores a new session token for a user
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	normalized, err := normalizeSession(session)
	if err != nil {
		return persistence.Session{}, err
	}

	insert := r.conn.builder.Insert("sessions").
		Columns(sessionColumns...).
		Values(
			normalized.ID,
			normalized.UserID,
			normalized.Token,
			normalized.Fingerprint,
			toMillis(normalized.ExpiresAt),
			nullMillis(normalized.RevokedAt),
			toMillis(normalized.CreatedAt),
			toMillis(normalized.UpdatedAt),
		)

	err = r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := txExec(ctx, tx, insert)
		return err
	})
	if err != nil {
		return persistence.Session{}, err
	}

	return cloneSession(normalized), nil
}

// GetSession retrieves a session by its token value
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	var row sessionRow
	query := r.conn.builder.Select(sessionColumns...).From("sessions").Where(squirrel.Eq{"token": token})
	if err := r.conn.get(ctx, &row, query); err != nil {
		return persistence.Session{}, err
	}

	return row.toModel(), nil
}

// UpdateSession updates the mutable fields of an existing session.
// ID, UserID and CreatedAt keep their stored values.
func (r *SessionRepository) UpdateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	normalized, err := normalizeSession(session)
	if err != nil {
		return persistence.Session{}, err
	}

	var updated persistence.Session
	err = r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var current sessionRow
		selectCurrent := r.conn.builder.Select(sessionColumns...).From("sessions").Where(squirrel.Eq{"id": normalized.ID})
		if err := txGet(ctx, tx, &current, selectCurrent); err != nil {
			return err
		}

		update := r.conn.builder.Update("sessions").
			Set("token", normalized.Token).
			Set("fingerprint", normalized.Fingerprint).
			Set("expires_at_ms", toMillis(normalized.ExpiresAt)).
			Set("revoked_at_ms", nullMillis(normalized.RevokedAt)).
			Set("updated_at_ms", toMillis(normalized.UpdatedAt)).
			Where(squirrel.Eq{"id": normalized.ID})
		if _, err := txExec(ctx, tx, update); err != nil {
			return err
		}

		updated = normalized
		updated.UserID = current.UserID
		updated.CreatedAt = fromMillis(current.CreatedAt)
		return nil
	})
	if err != nil {
		return persistence.Session{}, err
	}

	return cloneSession(updated), nil
}

// RevokeSession marks a session as revoked based on its token value
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	at := revokedAt.UTC()
	var revoked persistence.Session
	err := r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		update := r.conn.builder.Update("sessions").
			Set("revoked_at_ms", toMillis(at)).
			Set("updated_at_ms", toMillis(at)).
			Where(squirrel.Eq{"token": token})
		affected, err := txExec(ctx, tx, update)
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		var row sessionRow
		if err := txGet(ctx, tx, &row, r.conn.builder.Select(sessionColumns...).From("sessions").Where(squirrel.Eq{"token": token})); err != nil {
			return err
		}
		revoked = row.toModel()
		return nil
	})
	if err != nil {
		return persistence.Session{}, err
	}

	return revoked, nil
}

// DeleteExpiredSessions removes sessions that expired on or before the provided timestamp
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	del := r.conn.builder.Delete("sessions").Where(squirrel.LtOrEq{"expires_at_ms": toMillis(reference)})
	return r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := txExec(ctx, tx, del)
		return err
	})
}

func normalizeSession(session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.UserID == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	session.Token = strings.TrimSpace(session.Token)
	if session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	session.Fingerprint = strings.TrimSpace(session.Fingerprint)
	session.ExpiresAt = session.ExpiresAt.UTC()
	session.CreatedAt = session.CreatedAt.UTC()
	session.UpdatedAt = session.UpdatedAt.UTC()
	return cloneSession(session), nil
}

func cloneSession(session persistence.Session) persistence.Session {
	clone := session
	if session.RevokedAt != nil {
		revoked := session.RevokedAt.UTC()
		clone.RevokedAt = &revoked
	}
	return clone
}
