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

var visitorLogColumns = []string{
	"id", "name", "address", "contact_number", "home_owner_to_visit",
	"purpose_of_visit", "time_in_ms", "time_out_ms",
}

type visitorLogRow struct {
	ID               string        `db:"id"`
	Name             string        `db:"name"`
	Address          string        `db:"address"`
	ContactNumber    string        `db:"contact_number"`
	HomeOwnerToVisit string        `db:"home_owner_to_visit"`
	PurposeOfVisit   string        `db:"purpose_of_visit"`
	TimeIn           int64         `db:"time_in_ms"`
	TimeOut          sql.NullInt64 `db:"time_out_ms"`
}

func (row visitorLogRow) toModel() persistence.VisitorLog {
	return persistence.VisitorLog{
		ID:               row.ID,
		Name:             row.Name,
		Address:          row.Address,
		ContactNumber:    row.ContactNumber,
		HomeOwnerToVisit: row.HomeOwnerToVisit,
		PurposeOfVisit:   row.PurposeOfVisit,
		TimeIn:           fromMillis(row.TimeIn),
		TimeOut:          fromNullMillis(row.TimeOut),
	}
}

// VisitorLogRepository implements persistence.VisitorLogRepository using SQLite.
// Rows are keyed by the pass qrId.
type VisitorLogRepository struct {
	conn *Conn
}

// NewVisitorLogRepository creates a new SQLite visitor log repository
func NewVisitorLogRepository(conn *Conn) *VisitorLogRepository {
	return &VisitorLogRepository{conn: conn}
}

// PutVisitorLog writes the entry at its id, replacing any previous entry
func (r *VisitorLogRepository) PutVisitorLog(ctx context.Context, log persistence.VisitorLog) error {
	if log.ID == "" {
		return persistence.ErrConstraintViolation
	}

	upsert := r.conn.builder.Insert("visitor_logs").
		Columns(visitorLogColumns...).
		Values(
			log.ID,
			log.Name,
			log.Address,
			log.ContactNumber,
			log.HomeOwnerToVisit,
			log.PurposeOfVisit,
			toMillis(log.TimeIn),
			nullMillis(log.TimeOut),
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			contact_number = excluded.contact_number,
			home_owner_to_visit = excluded.home_owner_to_visit,
			purpose_of_visit = excluded.purpose_of_visit,
			time_in_ms = excluded.time_in_ms,
			time_out_ms = excluded.time_out_ms`)

	return r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := txExec(ctx, tx, upsert); err != nil {
			return err
		}
		return r.conn.enqueue(ctx, tx, log.ID, func(at time.Time) ([]byte, error) {
			return persistence.VisitorLogEvent(persistence.EventVisitorTimeIn, log, at)
		})
	})
}

// MergeVisitorTimeOut sets the time out on an open entry, keeping every other field
func (r *VisitorLogRepository) MergeVisitorTimeOut(ctx context.Context, id string, timeOut time.Time) (persistence.VisitorLog, error) {
	if id == "" {
		return persistence.VisitorLog{}, persistence.ErrNotFound
	}

	var merged persistence.VisitorLog
	err := r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var row visitorLogRow
		if err := txGet(ctx, tx, &row, r.conn.builder.Select(visitorLogColumns...).From("visitor_logs").Where(squirrel.Eq{"id": id})); err != nil {
			return err
		}
		if row.TimeOut.Valid {
			return persistence.ErrConflict
		}

		update := r.conn.builder.Update("visitor_logs").
			Set("time_out_ms", toMillis(timeOut)).
			Where(squirrel.Eq{"id": id, "time_out_ms": nil})
		if _, err := txExec(ctx, tx, update); err != nil {
			return err
		}

		row.TimeOut = sql.NullInt64{Int64: toMillis(timeOut), Valid: true}
		merged = row.toModel()
		return r.conn.enqueue(ctx, tx, id, func(at time.Time) ([]byte, error) {
			return persistence.VisitorLogEvent(persistence.EventVisitorTimeOut, merged, at)
		})
	})
	if err != nil {
		return persistence.VisitorLog{}, err
	}
	return merged, nil
}

// GetVisitorLog retrieves an entry by qrId
func (r *VisitorLogRepository) GetVisitorLog(ctx context.Context, id string) (persistence.VisitorLog, error) {
	if id == "" {
		return persistence.VisitorLog{}, persistence.ErrNotFound
	}

	var row visitorLogRow
	if err := r.conn.get(ctx, &row, r.conn.builder.Select(visitorLogColumns...).From("visitor_logs").Where(squirrel.Eq{"id": id})); err != nil {
		return persistence.VisitorLog{}, err
	}
	return row.toModel(), nil
}

// ListVisitorLogs returns entries newest time in first together with the unpaged total
func (r *VisitorLogRepository) ListVisitorLogs(ctx context.Context, filter persistence.VisitorLogFilter, page persistence.Page) ([]persistence.VisitorLog, int, error) {
	where := squirrel.And{}
	if v := strings.TrimSpace(filter.Name); v != "" {
		where = append(where, containsFold("name", v))
	}
	if v := strings.TrimSpace(filter.HomeOwner); v != "" {
		where = append(where, containsFold("home_owner_to_visit", v))
	}
	if filter.TimeInFrom != nil {
		where = append(where, squirrel.GtOrEq{"time_in_ms": toMillis(*filter.TimeInFrom)})
	}
	if filter.TimeInTo != nil {
		where = append(where, squirrel.LtOrEq{"time_in_ms": toMillis(*filter.TimeInTo)})
	}

	total, err := r.conn.count(ctx, r.conn.builder.Select("COUNT(*)").From("visitor_logs").Where(where))
	if err != nil {
		return nil, 0, err
	}

	query := applyPage(
		r.conn.builder.Select(visitorLogColumns...).From("visitor_logs").Where(where).OrderBy("time_in_ms DESC", "id ASC"),
		page,
	)

	var rows []visitorLogRow
	if err := r.conn.selectAll(ctx, &rows, query); err != nil {
		return nil, 0, err
	}

	logs := make([]persistence.VisitorLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toModel())
	}
	return logs, total, nil
}

// CountVisitorLogs returns the number of visitor log entries
func (r *VisitorLogRepository) CountVisitorLogs(ctx context.Context) (int, error) {
	return r.conn.count(ctx, r.conn.builder.Select("COUNT(*)").From("visitor_logs"))
}
