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

var vehicleLogSelect = []string{
	"l.id", "l.vehicle_id", "l.plate_number", "l.category", "l.entry_at_ms", "l.exit_at_ms",
	"COALESCE(v.name, '') AS owner_name",
}

type vehicleLogRow struct {
	ID          string        `db:"id"`
	VehicleID   string        `db:"vehicle_id"`
	PlateNumber string        `db:"plate_number"`
	Category    string        `db:"category"`
	Entry       int64         `db:"entry_at_ms"`
	Exit        sql.NullInt64 `db:"exit_at_ms"`
	OwnerName   string        `db:"owner_name"`
}

func (row vehicleLogRow) toModel() persistence.VehicleLog {
	return persistence.VehicleLog{
		ID:          row.ID,
		VehicleID:   row.VehicleID,
		PlateNumber: row.PlateNumber,
		Category:    row.Category,
		Entry:       fromMillis(row.Entry),
		Exit:        fromNullMillis(row.Exit),
		OwnerName:   row.OwnerName,
	}
}

// VehicleLogRepository implements persistence.VehicleLogRepository using SQLite
type VehicleLogRepository struct {
	conn *Conn
}

// NewVehicleLogRepository creates a new SQLite vehicle log repository
func NewVehicleLogRepository(conn *Conn) *VehicleLogRepository {
	return &VehicleLogRepository{conn: conn}
}

func (r *VehicleLogRepository) selectLogs() squirrel.SelectBuilder {
	return r.conn.builder.Select(vehicleLogSelect...).
		From("vehicle_logs l").
		LeftJoin("vehicles v ON v.id = l.vehicle_id")
}

// CreateVehicleLog records a gate entry
func (r *VehicleLogRepository) CreateVehicleLog(ctx context.Context, log persistence.VehicleLog) error {
	if log.ID == "" {
		return persistence.ErrConstraintViolation
	}

	insert := r.conn.builder.Insert("vehicle_logs").
		Columns("id", "vehicle_id", "plate_number", "category", "entry_at_ms", "exit_at_ms").
		Values(log.ID, log.VehicleID, log.PlateNumber, log.Category, toMillis(log.Entry), nullMillis(log.Exit))

	return r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := txExec(ctx, tx, insert); err != nil {
			return err
		}
		return r.conn.enqueue(ctx, tx, log.ID, func(at time.Time) ([]byte, error) {
			return persistence.VehicleLogEvent(persistence.EventVehicleEntry, log, at)
		})
	})
}

// CloseVehicleLog sets the exit time when none is recorded yet.
// It returns ErrNotFound for an unknown id and ErrConflict when the exit is already set.
func (r *VehicleLogRepository) CloseVehicleLog(ctx context.Context, id string, exit time.Time) (persistence.VehicleLog, error) {
	var closed persistence.VehicleLog
	err := r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		update := r.conn.builder.Update("vehicle_logs").
			Set("exit_at_ms", toMillis(exit)).
			Where(squirrel.Eq{"id": id, "exit_at_ms": nil})
		affected, err := txExec(ctx, tx, update)
		if err != nil {
			return err
		}

		var row vehicleLogRow
		if err := txGet(ctx, tx, &row, r.selectLogs().Where(squirrel.Eq{"l.id": id})); err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrConflict
		}

		closed = row.toModel()
		return r.conn.enqueue(ctx, tx, id, func(at time.Time) ([]byte, error) {
			return persistence.VehicleLogEvent(persistence.EventVehicleExit, closed, at)
		})
	})
	if err != nil {
		return persistence.VehicleLog{}, err
	}
	return closed, nil
}

// GetVehicleLog retrieves a log with its owner name
func (r *VehicleLogRepository) GetVehicleLog(ctx context.Context, id string) (persistence.VehicleLog, error) {
	if id == "" {
		return persistence.VehicleLog{}, persistence.ErrNotFound
	}

	var row vehicleLogRow
	if err := r.conn.get(ctx, &row, r.selectLogs().Where(squirrel.Eq{"l.id": id})); err != nil {
		return persistence.VehicleLog{}, err
	}
	return row.toModel(), nil
}

// ListVehicleLogs returns logs newest entry first together with the unpaged total.
// A name filter only matches logs whose vehicle is registered.
func (r *VehicleLogRepository) ListVehicleLogs(ctx context.Context, filter persistence.VehicleLogFilter, page persistence.Page) ([]persistence.VehicleLog, int, error) {
	where := squirrel.And{}
	if v := strings.TrimSpace(filter.Name); v != "" {
		where = append(where, containsFold("v.name", v))
	}
	if v := strings.TrimSpace(filter.PlateNumber); v != "" {
		where = append(where, containsFold("l.plate_number", v))
	}
	if filter.EntryFrom != nil {
		where = append(where, squirrel.GtOrEq{"l.entry_at_ms": toMillis(*filter.EntryFrom)})
	}
	if filter.EntryTo != nil {
		where = append(where, squirrel.LtOrEq{"l.entry_at_ms": toMillis(*filter.EntryTo)})
	}
	if filter.ExitFrom != nil {
		where = append(where, squirrel.GtOrEq{"l.exit_at_ms": toMillis(*filter.ExitFrom)})
	}
	if filter.ExitTo != nil {
		where = append(where, squirrel.LtOrEq{"l.exit_at_ms": toMillis(*filter.ExitTo)})
	}

	countQuery := r.conn.builder.Select("COUNT(*)").
		From("vehicle_logs l").
		LeftJoin("vehicles v ON v.id = l.vehicle_id").
		Where(where)
	total, err := r.conn.count(ctx, countQuery)
	if err != nil {
		return nil, 0, err
	}

	query := applyPage(r.selectLogs().Where(where).OrderBy("l.entry_at_ms DESC", "l.id ASC"), page)

	var rows []vehicleLogRow
	if err := r.conn.selectAll(ctx, &rows, query); err != nil {
		return nil, 0, err
	}

	logs := make([]persistence.VehicleLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toModel())
	}
	return logs, total, nil
}

// VehicleLogStats returns the total number of logs and the latest entry and exit
func (r *VehicleLogRepository) VehicleLogStats(ctx context.Context) (persistence.VehicleLogStats, error) {
	var row struct {
		Total       int           `db:"total"`
		LatestEntry sql.NullInt64 `db:"latest_entry"`
		LatestExit  sql.NullInt64 `db:"latest_exit"`
	}

	query := r.conn.builder.
		Select("COUNT(*) AS total", "MAX(entry_at_ms) AS latest_entry", "MAX(exit_at_ms) AS latest_exit").
		From("vehicle_logs")
	if err := r.conn.get(ctx, &row, query); err != nil {
		return persistence.VehicleLogStats{}, err
	}

	return persistence.VehicleLogStats{
		Total:       row.Total,
		LatestEntry: fromNullMillis(row.LatestEntry),
		LatestExit:  fromNullMillis(row.LatestExit),
	}, nil
}
