package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/example/visitor-console/internal/persistence"
)

var vehicleColumns = []string{
	"id", "name", "plate_number", "category", "payment_name", "payment_status",
	"payment_due_at_ms", "registered_at_ms", "is_active", "updated_at_ms",
}

type vehicleRow struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	PlateNumber    string `db:"plate_number"`
	Category       string `db:"category"`
	PaymentName    string `db:"payment_name"`
	PaymentStatus  string `db:"payment_status"`
	PaymentDueDate int64  `db:"payment_due_at_ms"`
	DateRegistered int64  `db:"registered_at_ms"`
	IsActive       bool   `db:"is_active"`
	UpdatedAt      int64  `db:"updated_at_ms"`
}

func (row vehicleRow) toModel() persistence.Vehicle {
	return persistence.Vehicle{
		ID:             row.ID,
		Name:           row.Name,
		PlateNumber:    row.PlateNumber,
		Category:       row.Category,
		PaymentName:    row.PaymentName,
		PaymentStatus:  row.PaymentStatus,
		PaymentDueDate: fromMillis(row.PaymentDueDate),
		DateRegistered: fromMillis(row.DateRegistered),
		IsActive:       row.IsActive,
		UpdatedAt:      fromMillis(row.UpdatedAt),
	}
}

// VehicleRepository implements persistence.VehicleRepository using SQLite
type VehicleRepository struct {
	conn *Conn
}

// NewVehicleRepository creates a new SQLite vehicle repository
func NewVehicleRepository(conn *Conn) *VehicleRepository {
	return &VehicleRepository{conn: conn}
}

// CreateVehicle registers a new vehicle
func (r *VehicleRepository) CreateVehicle(ctx context.Context, vehicle persistence.Vehicle) error {
	if vehicle.ID == "" {
		return persistence.ErrConstraintViolation
	}

	insert := r.conn.builder.Insert("vehicles").
		Columns(vehicleColumns...).
		Values(
			vehicle.ID,
			vehicle.Name,
			strings.TrimSpace(vehicle.PlateNumber),
			vehicle.Category,
			vehicle.PaymentName,
			vehicle.PaymentStatus,
			toMillis(vehicle.PaymentDueDate),
			toMillis(vehicle.DateRegistered),
			boolToInt(vehicle.IsActive),
			toMillis(vehicle.UpdatedAt),
		)

	return r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := txExec(ctx, tx, insert)
		return err
	})
}

// UpdateVehicle overwrites the editable fields. DateRegistered and IsActive are kept.
func (r *VehicleRepository) UpdateVehicle(ctx context.Context, vehicle persistence.Vehicle) error {
	update := r.conn.builder.Update("vehicles").
		Set("name", vehicle.Name).
		Set("plate_number", strings.TrimSpace(vehicle.PlateNumber)).
		Set("category", vehicle.Category).
		Set("payment_name", vehicle.PaymentName).
		Set("payment_status", vehicle.PaymentStatus).
		Set("payment_due_at_ms", toMillis(vehicle.PaymentDueDate)).
		Set("updated_at_ms", toMillis(vehicle.UpdatedAt)).
		Where(squirrel.Eq{"id": vehicle.ID})

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

// SetVehicleActive archives or restores a vehicle and returns the stored row
func (r *VehicleRepository) SetVehicleActive(ctx context.Context, id string, active bool, at time.Time) (persistence.Vehicle, error) {
	var vehicle persistence.Vehicle
	err := r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		update := r.conn.builder.Update("vehicles").
			Set("is_active", boolToInt(active)).
			Set("updated_at_ms", toMillis(at)).
			Where(squirrel.Eq{"id": id})
		affected, err := txExec(ctx, tx, update)
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		var row vehicleRow
		if err := txGet(ctx, tx, &row, r.conn.builder.Select(vehicleColumns...).From("vehicles").Where(squirrel.Eq{"id": id})); err != nil {
			return err
		}
		vehicle = row.toModel()
		return nil
	})
	if err != nil {
		return persistence.Vehicle{}, err
	}
	return vehicle, nil
}

// GetVehicle retrieves a vehicle by ID
func (r *VehicleRepository) GetVehicle(ctx context.Context, id string) (persistence.Vehicle, error) {
	if id == "" {
		return persistence.Vehicle{}, persistence.ErrNotFound
	}

	var row vehicleRow
	if err := r.conn.get(ctx, &row, r.conn.builder.Select(vehicleColumns...).From("vehicles").Where(squirrel.Eq{"id": id})); err != nil {
		return persistence.Vehicle{}, err
	}
	return row.toModel(), nil
}

// GetVehicleByPlate finds the most recently registered active vehicle with the plate
func (r *VehicleRepository) GetVehicleByPlate(ctx context.Context, plateNumber string) (persistence.Vehicle, error) {
	plateNumber = strings.TrimSpace(plateNumber)
	if plateNumber == "" {
		return persistence.Vehicle{}, persistence.ErrNotFound
	}

	query := r.conn.builder.Select(vehicleColumns...).
		From("vehicles").
		Where(squirrel.Expr("plate_number = ? COLLATE NOCASE", plateNumber)).
		Where(squirrel.Eq{"is_active": 1}).
		OrderBy("registered_at_ms DESC").
		Limit(1)

	var row vehicleRow
	if err := r.conn.get(ctx, &row, query); err != nil {
		return persistence.Vehicle{}, err
	}
	return row.toModel(), nil
}

// ListVehicles returns vehicles ordered by name together with the unpaged total
func (r *VehicleRepository) ListVehicles(ctx context.Context, filter persistence.VehicleFilter, page persistence.Page) ([]persistence.Vehicle, int, error) {
	where := squirrel.And{}
	if filter.Active != nil {
		where = append(where, squirrel.Eq{"is_active": boolToInt(*filter.Active)})
	}
	if v := strings.TrimSpace(filter.Name); v != "" {
		where = append(where, containsFold("name", v))
	}
	if v := strings.TrimSpace(filter.PlateNumber); v != "" {
		where = append(where, containsFold("plate_number", v))
	}
	if v := strings.TrimSpace(filter.PaymentName); v != "" {
		where = append(where, containsFold("payment_name", v))
	}

	total, err := r.conn.count(ctx, r.conn.builder.Select("COUNT(*)").From("vehicles").Where(where))
	if err != nil {
		return nil, 0, err
	}

	query := applyPage(
		r.conn.builder.Select(vehicleColumns...).From("vehicles").Where(where).OrderBy("name ASC", "id ASC"),
		page,
	)

	var rows []vehicleRow
	if err := r.conn.selectAll(ctx, &rows, query); err != nil {
		return nil, 0, err
	}

	vehicles := make([]persistence.Vehicle, 0, len(rows))
	for _, row := range rows {
		vehicles = append(vehicles, row.toModel())
	}
	return vehicles, total, nil
}

// CountVehicles returns the number of registered vehicles, archived included
func (r *VehicleRepository) CountVehicles(ctx context.Context) (int, error) {
	return r.conn.count(ctx, r.conn.builder.Select("COUNT(*)").From("vehicles"))
}
