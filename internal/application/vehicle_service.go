package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// VehicleRepository stores registered vehicles.
type VehicleRepository interface {
	CreateVehicle(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	SetVehicleActive(ctx context.Context, id string, active bool, at time.Time) (Vehicle, error)
	GetVehicle(ctx context.Context, id string) (Vehicle, error)
	GetVehicleByPlate(ctx context.Context, plateNumber string) (Vehicle, error)
	ListVehicles(ctx context.Context, filter VehicleFilter, page PageRequest) ([]Vehicle, int, error)
	CountVehicles(ctx context.Context) (int, error)
}

// VehicleService registers vehicles and moves them between the active and archived views.
type VehicleService struct {
	vehicles    VehicleRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewVehicleService wires dependencies for the vehicle service.
func NewVehicleService(vehicles VehicleRepository, idGenerator func() string, now func() time.Time) *VehicleService {
	return NewVehicleServiceWithLogger(vehicles, idGenerator, now, nil)
}

// NewVehicleServiceWithLogger wires dependencies for the vehicle service with a logger.
func NewVehicleServiceWithLogger(vehicles VehicleRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *VehicleService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &VehicleService{vehicles: vehicles, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *VehicleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "VehicleService", operation, attrs...)
}

func (s *VehicleService) ready() error {
	if s == nil {
		return fmt.Errorf("VehicleService is nil")
	}
	if s.vehicles == nil {
		return fmt.Errorf("vehicle repository not configured")
	}
	return nil
}

// RegisterVehicle stores a new active vehicle with its payment due one month after registration.
func (s *VehicleService) RegisterVehicle(ctx context.Context, principal Principal, input VehicleInput) (vehicle Vehicle, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "RegisterVehicle", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to register vehicle", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "vehicle registered", "vehicle_id", vehicle.ID, "plate_number", vehicle.PlateNumber)
	}()

	if !principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	normalized, vErr := validateVehicleInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	normalized.ID = s.idGenerator()
	normalized.DateRegistered = now
	normalized.PaymentDueDate = now.AddDate(0, 1, 0)
	normalized.IsActive = true
	normalized.UpdatedAt = now

	if vehicle, err = s.vehicles.CreateVehicle(ctx, normalized); err != nil {
		err = mapRepoError(err)
	}
	return
}

// UpdateVehicle overwrites the editable fields and keeps registration, due date and archive state.
func (s *VehicleService) UpdateVehicle(ctx context.Context, principal Principal, id string, input VehicleInput) (vehicle Vehicle, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "UpdateVehicle", "principal_id", principal.UserID, "vehicle_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update vehicle", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "vehicle updated")
	}()

	if !principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	var existing Vehicle
	if existing, err = s.vehicles.GetVehicle(ctx, id); err != nil {
		err = mapRepoError(err)
		return
	}
	normalized, vErr := validateVehicleInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = normalized.Name
	updated.PlateNumber = normalized.PlateNumber
	updated.Category = normalized.Category
	updated.PaymentName = normalized.PaymentName
	updated.PaymentStatus = normalized.PaymentStatus
	updated.UpdatedAt = s.now()

	if vehicle, err = s.vehicles.UpdateVehicle(ctx, updated); err != nil {
		err = mapRepoError(err)
	}
	return
}

// ArchiveVehicle hides a vehicle from the active view.
func (s *VehicleService) ArchiveVehicle(ctx context.Context, principal Principal, id string) (Vehicle, error) {
	return s.setActive(ctx, principal, id, false)
}

// UnarchiveVehicle restores an archived vehicle to the active view.
func (s *VehicleService) UnarchiveVehicle(ctx context.Context, principal Principal, id string) (Vehicle, error) {
	return s.setActive(ctx, principal, id, true)
}

func (s *VehicleService) setActive(ctx context.Context, principal Principal, id string, active bool) (vehicle Vehicle, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "SetVehicleActive", "principal_id", principal.UserID, "vehicle_id", id, "active", active)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to change vehicle state", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "vehicle state changed")
	}()

	if !principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	if vehicle, err = s.vehicles.SetVehicleActive(ctx, strings.TrimSpace(id), active, s.now()); err != nil {
		err = mapRepoError(err)
	}
	return
}

// GetVehicle returns one vehicle, active or archived.
func (s *VehicleService) GetVehicle(ctx context.Context, principal Principal, id string) (Vehicle, error) {
	if err := s.ready(); err != nil {
		return Vehicle{}, err
	}
	if !principal.Authenticated() {
		return Vehicle{}, ErrUnauthorized
	}
	vehicle, err := s.vehicles.GetVehicle(ctx, strings.TrimSpace(id))
	if err != nil {
		return Vehicle{}, mapRepoError(err)
	}
	return vehicle, nil
}

// ListVehicles returns one page of the active or archived view sorted by name.
func (s *VehicleService) ListVehicles(ctx context.Context, principal Principal, filter VehicleFilter, page PageRequest) (Paged[Vehicle], error) {
	if err := s.ready(); err != nil {
		return Paged[Vehicle]{}, err
	}
	if !principal.Authenticated() {
		return Paged[Vehicle]{}, ErrUnauthorized
	}

	filter.Name = strings.TrimSpace(filter.Name)
	filter.PlateNumber = strings.TrimSpace(filter.PlateNumber)
	filter.PaymentName = strings.TrimSpace(filter.PaymentName)
	page = page.Normalize()

	vehicles, total, err := s.vehicles.ListVehicles(ctx, filter, page)
	if err != nil {
		s.loggerWith(ctx, "ListVehicles").ErrorContext(ctx, "failed to list vehicles", "error", err, "error_kind", ErrorKind(err))
		return Paged[Vehicle]{}, mapRepoError(err)
	}
	return newPaged(vehicles, page, total), nil
}

func validateVehicleInput(input VehicleInput) (Vehicle, *ValidationError) {
	vErr := &ValidationError{}
	vehicle := Vehicle{
		Name:        strings.TrimSpace(input.Name),
		PlateNumber: strings.TrimSpace(input.PlateNumber),
		PaymentName: strings.TrimSpace(input.PaymentName),
	}

	if vehicle.Name == "" {
		vErr.add("name", "name is required")
	}
	if vehicle.PlateNumber == "" {
		vErr.add("plate_number", "plate number is required")
	}
	if vehicle.PaymentName == "" {
		vErr.add("payment_name", "payment name is required")
	}

	switch category := VehicleCategory(strings.ToUpper(strings.TrimSpace(input.Category))); category {
	case CategoryHomeowner, CategoryVisitor:
		vehicle.Category = category
	default:
		vErr.add("category", "category must be HOMEOWNER or VISITOR")
	}

	switch status := PaymentStatus(strings.ToUpper(strings.TrimSpace(input.PaymentStatus))); status {
	case PaymentPaid, PaymentUnpaid:
		vehicle.PaymentStatus = status
	default:
		vErr.add("payment_status", "payment status must be PAID or UNPAID")
	}

	return vehicle, vErr
}
