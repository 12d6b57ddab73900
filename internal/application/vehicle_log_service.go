package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// VehicleLogRepository stores gate entries and exits.
type VehicleLogRepository interface {
	CreateVehicleLog(ctx context.Context, log VehicleLog) (VehicleLog, error)
	// CloseVehicleLog sets the exit time only when none is recorded yet.
	CloseVehicleLog(ctx context.Context, id string, exit time.Time) (VehicleLog, error)
	GetVehicleLog(ctx context.Context, id string) (VehicleLog, error)
	ListVehicleLogs(ctx context.Context, filter VehicleLogFilter, page PageRequest) ([]VehicleLog, int, error)
	VehicleLogStats(ctx context.Context) (VehicleLogStats, error)
}

// VehicleLookup resolves the registered vehicle behind a gate entry.
type VehicleLookup interface {
	GetVehicle(ctx context.Context, id string) (Vehicle, error)
	GetVehicleByPlate(ctx context.Context, plateNumber string) (Vehicle, error)
}

// VehicleLogService records vehicles entering and leaving and serves the log views.
type VehicleLogService struct {
	logs        VehicleLogRepository
	vehicles    VehicleLookup
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewVehicleLogService wires dependencies for the vehicle log service.
func NewVehicleLogService(logs VehicleLogRepository, vehicles VehicleLookup, idGenerator func() string, now func() time.Time) *VehicleLogService {
	return NewVehicleLogServiceWithLogger(logs, vehicles, idGenerator, now, nil)
}

// NewVehicleLogServiceWithLogger wires dependencies for the vehicle log service with a logger.
func NewVehicleLogServiceWithLogger(logs VehicleLogRepository, vehicles VehicleLookup, idGenerator func() string, now func() time.Time, logger *slog.Logger) *VehicleLogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &VehicleLogService{logs: logs, vehicles: vehicles, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *VehicleLogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "VehicleLogService", operation, attrs...)
}

func (s *VehicleLogService) ready() error {
	if s == nil {
		return fmt.Errorf("VehicleLogService is nil")
	}
	if s.logs == nil || s.vehicles == nil {
		return fmt.Errorf("vehicle log repositories not configured")
	}
	return nil
}

// RecordEntry opens a log for an active registered vehicle found by id or, failing that, by plate number.
func (s *VehicleLogService) RecordEntry(ctx context.Context, params RecordEntryParams) (entry VehicleLog, err error) {
	if err = s.ready(); err != nil {
		return
	}
	vehicleID := strings.TrimSpace(params.VehicleID)
	plate := strings.TrimSpace(params.PlateNumber)
	logger := s.loggerWith(ctx, "RecordEntry", "principal_id", params.Principal.UserID, "vehicle_id", vehicleID, "plate_number", plate)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to record vehicle entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "vehicle entry recorded", "log_id", entry.ID)
	}()

	if !params.Principal.Authenticated() {
		err = ErrUnauthorized
		return
	}

	var vehicle Vehicle
	switch {
	case vehicleID != "":
		vehicle, err = s.vehicles.GetVehicle(ctx, vehicleID)
	case plate != "":
		vehicle, err = s.vehicles.GetVehicleByPlate(ctx, plate)
	default:
		err = &ValidationError{FieldErrors: map[string]string{"vehicle_id": "vehicle id or plate number is required"}}
		return
	}
	if err != nil {
		err = mapRepoError(err)
		if errors.Is(err, ErrNotFound) {
			err = &ValidationError{FieldErrors: map[string]string{"vehicle_id": "vehicle is not registered"}}
		}
		return
	}
	if !vehicle.IsActive {
		err = &ValidationError{FieldErrors: map[string]string{"vehicle_id": "vehicle is archived"}}
		return
	}

	if entry, err = s.logs.CreateVehicleLog(ctx, VehicleLog{
		ID:          s.idGenerator(),
		VehicleID:   vehicle.ID,
		PlateNumber: vehicle.PlateNumber,
		Category:    vehicle.Category,
		OwnerName:   vehicle.Name,
		Entry:       s.now(),
	}); err != nil {
		err = mapRepoError(err)
	}
	return
}

// RecordExit stamps the exit time once. A second exit reports ErrConflict and writes nothing.
func (s *VehicleLogService) RecordExit(ctx context.Context, principal Principal, logID string) (entry VehicleLog, err error) {
	if err = s.ready(); err != nil {
		return
	}
	id := strings.TrimSpace(logID)
	logger := s.loggerWith(ctx, "RecordExit", "principal_id", principal.UserID, "log_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to record vehicle exit", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "vehicle exit recorded")
	}()

	if !principal.Authenticated() {
		err = ErrUnauthorized
		return
	}
	if id == "" {
		err = ErrNotFound
		return
	}
	if entry, err = s.logs.CloseVehicleLog(ctx, id, s.now()); err != nil {
		err = mapRepoError(err)
	}
	return
}

// GetVehicleLog returns one log entry.
func (s *VehicleLogService) GetVehicleLog(ctx context.Context, principal Principal, logID string) (VehicleLog, error) {
	if err := s.ready(); err != nil {
		return VehicleLog{}, err
	}
	if !principal.Authenticated() {
		return VehicleLog{}, ErrUnauthorized
	}
	entry, err := s.logs.GetVehicleLog(ctx, strings.TrimSpace(logID))
	if err != nil {
		return VehicleLog{}, mapRepoError(err)
	}
	return entry, nil
}

// ListVehicleLogs returns one page, newest entry first.
func (s *VehicleLogService) ListVehicleLogs(ctx context.Context, principal Principal, filter VehicleLogFilter, page PageRequest) (Paged[VehicleLog], error) {
	page = page.Normalize()
	logs, total, err := s.list(ctx, principal, filter, page)
	if err != nil {
		return Paged[VehicleLog]{}, err
	}
	return newPaged(logs, page, total), nil
}

// ExportVehicleLogs returns every log matching the filter, newest entry first. Administrators only.
func (s *VehicleLogService) ExportVehicleLogs(ctx context.Context, principal Principal, filter VehicleLogFilter) ([]VehicleLog, error) {
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}
	logs, _, err := s.list(ctx, principal, filter, All())
	return logs, err
}

func (s *VehicleLogService) list(ctx context.Context, principal Principal, filter VehicleLogFilter, page PageRequest) ([]VehicleLog, int, error) {
	if err := s.ready(); err != nil {
		return nil, 0, err
	}
	if !principal.Authenticated() {
		return nil, 0, ErrUnauthorized
	}

	filter.Name = strings.TrimSpace(filter.Name)
	filter.PlateNumber = strings.TrimSpace(filter.PlateNumber)
	vErr := &ValidationError{}
	checkRange(vErr, "entry", filter.EntryFrom, filter.EntryTo)
	checkRange(vErr, "exit", filter.ExitFrom, filter.ExitTo)
	if vErr.HasErrors() {
		return nil, 0, vErr
	}

	logs, total, err := s.logs.ListVehicleLogs(ctx, filter, page)
	if err != nil {
		s.loggerWith(ctx, "ListVehicleLogs").ErrorContext(ctx, "failed to list vehicle logs", "error", err, "error_kind", ErrorKind(err))
		return nil, 0, mapRepoError(err)
	}
	return logs, total, nil
}

func checkRange(vErr *ValidationError, field string, from, to *time.Time) {
	if from != nil && to != nil && from.After(*to) {
		vErr.add(field, field+" range start is after its end")
	}
}
