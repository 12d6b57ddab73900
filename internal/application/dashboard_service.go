package application

import (
	"context"
	"fmt"
	"log/slog"
)

// VehicleCounter counts registered vehicles.
type VehicleCounter interface {
	CountVehicles(ctx context.Context) (int, error)
}

// VehicleLogStatsReader summarises vehicle logs.
type VehicleLogStatsReader interface {
	VehicleLogStats(ctx context.Context) (VehicleLogStats, error)
}

// VisitorLogCounter counts visitor log entries.
type VisitorLogCounter interface {
	CountVisitorLogs(ctx context.Context) (int, error)
}

// DashboardService gathers the landing page counters.
type DashboardService struct {
	vehicles    VehicleCounter
	vehicleLogs VehicleLogStatsReader
	visitorLogs VisitorLogCounter
	logger      *slog.Logger
}

// NewDashboardService wires dependencies for the dashboard service.
func NewDashboardService(vehicles VehicleCounter, vehicleLogs VehicleLogStatsReader, visitorLogs VisitorLogCounter, logger *slog.Logger) *DashboardService {
	return &DashboardService{vehicles: vehicles, vehicleLogs: vehicleLogs, visitorLogs: visitorLogs, logger: defaultLogger(logger)}
}

// Summary returns totals and the latest vehicle entry and exit.
func (s *DashboardService) Summary(ctx context.Context, principal Principal) (summary DashboardSummary, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.vehicles == nil || s.vehicleLogs == nil || s.visitorLogs == nil {
		err = fmt.Errorf("dashboard sources not configured")
		return
	}
	if !principal.Authenticated() {
		err = ErrUnauthorized
		return
	}
	defer func() {
		if err != nil {
			serviceLogger(ctx, s.logger, "DashboardService", "Summary").
				ErrorContext(ctx, "failed to build dashboard", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if summary.RegisteredVehicles, err = s.vehicles.CountVehicles(ctx); err != nil {
		return
	}
	var stats VehicleLogStats
	if stats, err = s.vehicleLogs.VehicleLogStats(ctx); err != nil {
		return
	}
	if summary.VisitorLogs, err = s.visitorLogs.CountVisitorLogs(ctx); err != nil {
		return
	}
	summary.VehicleLogs = stats.Total
	summary.LatestEntry = cloneTime(stats.LatestEntry)
	summary.LatestExit = cloneTime(stats.LatestExit)
	return
}
