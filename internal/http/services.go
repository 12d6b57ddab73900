package http

import (
	"context"

	"github.com/example/visitor-console/internal/application"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// AuthService signs principals in and out.
type AuthService interface {
	Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error)
	RefreshSession(ctx context.Context, params application.RefreshSessionParams) (application.RefreshSessionResult, error)
	RevokeSession(ctx context.Context, token string) error
	RevokeSessionAsAdmin(ctx context.Context, principal application.Principal, token string) error
}

// SessionValidator resolves a session token to its principal.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// UserService manages console accounts.
type UserService interface {
	CreateUser(ctx context.Context, params application.CreateUserParams) (application.User, error)
	GetUser(ctx context.Context, principal application.Principal, userID string) (application.User, error)
	UpdateUser(ctx context.Context, params application.UpdateUserParams) (application.User, error)
	DeleteUser(ctx context.Context, principal application.Principal, userID string) error
	ListUsers(ctx context.Context, params application.ListUsersParams) (application.Paged[application.User], error)
}

// VehicleService manages registered vehicles.
type VehicleService interface {
	RegisterVehicle(ctx context.Context, principal application.Principal, input application.VehicleInput) (application.Vehicle, error)
	UpdateVehicle(ctx context.Context, principal application.Principal, id string, input application.VehicleInput) (application.Vehicle, error)
	ArchiveVehicle(ctx context.Context, principal application.Principal, id string) (application.Vehicle, error)
	UnarchiveVehicle(ctx context.Context, principal application.Principal, id string) (application.Vehicle, error)
	GetVehicle(ctx context.Context, principal application.Principal, id string) (application.Vehicle, error)
	ListVehicles(ctx context.Context, principal application.Principal, filter application.VehicleFilter, page application.PageRequest) (application.Paged[application.Vehicle], error)
}

// VehicleLogService records vehicles at the gate.
type VehicleLogService interface {
	RecordEntry(ctx context.Context, params application.RecordEntryParams) (application.VehicleLog, error)
	RecordExit(ctx context.Context, principal application.Principal, logID string) (application.VehicleLog, error)
	GetVehicleLog(ctx context.Context, principal application.Principal, logID string) (application.VehicleLog, error)
	ListVehicleLogs(ctx context.Context, principal application.Principal, filter application.VehicleLogFilter, page application.PageRequest) (application.Paged[application.VehicleLog], error)
	ExportVehicleLogs(ctx context.Context, principal application.Principal, filter application.VehicleLogFilter) ([]application.VehicleLog, error)
}

// VisitorLogService reads visitor check-ins.
type VisitorLogService interface {
	GetVisitorLog(ctx context.Context, principal application.Principal, id string) (application.VisitorLog, error)
	ListVisitorLogs(ctx context.Context, principal application.Principal, filter application.VisitorLogFilter, page application.PageRequest) (application.Paged[application.VisitorLog], error)
	ExportVisitorLogs(ctx context.Context, principal application.Principal, filter application.VisitorLogFilter) ([]application.VisitorLog, error)
}

// PassService issues and redeems QR passes.
type PassService interface {
	IssueVisitorPass(ctx context.Context, input application.VisitorPassInput) (application.IssuedPass, error)
	IssueHomeownerPass(ctx context.Context, pass application.HomeownerPass) (application.IssuedHomeownerPass, error)
	ScanPass(ctx context.Context, principal application.Principal, input application.ScanInput) (application.ScanResult, error)
	RedeemPass(ctx context.Context, principal application.Principal, input application.RedeemInput) (application.RedeemResult, error)
}

// DashboardService builds the landing page counters.
type DashboardService interface {
	Summary(ctx context.Context, principal application.Principal) (application.DashboardSummary, error)
}
