package persistence

import (
	"context"
	"time"
)

// Page bounds a list query. A zero Limit returns every matching row.
type Page struct {
	Limit  int
	Offset int
}

// UserFilter narrows user listings.
type UserFilter struct {
	Name string
}

// UserRepository exposes profile and identity operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, identity Identity) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetIdentityByEmail(ctx context.Context, email string) (Identity, error)
	ListUsers(ctx context.Context, filter UserFilter, page Page) ([]User, int, error)
	// DeleteUser removes the identity, its sessions and the profile in one
	// unit. It returns ErrNotFound without writing when the identity is missing.
	DeleteUser(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// VehicleFilter narrows vehicle listings. Text fields match case-insensitive substrings.
type VehicleFilter struct {
	Active      *bool
	Name        string
	PlateNumber string
	PaymentName string
}

// VehicleRepository stores registered vehicles.
type VehicleRepository interface {
	CreateVehicle(ctx context.Context, vehicle Vehicle) error
	UpdateVehicle(ctx context.Context, vehicle Vehicle) error
	SetVehicleActive(ctx context.Context, id string, active bool, at time.Time) (Vehicle, error)
	GetVehicle(ctx context.Context, id string) (Vehicle, error)
	GetVehicleByPlate(ctx context.Context, plateNumber string) (Vehicle, error)
	ListVehicles(ctx context.Context, filter VehicleFilter, page Page) ([]Vehicle, int, error)
	CountVehicles(ctx context.Context) (int, error)
}

// VehicleLogFilter narrows vehicle log listings.
type VehicleLogFilter struct {
	Name        string
	PlateNumber string
	EntryFrom   *time.Time
	EntryTo     *time.Time
	ExitFrom    *time.Time
	ExitTo      *time.Time
}

// VehicleLogRepository stores gate entries and exits.
type VehicleLogRepository interface {
	CreateVehicleLog(ctx context.Context, log VehicleLog) error
	// CloseVehicleLog sets the exit time only when none is recorded yet.
	CloseVehicleLog(ctx context.Context, id string, exit time.Time) (VehicleLog, error)
	GetVehicleLog(ctx context.Context, id string) (VehicleLog, error)
	ListVehicleLogs(ctx context.Context, filter VehicleLogFilter, page Page) ([]VehicleLog, int, error)
	VehicleLogStats(ctx context.Context) (VehicleLogStats, error)
}

// VisitorLogFilter narrows visitor log listings.
type VisitorLogFilter struct {
	Name       string
	HomeOwner  string
	TimeInFrom *time.Time
	TimeInTo   *time.Time
}

// VisitorLogRepository stores visitor check-ins keyed by qrId.
type VisitorLogRepository interface {
	// PutVisitorLog writes the entry at its id, replacing any existing one.
	PutVisitorLog(ctx context.Context, log VisitorLog) error
	// MergeVisitorTimeOut sets TimeOut on an existing entry that has none.
	// It returns ErrNotFound or ErrConflict without writing otherwise.
	MergeVisitorTimeOut(ctx context.Context, id string, timeOut time.Time) (VisitorLog, error)
	GetVisitorLog(ctx context.Context, id string) (VisitorLog, error)
	ListVisitorLogs(ctx context.Context, filter VisitorLogFilter, page Page) ([]VisitorLog, int, error)
	CountVisitorLogs(ctx context.Context) (int, error)
}

// OutboxRepository hands pending events to the relay.
type OutboxRepository interface {
	ClaimOutbox(ctx context.Context, limit, maxAttempts int) ([]OutboxMessage, error)
	MarkOutboxDone(ctx context.Context, id int64, at time.Time) error
	MarkOutboxFailed(ctx context.Context, id int64, attempts int, reason string, final bool) error
	// RequeueOutbox returns every PROCESSING message to PENDING. It is run
	// before the relay starts, when no claim can be in flight.
	RequeueOutbox(ctx context.Context) (int, error)
}
