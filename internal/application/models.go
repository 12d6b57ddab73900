package application

import (
	"strings"
	"time"
)

// Role is the console permission level of a user.
type Role string

const (
	// RoleAdmin manages users and vehicles.
	RoleAdmin Role = "ADMIN"
	// RoleGuard works the gate: logs, passes and read access.
	RoleGuard Role = "GUARD"
)

// ParseRole normalises a role name and reports whether it is known.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleGuard:
		return RoleGuard, true
	}
	return "", false
}

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
	Name   string
	Role   Role
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.UserID != "" && p.Role == RoleAdmin
}

// CanRedeem reports whether the principal may record visitor passes at the gate.
func (p Principal) CanRedeem() bool {
	return p.UserID != "" && (p.Role == RoleAdmin || p.Role == RoleGuard)
}

// Authenticated reports whether the principal came from a validated session.
func (p Principal) Authenticated() bool {
	return p.UserID != ""
}

// User is a console account profile.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserInput captures caller provided user fields. Passwords are only read on create.
type UserInput struct {
	Name            string
	Email           string
	Role            string
	Password        string
	ConfirmPassword string
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update an existing user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// ListUsersParams filters the user listing by a case-insensitive name substring.
type ListUsersParams struct {
	Principal Principal
	Name      string
	Page      PageRequest
}

// UserFilter is the repository form of ListUsersParams.
type UserFilter struct {
	Name string
}

// UserCredentials bundles stored authentication material for a user account.
type UserCredentials struct {
	User         User
	PasswordHash string
	Disabled     bool
}

// Session describes an issued authentication session.
type Session struct {
	ID          string
	UserID      string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}

// AuthenticateParams carries sign-in input.
type AuthenticateParams struct {
	Email       string
	Password    string
	Fingerprint string
}

// AuthenticateResult is returned after a successful sign-in.
type AuthenticateResult struct {
	User    User
	Session Session
}

// RefreshSessionParams identifies the session to rotate.
type RefreshSessionParams struct {
	Token       string
	Fingerprint string
}

// RefreshSessionResult contains the rotated session.
type RefreshSessionResult struct {
	Session Session
}

// VehicleCategory tells homeowner vehicles apart from visitor vehicles.
type VehicleCategory string

const (
	CategoryHomeowner VehicleCategory = "HOMEOWNER"
	CategoryVisitor   VehicleCategory = "VISITOR"
)

// PaymentStatus is the dues state of a registered vehicle.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "PAID"
	PaymentUnpaid PaymentStatus = "UNPAID"
)

// Vehicle is a registered vehicle.
type Vehicle struct {
	ID             string
	Name           string
	PlateNumber    string
	Category       VehicleCategory
	PaymentName    string
	PaymentStatus  PaymentStatus
	PaymentDueDate time.Time
	DateRegistered time.Time
	IsActive       bool
	UpdatedAt      time.Time
}

// VehicleInput holds the editable vehicle fields.
type VehicleInput struct {
	Name          string
	PlateNumber   string
	Category      string
	PaymentName   string
	PaymentStatus string
}

// VehicleFilter narrows vehicle listings. Archived selects the archived view.
type VehicleFilter struct {
	Archived    bool
	Name        string
	PlateNumber string
	PaymentName string
}

// VehicleLog is one pass of a vehicle through the gate.
type VehicleLog struct {
	ID          string
	VehicleID   string
	PlateNumber string
	Category    VehicleCategory
	OwnerName   string
	Entry       time.Time
	Exit        *time.Time
}

// VehicleLogFilter narrows vehicle log listings. Ranges are inclusive.
type VehicleLogFilter struct {
	Name        string
	PlateNumber string
	EntryFrom   *time.Time
	EntryTo     *time.Time
	ExitFrom    *time.Time
	ExitTo      *time.Time
}

// RecordEntryParams identifies the vehicle entering, by id or by plate number.
type RecordEntryParams struct {
	Principal   Principal
	VehicleID   string
	PlateNumber string
}

// VehicleLogStats summarises the vehicle log collection.
type VehicleLogStats struct {
	Total       int
	LatestEntry *time.Time
	LatestExit  *time.Time
}

// VisitorLog is the check-in record stored under the pass qrId.
type VisitorLog struct {
	ID               string
	Name             string
	Address          string
	ContactNumber    string
	HomeOwnerToVisit string
	PurposeOfVisit   string
	TimeIn           time.Time
	TimeOut          *time.Time
}

// VisitorLogFilter narrows visitor log listings.
type VisitorLogFilter struct {
	Name       string
	HomeOwner  string
	TimeInFrom *time.Time
	TimeInTo   *time.Time
}

// DashboardSummary holds the landing page counters.
type DashboardSummary struct {
	RegisteredVehicles int
	VehicleLogs        int
	VisitorLogs        int
	LatestEntry        *time.Time
	LatestExit         *time.Time
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
