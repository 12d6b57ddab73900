package persistence

import "time"

// User is the console profile stored under Users/{id}.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the sign-in account that backs a user profile.
type Identity struct {
	UserID       string
	Email        string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for a user.
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

// Vehicle is a registered vehicle. Archived vehicles have IsActive false.
type Vehicle struct {
	ID             string
	Name           string
	PlateNumber    string
	Category       string
	PaymentName    string
	PaymentStatus  string
	PaymentDueDate time.Time
	DateRegistered time.Time
	IsActive       bool
	UpdatedAt      time.Time
}

// VehicleLog records a vehicle passing the gate. OwnerName is joined from
// the registered vehicle on read and is empty when the vehicle is unknown.
type VehicleLog struct {
	ID          string
	VehicleID   string
	PlateNumber string
	Category    string
	Entry       time.Time
	Exit        *time.Time
	OwnerName   string
}

// VisitorLog is keyed by the qrId carried in the visitor pass.
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

// VehicleLogStats summarises the vehicle log collection.
type VehicleLogStats struct {
	Total       int
	LatestEntry *time.Time
	LatestExit  *time.Time
}

// Outbox task states.
const (
	OutboxPending    = "PENDING"
	OutboxProcessing = "PROCESSING"
	OutboxDone       = "DONE"
	OutboxFailed     = "FAILED"
)

// OutboxMessage is an event written in the same transaction as the log
// change it describes and relayed to the message broker later.
type OutboxMessage struct {
	ID          int64
	Topic       string
	Key         string
	Payload     []byte
	Status      string
	Attempts    int
	LastError   *string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}
