package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/visitor-console/internal/persistence"
)

var (
	userCounter       uint64
	vehicleCounter    uint64
	vehicleLogCounter uint64
	visitorLogCounter uint64
	sessionCounter    uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture describes a console user together with its sign-in identity.
type UserFixture struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic GUARD user.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	fixture := UserFixture{
		ID:           id,
		Name:         fmt.Sprintf("User %03d", idx),
		Email:        fmt.Sprintf("%s@example.com", id),
		Role:         "GUARD",
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

// WithUserName overrides the generated name.
func WithUserName(name string) UserOption {
	return func(f *UserFixture) { f.Name = name }
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) { f.Email = email }
}

// WithUserRole sets ADMIN or GUARD.
func WithUserRole(role string) UserOption {
	return func(f *UserFixture) { f.Role = role }
}

// WithUserPasswordHash overrides the stored password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) { f.PasswordHash = hash }
}

// WithUserDisabled marks the identity as disabled.
func WithUserDisabled() UserOption {
	return func(f *UserFixture) { f.Disabled = true }
}

// Persistence converts the fixture into the stored profile and identity.
func (f UserFixture) Persistence() (persistence.User, persistence.Identity) {
	return persistence.User{
			ID:        f.ID,
			Name:      f.Name,
			Email:     f.Email,
			Role:      f.Role,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.CreatedAt,
		}, persistence.Identity{
			UserID:       f.ID,
			Email:        f.Email,
			PasswordHash: f.PasswordHash,
			Disabled:     f.Disabled,
			CreatedAt:    f.CreatedAt,
			UpdatedAt:    f.CreatedAt,
		}
}

// --------------------------- Session fixtures ----------------------------

// SessionFixture describes a stored session for a user.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a session valid for one day after ReferenceTime.
func NewSessionFixture(userID string, opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    userID,
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: referenceTime.Add(24 * time.Hour),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionToken overrides the token value.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) { f.Token = token }
}

// WithSessionExpiry overrides the expiry instant.
func WithSessionExpiry(t time.Time) SessionOption {
	return func(f *SessionFixture) { f.ExpiresAt = t }
}

// WithSessionRevokedAt marks the session as revoked at t.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		revoked := t
		f.RevokedAt = &revoked
	}
}

// Persistence converts the fixture into a persistence.Session.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.CreatedAt,
		RevokedAt: f.RevokedAt,
	}
}

// --------------------------- Vehicle fixtures ----------------------------

// VehicleFixture describes a registered vehicle.
type VehicleFixture struct {
	ID             string
	Name           string
	PlateNumber    string
	Category       string
	PaymentName    string
	PaymentStatus  string
	DateRegistered time.Time
	IsActive       bool
}

// VehicleOption configures the generated vehicle fixture.
type VehicleOption func(*VehicleFixture)

// NewVehicleFixture returns an active, paid homeowner vehicle.
func NewVehicleFixture(opts ...VehicleOption) VehicleFixture {
	idx := atomic.AddUint64(&vehicleCounter, 1)
	fixture := VehicleFixture{
		ID:             fmt.Sprintf("vehicle-%03d", idx),
		Name:           fmt.Sprintf("Owner %03d", idx),
		PlateNumber:    fmt.Sprintf("ABC %04d", idx),
		Category:       "HOMEOWNER",
		PaymentName:    fmt.Sprintf("Payer %03d", idx),
		PaymentStatus:  "PAID",
		DateRegistered: referenceTime.Add(time.Duration(idx) * time.Minute),
		IsActive:       true,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithVehicleID overrides the generated ID.
func WithVehicleID(id string) VehicleOption {
	return func(f *VehicleFixture) { f.ID = id }
}

// WithVehicleName overrides the owner name.
func WithVehicleName(name string) VehicleOption {
	return func(f *VehicleFixture) { f.Name = name }
}

// WithVehiclePlate overrides the plate number.
func WithVehiclePlate(plate string) VehicleOption {
	return func(f *VehicleFixture) { f.PlateNumber = plate }
}

// WithVehiclePaymentName overrides the payment name.
func WithVehiclePaymentName(name string) VehicleOption {
	return func(f *VehicleFixture) { f.PaymentName = name }
}

// WithVehicleArchived marks the vehicle inactive.
func WithVehicleArchived() VehicleOption {
	return func(f *VehicleFixture) { f.IsActive = false }
}

// WithVehicleRegisteredAt overrides the registration instant.
func WithVehicleRegisteredAt(t time.Time) VehicleOption {
	return func(f *VehicleFixture) { f.DateRegistered = t }
}

// Persistence converts the fixture into a persistence.Vehicle. The payment
// falls due one month after registration.
func (f VehicleFixture) Persistence() persistence.Vehicle {
	return persistence.Vehicle{
		ID:             f.ID,
		Name:           f.Name,
		PlateNumber:    f.PlateNumber,
		Category:       f.Category,
		PaymentName:    f.PaymentName,
		PaymentStatus:  f.PaymentStatus,
		PaymentDueDate: f.DateRegistered.AddDate(0, 1, 0),
		DateRegistered: f.DateRegistered,
		IsActive:       f.IsActive,
		UpdatedAt:      f.DateRegistered,
	}
}

// ------------------------- Vehicle log fixtures --------------------------

// VehicleLogFixture describes one gate passage.
type VehicleLogFixture struct {
	ID          string
	VehicleID   string
	PlateNumber string
	Category    string
	Entry       time.Time
	Exit        *time.Time
}

// VehicleLogOption configures the generated vehicle log fixture.
type VehicleLogOption func(*VehicleLogFixture)

// NewVehicleLogFixture returns an open log for vehicle.
func NewVehicleLogFixture(vehicle persistence.Vehicle, opts ...VehicleLogOption) VehicleLogFixture {
	idx := atomic.AddUint64(&vehicleLogCounter, 1)
	fixture := VehicleLogFixture{
		ID:          fmt.Sprintf("vehicle-log-%03d", idx),
		VehicleID:   vehicle.ID,
		PlateNumber: vehicle.PlateNumber,
		Category:    vehicle.Category,
		Entry:       referenceTime.Add(time.Duration(idx) * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithVehicleLogEntry overrides the entry instant.
func WithVehicleLogEntry(t time.Time) VehicleLogOption {
	return func(f *VehicleLogFixture) { f.Entry = t }
}

// WithVehicleLogExit closes the log at t.
func WithVehicleLogExit(t time.Time) VehicleLogOption {
	return func(f *VehicleLogFixture) {
		exit := t
		f.Exit = &exit
	}
}

// Persistence converts the fixture into a persistence.VehicleLog.
func (f VehicleLogFixture) Persistence() persistence.VehicleLog {
	return persistence.VehicleLog{
		ID:          f.ID,
		VehicleID:   f.VehicleID,
		PlateNumber: f.PlateNumber,
		Category:    f.Category,
		Entry:       f.Entry,
		Exit:        f.Exit,
	}
}

// ------------------------- Visitor log fixtures --------------------------

// VisitorLogFixture describes a visitor check-in keyed by qrId.
type VisitorLogFixture struct {
	ID               string
	Name             string
	Address          string
	ContactNumber    string
	HomeOwnerToVisit string
	PurposeOfVisit   string
	TimeIn           time.Time
	TimeOut          *time.Time
}

// VisitorLogOption configures the generated visitor log fixture.
type VisitorLogOption func(*VisitorLogFixture)

// NewVisitorLogFixture returns an open visitor log.
func NewVisitorLogFixture(opts ...VisitorLogOption) VisitorLogFixture {
	idx := atomic.AddUint64(&visitorLogCounter, 1)
	fixture := VisitorLogFixture{
		ID:               fmt.Sprintf("qr-%03d", idx),
		Name:             fmt.Sprintf("Visitor %03d", idx),
		Address:          fmt.Sprintf("%d Main St", idx),
		ContactNumber:    fmt.Sprintf("0912%07d", idx),
		HomeOwnerToVisit: "Mr. Smith",
		PurposeOfVisit:   "Delivery",
		TimeIn:           referenceTime.Add(time.Duration(idx) * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithVisitorID overrides the qrId.
func WithVisitorID(id string) VisitorLogOption {
	return func(f *VisitorLogFixture) { f.ID = id }
}

// WithVisitorName overrides the visitor name.
func WithVisitorName(name string) VisitorLogOption {
	return func(f *VisitorLogFixture) { f.Name = name }
}

// WithVisitorHomeOwner overrides the homeowner being visited.
func WithVisitorHomeOwner(name string) VisitorLogOption {
	return func(f *VisitorLogFixture) { f.HomeOwnerToVisit = name }
}

// WithVisitorTimeIn overrides the time in.
func WithVisitorTimeIn(t time.Time) VisitorLogOption {
	return func(f *VisitorLogFixture) { f.TimeIn = t }
}

// WithVisitorTimeOut closes the entry at t.
func WithVisitorTimeOut(t time.Time) VisitorLogOption {
	return func(f *VisitorLogFixture) {
		out := t
		f.TimeOut = &out
	}
}

// Persistence converts the fixture into a persistence.VisitorLog.
func (f VisitorLogFixture) Persistence() persistence.VisitorLog {
	return persistence.VisitorLog{
		ID:               f.ID,
		Name:             f.Name,
		Address:          f.Address,
		ContactNumber:    f.ContactNumber,
		HomeOwnerToVisit: f.HomeOwnerToVisit,
		PurposeOfVisit:   f.PurposeOfVisit,
		TimeIn:           f.TimeIn,
		TimeOut:          f.TimeOut,
	}
}
