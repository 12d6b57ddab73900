// Package memory provides an in-process implementation of every persistence
// repository. It backs CONSOLE_STORAGE=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/visitor-console/internal/persistence"
)

// Storage keeps every collection in maps guarded by one mutex, so each
// method is atomic the way a single SQLite write transaction is.
type Storage struct {
	mu          sync.RWMutex
	users       map[string]persistence.User
	identities  map[string]persistence.Identity
	sessions    map[string]persistence.Session
	vehicles    map[string]persistence.Vehicle
	vehicleLogs map[string]persistence.VehicleLog
	visitorLogs map[string]persistence.VisitorLog
	outbox      []persistence.OutboxMessage
	outboxSeq   int64
	outboxTopic string
	now         func() time.Time
}

// Option customises a Storage.
type Option func(*Storage)

// WithOutboxTopic makes log writes append outbox messages for topic.
func WithOutboxTopic(topic string) Option {
	return func(s *Storage) {
		s.outboxTopic = topic
	}
}

// WithClock overrides the clock used for outbox timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty Storage.
func New(opts ...Option) *Storage {
	s := &Storage{
		users:       make(map[string]persistence.User),
		identities:  make(map[string]persistence.Identity),
		sessions:    make(map[string]persistence.Session),
		vehicles:    make(map[string]persistence.Vehicle),
		vehicleLogs: make(map[string]persistence.VehicleLog),
		visitorLogs: make(map[string]persistence.VisitorLog),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error {
	return nil
}

// --- UserRepository implementation ---

// CreateUser stores the identity and the profile.
func (s *Storage) CreateUser(ctx context.Context, user persistence.User, identity persistence.Identity) error {
	if user.ID == "" || identity.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("%w: user %s", persistence.ErrDuplicate, user.ID)
	}
	if _, ok := s.identities[user.ID]; ok {
		return fmt.Errorf("%w: identity %s", persistence.ErrDuplicate, user.ID)
	}

	email := normalizeEmail(user.Email)
	for _, existing := range s.identities {
		if existing.Email == email {
			return fmt.Errorf("%w: email %s", persistence.ErrDuplicate, email)
		}
	}

	user.Email = email
	identity.UserID = user.ID
	identity.Email = email
	s.users[user.ID] = user
	s.identities[user.ID] = identity
	return nil
}

// UpdateUser overwrites the editable profile fields.
func (s *Storage) UpdateUser(ctx context.Context, user persistence.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return persistence.ErrNotFound
	}

	current.Name = user.Name
	current.Role = user.Role
	current.UpdatedAt = user.UpdatedAt
	s.users[user.ID] = current
	return nil
}

// GetUser retrieves a profile by ID.
func (s *Storage) GetUser(ctx context.Context, id string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

// GetIdentityByEmail retrieves a sign-in account by email.
func (s *Storage) GetIdentityByEmail(ctx context.Context, email string) (persistence.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = normalizeEmail(email)
	for _, identity := range s.identities {
		if identity.Email == email {
			return identity, nil
		}
	}
	return persistence.Identity{}, persistence.ErrNotFound
}

// ListUsers returns profiles ordered by name.
func (s *Storage) ListUsers(ctx context.Context, filter persistence.UserFilter, page persistence.Page) ([]persistence.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		if !containsFold(user.Name, filter.Name) {
			continue
		}
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].Name == users[j].Name {
			return users[i].ID < users[j].ID
		}
		return users[i].Name < users[j].Name
	})

	total := len(users)
	return paginate(users, page), total, nil
}

// DeleteUser removes the identity, its sessions and the profile.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[id]; !ok {
		return persistence.ErrNotFound
	}

	delete(s.identities, id)
	for token, session := range s.sessions {
		if session.UserID == id {
			delete(s.sessions, token)
		}
	}
	delete(s.users, id)
	return nil
}

// --- SessionRepository implementation ---

// CreateSession stores a new session keyed by token.
func (s *Storage) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	session.Token = strings.TrimSpace(session.Token)
	if session.ID == "" || session.UserID == "" || session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[session.UserID]; !ok {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}
	if _, ok := s.sessions[session.Token]; ok {
		return persistence.Session{}, persistence.ErrDuplicate
	}
	for _, existing := range s.sessions {
		if existing.ID == session.ID {
			return persistence.Session{}, persistence.ErrDuplicate
		}
	}

	s.sessions[session.Token] = cloneSession(session)
	return cloneSession(session), nil
}

// GetSession retrieves a session by token.
func (s *Storage) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[strings.TrimSpace(token)]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return cloneSession(session), nil
}

// UpdateSession replaces the mutable fields of the session with the same ID.
func (s *Storage) UpdateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	session.Token = strings.TrimSpace(session.Token)
	if session.ID == "" || session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for token, current := range s.sessions {
		if current.ID != session.ID {
			continue
		}
		session.UserID = current.UserID
		session.CreatedAt = current.CreatedAt
		delete(s.sessions, token)
		s.sessions[session.Token] = cloneSession(session)
		return cloneSession(session), nil
	}
	return persistence.Session{}, persistence.ErrNotFound
}

// RevokeSession marks the session as revoked.
func (s *Storage) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token = strings.TrimSpace(token)
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}

	at := revokedAt.UTC()
	session.RevokedAt = &at
	session.UpdatedAt = at
	s.sessions[token] = session
	return cloneSession(session), nil
}

// DeleteExpiredSessions removes sessions that expired on or before reference.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if !session.ExpiresAt.After(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

// --- VehicleRepository implementation ---

// CreateVehicle registers a vehicle.
func (s *Storage) CreateVehicle(ctx context.Context, vehicle persistence.Vehicle) error {
	if vehicle.ID == "" {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vehicles[vehicle.ID]; ok {
		return fmt.Errorf("%w: vehicle %s", persistence.ErrDuplicate, vehicle.ID)
	}
	vehicle.PlateNumber = strings.TrimSpace(vehicle.PlateNumber)
	s.vehicles[vehicle.ID] = vehicle
	return nil
}

// UpdateVehicle overwrites the editable fields and keeps DateRegistered and IsActive.
func (s *Storage) UpdateVehicle(ctx context.Context, vehicle persistence.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.vehicles[vehicle.ID]
	if !ok {
		return persistence.ErrNotFound
	}

	vehicle.PlateNumber = strings.TrimSpace(vehicle.PlateNumber)
	vehicle.DateRegistered = current.DateRegistered
	vehicle.IsActive = current.IsActive
	s.vehicles[vehicle.ID] = vehicle
	return nil
}

// SetVehicleActive archives or restores a vehicle.
func (s *Storage) SetVehicleActive(ctx context.Context, id string, active bool, at time.Time) (persistence.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle, ok := s.vehicles[id]
	if !ok {
		return persistence.Vehicle{}, persistence.ErrNotFound
	}
	vehicle.IsActive = active
	vehicle.UpdatedAt = at
	s.vehicles[id] = vehicle
	return vehicle, nil
}

// GetVehicle retrieves a vehicle by ID.
func (s *Storage) GetVehicle(ctx context.Context, id string) (persistence.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicle, ok := s.vehicles[id]
	if !ok {
		return persistence.Vehicle{}, persistence.ErrNotFound
	}
	return vehicle, nil
}

// GetVehicleByPlate finds the most recently registered active vehicle with the plate.
func (s *Storage) GetVehicleByPlate(ctx context.Context, plateNumber string) (persistence.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plateNumber = strings.TrimSpace(plateNumber)
	var (
		found persistence.Vehicle
		ok    bool
	)
	for _, vehicle := range s.vehicles {
		if !vehicle.IsActive || !strings.EqualFold(vehicle.PlateNumber, plateNumber) {
			continue
		}
		if !ok || vehicle.DateRegistered.After(found.DateRegistered) {
			found, ok = vehicle, true
		}
	}
	if !ok {
		return persistence.Vehicle{}, persistence.ErrNotFound
	}
	return found, nil
}

// ListVehicles returns vehicles ordered by name.
func (s *Storage) ListVehicles(ctx context.Context, filter persistence.VehicleFilter, page persistence.Page) ([]persistence.Vehicle, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicles := make([]persistence.Vehicle, 0, len(s.vehicles))
	for _, vehicle := range s.vehicles {
		if filter.Active != nil && vehicle.IsActive != *filter.Active {
			continue
		}
		if !containsFold(vehicle.Name, filter.Name) ||
			!containsFold(vehicle.PlateNumber, filter.PlateNumber) ||
			!containsFold(vehicle.PaymentName, filter.PaymentName) {
			continue
		}
		vehicles = append(vehicles, vehicle)
	}

	sort.Slice(vehicles, func(i, j int) bool {
		if vehicles[i].Name == vehicles[j].Name {
			return vehicles[i].ID < vehicles[j].ID
		}
		return vehicles[i].Name < vehicles[j].Name
	})

	total := len(vehicles)
	return paginate(vehicles, page), total, nil
}

// CountVehicles returns the number of registered vehicles.
func (s *Storage) CountVehicles(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vehicles), nil
}

// --- VehicleLogRepository implementation ---

// CreateVehicleLog records a gate entry.
func (s *Storage) CreateVehicleLog(ctx context.Context, log persistence.VehicleLog) error {
	if log.ID == "" {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vehicleLogs[log.ID]; ok {
		return fmt.Errorf("%w: vehicle log %s", persistence.ErrDuplicate, log.ID)
	}

	log.OwnerName = ""
	payload, err := persistence.VehicleLogEvent(persistence.EventVehicleEntry, log, s.now())
	if err != nil {
		return err
	}
	s.vehicleLogs[log.ID] = cloneVehicleLog(log)
	s.enqueueLocked(log.ID, payload)
	return nil
}

// CloseVehicleLog sets the exit time when none is recorded yet.
func (s *Storage) CloseVehicleLog(ctx context.Context, id string, exit time.Time) (persistence.VehicleLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.vehicleLogs[id]
	if !ok {
		return persistence.VehicleLog{}, persistence.ErrNotFound
	}
	if log.Exit != nil {
		return persistence.VehicleLog{}, persistence.ErrConflict
	}

	at := exit.UTC()
	log.Exit = &at
	payload, err := persistence.VehicleLogEvent(persistence.EventVehicleExit, log, s.now())
	if err != nil {
		return persistence.VehicleLog{}, err
	}
	s.vehicleLogs[id] = cloneVehicleLog(log)
	s.enqueueLocked(id, payload)
	return s.withOwnerLocked(log), nil
}

// GetVehicleLog retrieves a log with its owner name.
func (s *Storage) GetVehicleLog(ctx context.Context, id string) (persistence.VehicleLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.vehicleLogs[id]
	if !ok {
		return persistence.VehicleLog{}, persistence.ErrNotFound
	}
	return s.withOwnerLocked(log), nil
}

// ListVehicleLogs returns logs newest entry first.
func (s *Storage) ListVehicleLogs(ctx context.Context, filter persistence.VehicleLogFilter, page persistence.Page) ([]persistence.VehicleLog, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]persistence.VehicleLog, 0, len(s.vehicleLogs))
	for _, stored := range s.vehicleLogs {
		log := s.withOwnerLocked(stored)
		if filter.Name != "" {
			if _, registered := s.vehicles[log.VehicleID]; !registered || !containsFold(log.OwnerName, filter.Name) {
				continue
			}
		}
		if !containsFold(log.PlateNumber, filter.PlateNumber) {
			continue
		}
		if !inRange(&log.Entry, filter.EntryFrom, filter.EntryTo) || !inRange(log.Exit, filter.ExitFrom, filter.ExitTo) {
			continue
		}
		logs = append(logs, log)
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].Entry.Equal(logs[j].Entry) {
			return logs[i].ID < logs[j].ID
		}
		return logs[i].Entry.After(logs[j].Entry)
	})

	total := len(logs)
	return paginate(logs, page), total, nil
}

// VehicleLogStats returns totals and the latest entry and exit.
func (s *Storage) VehicleLogStats(ctx context.Context) (persistence.VehicleLogStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := persistence.VehicleLogStats{Total: len(s.vehicleLogs)}
	for _, log := range s.vehicleLogs {
		if stats.LatestEntry == nil || log.Entry.After(*stats.LatestEntry) {
			entry := log.Entry
			stats.LatestEntry = &entry
		}
		if log.Exit != nil && (stats.LatestExit == nil || log.Exit.After(*stats.LatestExit)) {
			exit := *log.Exit
			stats.LatestExit = &exit
		}
	}
	return stats, nil
}

// --- VisitorLogRepository implementation ---

// PutVisitorLog writes the entry at its id, replacing any previous entry.
func (s *Storage) PutVisitorLog(ctx context.Context, log persistence.VisitorLog) error {
	if log.ID == "" {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := persistence.VisitorLogEvent(persistence.EventVisitorTimeIn, log, s.now())
	if err != nil {
		return err
	}
	s.visitorLogs[log.ID] = cloneVisitorLog(log)
	s.enqueueLocked(log.ID, payload)
	return nil
}

// MergeVisitorTimeOut sets the time out on an open entry.
func (s *Storage) MergeVisitorTimeOut(ctx context.Context, id string, timeOut time.Time) (persistence.VisitorLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.visitorLogs[id]
	if !ok {
		return persistence.VisitorLog{}, persistence.ErrNotFound
	}
	if log.TimeOut != nil {
		return persistence.VisitorLog{}, persistence.ErrConflict
	}

	at := timeOut.UTC()
	log.TimeOut = &at
	payload, err := persistence.VisitorLogEvent(persistence.EventVisitorTimeOut, log, s.now())
	if err != nil {
		return persistence.VisitorLog{}, err
	}
	s.visitorLogs[id] = cloneVisitorLog(log)
	s.enqueueLocked(id, payload)
	return cloneVisitorLog(log), nil
}

// GetVisitorLog retrieves an entry by qrId.
func (s *Storage) GetVisitorLog(ctx context.Context, id string) (persistence.VisitorLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.visitorLogs[id]
	if !ok {
		return persistence.VisitorLog{}, persistence.ErrNotFound
	}
	return cloneVisitorLog(log), nil
}

// ListVisitorLogs returns entries newest time in first.
func (s *Storage) ListVisitorLogs(ctx context.Context, filter persistence.VisitorLogFilter, page persistence.Page) ([]persistence.VisitorLog, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]persistence.VisitorLog, 0, len(s.visitorLogs))
	for _, log := range s.visitorLogs {
		if !containsFold(log.Name, filter.Name) || !containsFold(log.HomeOwnerToVisit, filter.HomeOwner) {
			continue
		}
		if !inRange(&log.TimeIn, filter.TimeInFrom, filter.TimeInTo) {
			continue
		}
		logs = append(logs, cloneVisitorLog(log))
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].TimeIn.Equal(logs[j].TimeIn) {
			return logs[i].ID < logs[j].ID
		}
		return logs[i].TimeIn.After(logs[j].TimeIn)
	})

	total := len(logs)
	return paginate(logs, page), total, nil
}

// CountVisitorLogs returns the number of visitor log entries.
func (s *Storage) CountVisitorLogs(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visitorLogs), nil
}

// --- OutboxRepository implementation ---

// ClaimOutbox moves up to limit pending messages to PROCESSING.
func (s *Storage) ClaimOutbox(ctx context.Context, limit, maxAttempts int) ([]persistence.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var claimed []persistence.OutboxMessage
	for i := range s.outbox {
		if len(claimed) >= limit {
			break
		}
		msg := &s.outbox[i]
		if msg.Status != persistence.OutboxPending {
			continue
		}
		if maxAttempts > 0 && msg.Attempts >= maxAttempts {
			continue
		}
		msg.Status = persistence.OutboxProcessing
		claimed = append(claimed, cloneOutbox(*msg))
	}
	return claimed, nil
}

// MarkOutboxDone records a successful publish.
func (s *Storage) MarkOutboxDone(ctx context.Context, id int64, at time.Time) error {
	return s.updateOutbox(id, func(msg *persistence.OutboxMessage) {
		processed := at.UTC()
		msg.Status = persistence.OutboxDone
		msg.ProcessedAt = &processed
		msg.LastError = nil
	})
}

// MarkOutboxFailed stores the failure and requeues the message unless final is set.
func (s *Storage) MarkOutboxFailed(ctx context.Context, id int64, attempts int, reason string, final bool) error {
	return s.updateOutbox(id, func(msg *persistence.OutboxMessage) {
		msg.Status = persistence.OutboxPending
		if final {
			msg.Status = persistence.OutboxFailed
		}
		msg.Attempts = attempts
		msg.LastError = &reason
	})
}

// RequeueOutbox puts PROCESSING messages back to PENDING.
func (s *Storage) RequeueOutbox(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requeued := 0
	for i := range s.outbox {
		if s.outbox[i].Status == persistence.OutboxProcessing {
			s.outbox[i].Status = persistence.OutboxPending
			requeued++
		}
	}
	return requeued, nil
}

// Outbox returns a copy of every outbox message in insertion order.
func (s *Storage) Outbox() []persistence.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.OutboxMessage, 0, len(s.outbox))
	for _, msg := range s.outbox {
		out = append(out, cloneOutbox(msg))
	}
	return out
}

func (s *Storage) updateOutbox(id int64, apply func(*persistence.OutboxMessage)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].ID == id {
			apply(&s.outbox[i])
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *Storage) enqueueLocked(key string, payload []byte) {
	if s.outboxTopic == "" {
		return
	}
	s.outboxSeq++
	s.outbox = append(s.outbox, persistence.OutboxMessage{
		ID:        s.outboxSeq,
		Topic:     s.outboxTopic,
		Key:       key,
		Payload:   payload,
		Status:    persistence.OutboxPending,
		CreatedAt: s.now().UTC(),
	})
}

func (s *Storage) withOwnerLocked(log persistence.VehicleLog) persistence.VehicleLog {
	out := cloneVehicleLog(log)
	out.OwnerName = ""
	if vehicle, ok := s.vehicles[log.VehicleID]; ok {
		out.OwnerName = vehicle.Name
	}
	return out
}

// --- Helpers ---

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func containsFold(value, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// inRange reports whether t lies within the inclusive bounds. A nil t only
// matches when both bounds are nil.
func inRange(t, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if t == nil {
		return false
	}
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func paginate[T any](items []T, page persistence.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func cloneSession(session persistence.Session) persistence.Session {
	clone := session
	if session.RevokedAt != nil {
		revoked := *session.RevokedAt
		clone.RevokedAt = &revoked
	}
	return clone
}

func cloneVehicleLog(log persistence.VehicleLog) persistence.VehicleLog {
	clone := log
	if log.Exit != nil {
		exit := *log.Exit
		clone.Exit = &exit
	}
	return clone
}

func cloneVisitorLog(log persistence.VisitorLog) persistence.VisitorLog {
	clone := log
	if log.TimeOut != nil {
		timeOut := *log.TimeOut
		clone.TimeOut = &timeOut
	}
	return clone
}

func cloneOutbox(msg persistence.OutboxMessage) persistence.OutboxMessage {
	clone := msg
	clone.Payload = append([]byte(nil), msg.Payload...)
	if msg.LastError != nil {
		reason := *msg.LastError
		clone.LastError = &reason
	}
	if msg.ProcessedAt != nil {
		processed := *msg.ProcessedAt
		clone.ProcessedAt = &processed
	}
	return clone
}

var (
	_ persistence.UserRepository       = (*Storage)(nil)
	_ persistence.SessionRepository    = (*Storage)(nil)
	_ persistence.VehicleRepository    = (*Storage)(nil)
	_ persistence.VehicleLogRepository = (*Storage)(nil)
	_ persistence.VisitorLogRepository = (*Storage)(nil)
	_ persistence.OutboxRepository     = (*Storage)(nil)
)
