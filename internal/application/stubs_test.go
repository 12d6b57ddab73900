package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// credentialStoreStub implements CredentialStore for tests.
type credentialStoreStub struct {
	credentials UserCredentials
	err         error
}

func (c *credentialStoreStub) GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error) {
	if c.err != nil {
		return UserCredentials{}, c.err
	}
	if c.credentials.User.ID == "" || !strings.EqualFold(c.credentials.User.Email, email) {
		return UserCredentials{}, ErrNotFound
	}
	return c.credentials, nil
}

func (c *credentialStoreStub) GetUser(ctx context.Context, id string) (User, error) {
	if c.err != nil {
		return User{}, c.err
	}
	if c.credentials.User.ID == id {
		return c.credentials.User, nil
	}
	return User{}, ErrNotFound
}

// sessionRepositoryStub provides an in-memory implementation of SessionRepository for tests.
type sessionRepositoryStub struct {
	sessionsByID map[string]Session
	tokenToID    map[string]string

	createErr error
	getErr    error
	updateErr error
	revokeErr error
	deleteErr error

	deleteCalls []time.Time
}

func newSessionRepositoryStub() *sessionRepositoryStub {
	return &sessionRepositoryStub{
		sessionsByID: make(map[string]Session),
		tokenToID:    make(map[string]string),
	}
}

func (s *sessionRepositoryStub) seed(session Session) {
	s.sessionsByID[session.ID] = cloneSession(session)
	s.tokenToID[session.Token] = session.ID
}

func (s *sessionRepositoryStub) CreateSession(ctx context.Context, session Session) (Session, error) {
	if s.createErr != nil {
		return Session{}, s.createErr
	}
	s.seed(session)
	return cloneSession(session), nil
}

func (s *sessionRepositoryStub) GetSession(ctx context.Context, token string) (Session, error) {
	if s.getErr != nil {
		return Session{}, s.getErr
	}
	id, ok := s.tokenToID[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return cloneSession(s.sessionsByID[id]), nil
}

func (s *sessionRepositoryStub) UpdateSession(ctx context.Context, session Session) (Session, error) {
	if s.updateErr != nil {
		return Session{}, s.updateErr
	}
	current, ok := s.sessionsByID[session.ID]
	if !ok {
		return Session{}, ErrNotFound
	}
	if current.Token != session.Token {
		delete(s.tokenToID, current.Token)
	}
	s.seed(session)
	return cloneSession(session), nil
}

func (s *sessionRepositoryStub) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error) {
	if s.revokeErr != nil {
		return Session{}, s.revokeErr
	}
	id, ok := s.tokenToID[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	session := s.sessionsByID[id]
	revoked := revokedAt.UTC()
	session.RevokedAt = &revoked
	session.UpdatedAt = revoked
	s.sessionsByID[id] = session
	return cloneSession(session), nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	cutoff := reference.UTC()
	s.deleteCalls = append(s.deleteCalls, cutoff)
	for id, session := range s.sessionsByID {
		if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(cutoff) {
			delete(s.sessionsByID, id)
			delete(s.tokenToID, session.Token)
		}
	}
	return nil
}

func cloneSession(session Session) Session {
	clone := session
	clone.RevokedAt = cloneTime(session.RevokedAt)
	return clone
}

// userRepositoryStub keeps users and their hashes in maps.
type userRepositoryStub struct {
	users  map[string]User
	hashes map[string]string

	createErr error
	deleteErr error
	listArgs  []UserFilter
}

func newUserRepositoryStub(users ...User) *userRepositoryStub {
	stub := &userRepositoryStub{users: make(map[string]User), hashes: make(map[string]string)}
	for _, user := range users {
		stub.users[user.ID] = user
	}
	return stub
}

func (s *userRepositoryStub) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	if s.createErr != nil {
		return User{}, s.createErr
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return User{}, ErrAlreadyExists
		}
	}
	s.users[user.ID] = user
	s.hashes[user.ID] = passwordHash
	return user, nil
}

func (s *userRepositoryStub) GetUser(ctx context.Context, id string) (User, error) {
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *userRepositoryStub) UpdateUser(ctx context.Context, user User) (User, error) {
	if _, ok := s.users[user.ID]; !ok {
		return User{}, ErrNotFound
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *userRepositoryStub) DeleteUser(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	delete(s.hashes, id)
	return nil
}

func (s *userRepositoryStub) ListUsers(ctx context.Context, filter UserFilter, page PageRequest) ([]User, int, error) {
	s.listArgs = append(s.listArgs, filter)
	out := make([]User, 0, len(s.users))
	for _, user := range s.users {
		if filter.Name == "" || strings.Contains(strings.ToLower(user.Name), strings.ToLower(filter.Name)) {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return pageOf(out, page), len(out), nil
}

// vehicleRepositoryStub implements VehicleRepository for tests.
type vehicleRepositoryStub struct {
	vehicles map[string]Vehicle
	listErr  error
}

func newVehicleRepositoryStub(vehicles ...Vehicle) *vehicleRepositoryStub {
	stub := &vehicleRepositoryStub{vehicles: make(map[string]Vehicle)}
	for _, vehicle := range vehicles {
		stub.vehicles[vehicle.ID] = vehicle
	}
	return stub
}

func (s *vehicleRepositoryStub) CreateVehicle(ctx context.Context, vehicle Vehicle) (Vehicle, error) {
	if _, ok := s.vehicles[vehicle.ID]; ok {
		return Vehicle{}, ErrAlreadyExists
	}
	s.vehicles[vehicle.ID] = vehicle
	return vehicle, nil
}

func (s *vehicleRepositoryStub) UpdateVehicle(ctx context.Context, vehicle Vehicle) (Vehicle, error) {
	if _, ok := s.vehicles[vehicle.ID]; !ok {
		return Vehicle{}, ErrNotFound
	}
	s.vehicles[vehicle.ID] = vehicle
	return vehicle, nil
}

func (s *vehicleRepositoryStub) SetVehicleActive(ctx context.Context, id string, active bool, at time.Time) (Vehicle, error) {
	vehicle, ok := s.vehicles[id]
	if !ok {
		return Vehicle{}, ErrNotFound
	}
	vehicle.IsActive = active
	vehicle.UpdatedAt = at
	s.vehicles[id] = vehicle
	return vehicle, nil
}

func (s *vehicleRepositoryStub) GetVehicle(ctx context.Context, id string) (Vehicle, error) {
	vehicle, ok := s.vehicles[id]
	if !ok {
		return Vehicle{}, ErrNotFound
	}
	return vehicle, nil
}

func (s *vehicleRepositoryStub) GetVehicleByPlate(ctx context.Context, plateNumber string) (Vehicle, error) {
	for _, vehicle := range s.vehicles {
		if vehicle.IsActive && strings.EqualFold(vehicle.PlateNumber, plateNumber) {
			return vehicle, nil
		}
	}
	return Vehicle{}, ErrNotFound
}

func (s *vehicleRepositoryStub) ListVehicles(ctx context.Context, filter VehicleFilter, page PageRequest) ([]Vehicle, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	out := make([]Vehicle, 0, len(s.vehicles))
	for _, vehicle := range s.vehicles {
		if vehicle.IsActive == filter.Archived {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(vehicle.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, vehicle)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return pageOf(out, page), len(out), nil
}

func (s *vehicleRepositoryStub) CountVehicles(ctx context.Context) (int, error) {
	return len(s.vehicles), nil
}

// vehicleLogRepositoryStub implements VehicleLogRepository for tests.
type vehicleLogRepositoryStub struct {
	logs       map[string]VehicleLog
	lastFilter VehicleLogFilter
	lastPage   PageRequest
}

func newVehicleLogRepositoryStub() *vehicleLogRepositoryStub {
	return &vehicleLogRepositoryStub{logs: make(map[string]VehicleLog)}
}

func (s *vehicleLogRepositoryStub) CreateVehicleLog(ctx context.Context, log VehicleLog) (VehicleLog, error) {
	s.logs[log.ID] = log
	return log, nil
}

func (s *vehicleLogRepositoryStub) CloseVehicleLog(ctx context.Context, id string, exit time.Time) (VehicleLog, error) {
	log, ok := s.logs[id]
	if !ok {
		return VehicleLog{}, ErrNotFound
	}
	if log.Exit != nil {
		return VehicleLog{}, ErrConflict
	}
	log.Exit = &exit
	s.logs[id] = log
	return log, nil
}

func (s *vehicleLogRepositoryStub) GetVehicleLog(ctx context.Context, id string) (VehicleLog, error) {
	log, ok := s.logs[id]
	if !ok {
		return VehicleLog{}, ErrNotFound
	}
	return log, nil
}

func (s *vehicleLogRepositoryStub) ListVehicleLogs(ctx context.Context, filter VehicleLogFilter, page PageRequest) ([]VehicleLog, int, error) {
	s.lastFilter = filter
	s.lastPage = page
	out := make([]VehicleLog, 0, len(s.logs))
	for _, log := range s.logs {
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entry.After(out[j].Entry) })
	return pageOf(out, page), len(out), nil
}

func (s *vehicleLogRepositoryStub) VehicleLogStats(ctx context.Context) (VehicleLogStats, error) {
	stats := VehicleLogStats{Total: len(s.logs)}
	for _, log := range s.logs {
		entry := log.Entry
		if stats.LatestEntry == nil || entry.After(*stats.LatestEntry) {
			stats.LatestEntry = &entry
		}
		if log.Exit != nil && (stats.LatestExit == nil || log.Exit.After(*stats.LatestExit)) {
			stats.LatestExit = cloneTime(log.Exit)
		}
	}
	return stats, nil
}

// visitorLogRepositoryStub implements VisitorLogRepository and counts writes.
type visitorLogRepositoryStub struct {
	mu     sync.Mutex
	logs   map[string]VisitorLog
	writes int
	putErr error
}

func newVisitorLogRepositoryStub(logs ...VisitorLog) *visitorLogRepositoryStub {
	stub := &visitorLogRepositoryStub{logs: make(map[string]VisitorLog)}
	for _, log := range logs {
		stub.logs[log.ID] = log
	}
	return stub
}

func (s *visitorLogRepositoryStub) PutVisitorLog(ctx context.Context, log VisitorLog) (VisitorLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return VisitorLog{}, s.putErr
	}
	s.writes++
	s.logs[log.ID] = log
	return log, nil
}

func (s *visitorLogRepositoryStub) MergeVisitorTimeOut(ctx context.Context, id string, timeOut time.Time) (VisitorLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.logs[id]
	if !ok {
		return VisitorLog{}, ErrNotFound
	}
	if log.TimeOut != nil {
		return VisitorLog{}, ErrConflict
	}
	s.writes++
	log.TimeOut = &timeOut
	s.logs[id] = log
	return log, nil
}

func (s *visitorLogRepositoryStub) GetVisitorLog(ctx context.Context, id string) (VisitorLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.logs[id]
	if !ok {
		return VisitorLog{}, ErrNotFound
	}
	return log, nil
}

func (s *visitorLogRepositoryStub) ListVisitorLogs(ctx context.Context, filter VisitorLogFilter, page PageRequest) ([]VisitorLog, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VisitorLog, 0, len(s.logs))
	for _, log := range s.logs {
		if filter.HomeOwner != "" && !strings.Contains(strings.ToLower(log.HomeOwnerToVisit), strings.ToLower(filter.HomeOwner)) {
			continue
		}
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeIn.After(out[j].TimeIn) })
	return pageOf(out, page), len(out), nil
}

func (s *visitorLogRepositoryStub) CountVisitorLogs(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs), nil
}

// qrStub encodes by prefixing and decodes by stripping the prefix.
type qrStub struct{}

var errNoQRCode = errors.New("no qr code found")

func (qrStub) Encode(content string, size int) ([]byte, error) {
	return []byte("PNG:" + content), nil
}

func (qrStub) Decode(image []byte) (string, error) {
	text := string(image)
	if !strings.HasPrefix(text, "PNG:") {
		return "", errNoQRCode
	}
	return strings.TrimPrefix(text, "PNG:"), nil
}

func pageOf[T any](items []T, page PageRequest) []T {
	if page.PerPage <= 0 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sequence(values ...string) func() string {
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		if len(values) == 0 {
			return ""
		}
		next := values[0]
		values = values[1:]
		return next
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

var (
	admin = Principal{UserID: "admin-1", Name: "Ada Admin", Role: RoleAdmin}
	guard = Principal{UserID: "guard-1", Name: "Gus Guard", Role: RoleGuard}
)
