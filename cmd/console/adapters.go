package main

import (
	"context"
	"time"

	"github.com/example/visitor-console/internal/application"
	"github.com/example/visitor-console/internal/persistence"
)

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	model := toPersistenceUser(user)
	identity := persistence.Identity{
		UserID:       user.ID,
		Email:        user.Email,
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := a.repo.CreateUser(ctx, model, identity); err != nil {
		return application.User{}, err
	}
	return a.GetUser(ctx, user.ID)
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(user)); err != nil {
		return application.User{}, err
	}
	return a.GetUser(ctx, user.ID)
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return a.repo.DeleteUser(ctx, id)
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context, filter application.UserFilter, page application.PageRequest) ([]application.User, int, error) {
	models, total, err := a.repo.ListUsers(ctx, persistence.UserFilter{Name: filter.Name}, toPersistencePage(page))
	if err != nil {
		return nil, 0, err
	}
	return convertAll(models, toApplicationUser), total, nil
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	identity, err := a.repo.GetIdentityByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, err
	}
	user, err := a.repo.GetUser(ctx, identity.UserID)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{
		User:         toApplicationUser(user),
		PasswordHash: identity.PasswordHash,
		Disabled:     identity.Disabled,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) UpdateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.UpdateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

type vehicleRepositoryAdapter struct {
	repo persistence.VehicleRepository
}

func newVehicleRepositoryAdapter(repo persistence.VehicleRepository) *vehicleRepositoryAdapter {
	return &vehicleRepositoryAdapter{repo: repo}
}

func (a *vehicleRepositoryAdapter) CreateVehicle(ctx context.Context, vehicle application.Vehicle) (application.Vehicle, error) {
	if err := a.repo.CreateVehicle(ctx, toPersistenceVehicle(vehicle)); err != nil {
		return application.Vehicle{}, err
	}
	return a.GetVehicle(ctx, vehicle.ID)
}

func (a *vehicleRepositoryAdapter) UpdateVehicle(ctx context.Context, vehicle application.Vehicle) (application.Vehicle, error) {
	if err := a.repo.UpdateVehicle(ctx, toPersistenceVehicle(vehicle)); err != nil {
		return application.Vehicle{}, err
	}
	return a.GetVehicle(ctx, vehicle.ID)
}

func (a *vehicleRepositoryAdapter) SetVehicleActive(ctx context.Context, id string, active bool, at time.Time) (application.Vehicle, error) {
	stored, err := a.repo.SetVehicleActive(ctx, id, active, at)
	if err != nil {
		return application.Vehicle{}, err
	}
	return toApplicationVehicle(stored), nil
}

func (a *vehicleRepositoryAdapter) GetVehicle(ctx context.Context, id string) (application.Vehicle, error) {
	stored, err := a.repo.GetVehicle(ctx, id)
	if err != nil {
		return application.Vehicle{}, err
	}
	return toApplicationVehicle(stored), nil
}

func (a *vehicleRepositoryAdapter) GetVehicleByPlate(ctx context.Context, plateNumber string) (application.Vehicle, error) {
	stored, err := a.repo.GetVehicleByPlate(ctx, plateNumber)
	if err != nil {
		return application.Vehicle{}, err
	}
	return toApplicationVehicle(stored), nil
}

func (a *vehicleRepositoryAdapter) ListVehicles(ctx context.Context, filter application.VehicleFilter, page application.PageRequest) ([]application.Vehicle, int, error) {
	active := !filter.Archived
	models, total, err := a.repo.ListVehicles(ctx, persistence.VehicleFilter{
		Active:      &active,
		Name:        filter.Name,
		PlateNumber: filter.PlateNumber,
		PaymentName: filter.PaymentName,
	}, toPersistencePage(page))
	if err != nil {
		return nil, 0, err
	}
	return convertAll(models, toApplicationVehicle), total, nil
}

func (a *vehicleRepositoryAdapter) CountVehicles(ctx context.Context) (int, error) {
	return a.repo.CountVehicles(ctx)
}

type vehicleLogRepositoryAdapter struct {
	repo persistence.VehicleLogRepository
}

func newVehicleLogRepositoryAdapter(repo persistence.VehicleLogRepository) *vehicleLogRepositoryAdapter {
	return &vehicleLogRepositoryAdapter{repo: repo}
}

func (a *vehicleLogRepositoryAdapter) CreateVehicleLog(ctx context.Context, log application.VehicleLog) (application.VehicleLog, error) {
	if err := a.repo.CreateVehicleLog(ctx, toPersistenceVehicleLog(log)); err != nil {
		return application.VehicleLog{}, err
	}
	return a.GetVehicleLog(ctx, log.ID)
}

func (a *vehicleLogRepositoryAdapter) CloseVehicleLog(ctx context.Context, id string, exit time.Time) (application.VehicleLog, error) {
	stored, err := a.repo.CloseVehicleLog(ctx, id, exit)
	if err != nil {
		return application.VehicleLog{}, err
	}
	return toApplicationVehicleLog(stored), nil
}

func (a *vehicleLogRepositoryAdapter) GetVehicleLog(ctx context.Context, id string) (application.VehicleLog, error) {
	stored, err := a.repo.GetVehicleLog(ctx, id)
	if err != nil {
		return application.VehicleLog{}, err
	}
	return toApplicationVehicleLog(stored), nil
}

func (a *vehicleLogRepositoryAdapter) ListVehicleLogs(ctx context.Context, filter application.VehicleLogFilter, page application.PageRequest) ([]application.VehicleLog, int, error) {
	models, total, err := a.repo.ListVehicleLogs(ctx, persistence.VehicleLogFilter{
		Name:        filter.Name,
		PlateNumber: filter.PlateNumber,
		EntryFrom:   filter.EntryFrom,
		EntryTo:     filter.EntryTo,
		ExitFrom:    filter.ExitFrom,
		ExitTo:      filter.ExitTo,
	}, toPersistencePage(page))
	if err != nil {
		return nil, 0, err
	}
	return convertAll(models, toApplicationVehicleLog), total, nil
}

func (a *vehicleLogRepositoryAdapter) VehicleLogStats(ctx context.Context) (application.VehicleLogStats, error) {
	stats, err := a.repo.VehicleLogStats(ctx)
	if err != nil {
		return application.VehicleLogStats{}, err
	}
	return application.VehicleLogStats{
		Total:       stats.Total,
		LatestEntry: cloneTime(stats.LatestEntry),
		LatestExit:  cloneTime(stats.LatestExit),
	}, nil
}

type visitorLogRepositoryAdapter struct {
	repo persistence.VisitorLogRepository
}

func newVisitorLogRepositoryAdapter(repo persistence.VisitorLogRepository) *visitorLogRepositoryAdapter {
	return &visitorLogRepositoryAdapter{repo: repo}
}

func (a *visitorLogRepositoryAdapter) PutVisitorLog(ctx context.Context, log application.VisitorLog) (application.VisitorLog, error) {
	if err := a.repo.PutVisitorLog(ctx, toPersistenceVisitorLog(log)); err != nil {
		return application.VisitorLog{}, err
	}
	return a.GetVisitorLog(ctx, log.ID)
}

func (a *visitorLogRepositoryAdapter) MergeVisitorTimeOut(ctx context.Context, id string, timeOut time.Time) (application.VisitorLog, error) {
	stored, err := a.repo.MergeVisitorTimeOut(ctx, id, timeOut)
	if err != nil {
		return application.VisitorLog{}, err
	}
	return toApplicationVisitorLog(stored), nil
}

func (a *visitorLogRepositoryAdapter) GetVisitorLog(ctx context.Context, id string) (application.VisitorLog, error) {
	stored, err := a.repo.GetVisitorLog(ctx, id)
	if err != nil {
		return application.VisitorLog{}, err
	}
	return toApplicationVisitorLog(stored), nil
}

func (a *visitorLogRepositoryAdapter) ListVisitorLogs(ctx context.Context, filter application.VisitorLogFilter, page application.PageRequest) ([]application.VisitorLog, int, error) {
	models, total, err := a.repo.ListVisitorLogs(ctx, persistence.VisitorLogFilter{
		Name:       filter.Name,
		HomeOwner:  filter.HomeOwner,
		TimeInFrom: filter.TimeInFrom,
		TimeInTo:   filter.TimeInTo,
	}, toPersistencePage(page))
	if err != nil {
		return nil, 0, err
	}
	return convertAll(models, toApplicationVisitorLog), total, nil
}

func (a *visitorLogRepositoryAdapter) CountVisitorLogs(ctx context.Context) (int, error) {
	return a.repo.CountVisitorLogs(ctx)
}

// toPersistencePage turns a 1-based page into limit/offset. PerPage 0 reads every row.
func toPersistencePage(page application.PageRequest) persistence.Page {
	if page.PerPage <= 0 {
		return persistence.Page{}
	}
	return persistence.Page{Limit: page.PerPage, Offset: page.Offset()}
}

func convertAll[M, A any](models []M, convert func(M) A) []A {
	out := make([]A, 0, len(models))
	for _, model := range models {
		out = append(out, convert(model))
	}
	return out
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      application.Role(model.Role),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User) persistence.User {
	return persistence.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:          model.ID,
		UserID:      model.UserID,
		Token:       model.Token,
		Fingerprint: model.Fingerprint,
		ExpiresAt:   model.ExpiresAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		RevokedAt:   cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:          session.ID,
		UserID:      session.UserID,
		Token:       session.Token,
		Fingerprint: session.Fingerprint,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		RevokedAt:   cloneTime(session.RevokedAt),
	}
}

func toApplicationVehicle(model persistence.Vehicle) application.Vehicle {
	return application.Vehicle{
		ID:             model.ID,
		Name:           model.Name,
		PlateNumber:    model.PlateNumber,
		Category:       application.VehicleCategory(model.Category),
		PaymentName:    model.PaymentName,
		PaymentStatus:  application.PaymentStatus(model.PaymentStatus),
		PaymentDueDate: model.PaymentDueDate,
		DateRegistered: model.DateRegistered,
		IsActive:       model.IsActive,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toPersistenceVehicle(vehicle application.Vehicle) persistence.Vehicle {
	return persistence.Vehicle{
		ID:             vehicle.ID,
		Name:           vehicle.Name,
		PlateNumber:    vehicle.PlateNumber,
		Category:       string(vehicle.Category),
		PaymentName:    vehicle.PaymentName,
		PaymentStatus:  string(vehicle.PaymentStatus),
		PaymentDueDate: vehicle.PaymentDueDate,
		DateRegistered: vehicle.DateRegistered,
		IsActive:       vehicle.IsActive,
		UpdatedAt:      vehicle.UpdatedAt,
	}
}

func toApplicationVehicleLog(model persistence.VehicleLog) application.VehicleLog {
	return application.VehicleLog{
		ID:          model.ID,
		VehicleID:   model.VehicleID,
		PlateNumber: model.PlateNumber,
		Category:    application.VehicleCategory(model.Category),
		OwnerName:   model.OwnerName,
		Entry:       model.Entry,
		Exit:        cloneTime(model.Exit),
	}
}

func toPersistenceVehicleLog(log application.VehicleLog) persistence.VehicleLog {
	return persistence.VehicleLog{
		ID:          log.ID,
		VehicleID:   log.VehicleID,
		PlateNumber: log.PlateNumber,
		Category:    string(log.Category),
		Entry:       log.Entry,
		Exit:        cloneTime(log.Exit),
	}
}

func toApplicationVisitorLog(model persistence.VisitorLog) application.VisitorLog {
	return application.VisitorLog{
		ID:               model.ID,
		Name:             model.Name,
		Address:          model.Address,
		ContactNumber:    model.ContactNumber,
		HomeOwnerToVisit: model.HomeOwnerToVisit,
		PurposeOfVisit:   model.PurposeOfVisit,
		TimeIn:           model.TimeIn,
		TimeOut:          cloneTime(model.TimeOut),
	}
}

func toPersistenceVisitorLog(log application.VisitorLog) persistence.VisitorLog {
	return persistence.VisitorLog{
		ID:               log.ID,
		Name:             log.Name,
		Address:          log.Address,
		ContactNumber:    log.ContactNumber,
		HomeOwnerToVisit: log.HomeOwnerToVisit,
		PurposeOfVisit:   log.PurposeOfVisit,
		TimeIn:           log.TimeIn,
		TimeOut:          cloneTime(log.TimeOut),
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
