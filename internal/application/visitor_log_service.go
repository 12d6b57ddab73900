package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// VisitorLogRepository stores visitor check-ins keyed by qrId.
type VisitorLogRepository interface {
	// PutVisitorLog writes the entry at its id, replacing any existing one.
	PutVisitorLog(ctx context.Context, log VisitorLog) (VisitorLog, error)
	// MergeVisitorTimeOut sets TimeOut on an existing entry that has none.
	MergeVisitorTimeOut(ctx context.Context, id string, timeOut time.Time) (VisitorLog, error)
	GetVisitorLog(ctx context.Context, id string) (VisitorLog, error)
	ListVisitorLogs(ctx context.Context, filter VisitorLogFilter, page PageRequest) ([]VisitorLog, int, error)
	CountVisitorLogs(ctx context.Context) (int, error)
}

// VisitorLogService serves the read side of the visitor log. Writes go through PassService.
type VisitorLogService struct {
	logs   VisitorLogRepository
	logger *slog.Logger
}

// NewVisitorLogService wires dependencies for the visitor log service.
func NewVisitorLogService(logs VisitorLogRepository) *VisitorLogService {
	return NewVisitorLogServiceWithLogger(logs, nil)
}

// NewVisitorLogServiceWithLogger wires dependencies for the visitor log service with a logger.
func NewVisitorLogServiceWithLogger(logs VisitorLogRepository, logger *slog.Logger) *VisitorLogService {
	return &VisitorLogService{logs: logs, logger: defaultLogger(logger)}
}

func (s *VisitorLogService) ready(principal Principal) error {
	if s == nil {
		return fmt.Errorf("VisitorLogService is nil")
	}
	if s.logs == nil {
		return fmt.Errorf("visitor log repository not configured")
	}
	if !principal.Authenticated() {
		return ErrUnauthorized
	}
	return nil
}

// GetVisitorLog returns the entry stored under a qrId.
func (s *VisitorLogService) GetVisitorLog(ctx context.Context, principal Principal, id string) (VisitorLog, error) {
	if err := s.ready(principal); err != nil {
		return VisitorLog{}, err
	}
	entry, err := s.logs.GetVisitorLog(ctx, strings.TrimSpace(id))
	if err != nil {
		return VisitorLog{}, mapRepoError(err)
	}
	return entry, nil
}

// ListVisitorLogs returns one page, latest time in first.
func (s *VisitorLogService) ListVisitorLogs(ctx context.Context, principal Principal, filter VisitorLogFilter, page PageRequest) (Paged[VisitorLog], error) {
	page = page.Normalize()
	logs, total, err := s.list(ctx, principal, filter, page)
	if err != nil {
		return Paged[VisitorLog]{}, err
	}
	return newPaged(logs, page, total), nil
}

// ExportVisitorLogs returns every entry matching the filter. Administrators only.
func (s *VisitorLogService) ExportVisitorLogs(ctx context.Context, principal Principal, filter VisitorLogFilter) ([]VisitorLog, error) {
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}
	logs, _, err := s.list(ctx, principal, filter, All())
	return logs, err
}

func (s *VisitorLogService) list(ctx context.Context, principal Principal, filter VisitorLogFilter, page PageRequest) ([]VisitorLog, int, error) {
	if err := s.ready(principal); err != nil {
		return nil, 0, err
	}

	filter.Name = strings.TrimSpace(filter.Name)
	filter.HomeOwner = strings.TrimSpace(filter.HomeOwner)
	vErr := &ValidationError{}
	checkRange(vErr, "time_in", filter.TimeInFrom, filter.TimeInTo)
	if vErr.HasErrors() {
		return nil, 0, vErr
	}

	logs, total, err := s.logs.ListVisitorLogs(ctx, filter, page)
	if err != nil {
		serviceLogger(ctx, s.logger, "VisitorLogService", "ListVisitorLogs").
			ErrorContext(ctx, "failed to list visitor logs", "error", err, "error_kind", ErrorKind(err))
		return nil, 0, mapRepoError(err)
	}
	return logs, total, nil
}
