package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/example/visitor-console/internal/application"
	"github.com/example/visitor-console/internal/export"
)

type VisitorLogHandler struct {
	service   VisitorLogService
	csv       *export.Writer
	responder responder
	logger    *slog.Logger
}

func NewVisitorLogHandler(service VisitorLogService, csv *export.Writer, logger *slog.Logger) *VisitorLogHandler {
	base := orDefault(logger)
	if csv == nil {
		csv = export.NewWriter(nil)
	}
	return &VisitorLogHandler{service: service, csv: csv, responder: newResponder(base), logger: base}
}

func (h *VisitorLogHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *VisitorLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	entry, err := h.service.GetVisitorLog(r.Context(), principal, idParam(r))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, visitorLogResponse{Log: toVisitorLogDTO(entry)})
}

func (h *VisitorLogHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	filter, err := visitorLogFilterFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	page, err := h.service.ListVisitorLogs(r.Context(), principal, filter, pageFromQuery(r))
	if err != nil {
		handlerLogger(r.Context(), h.logger, "VisitorLogHandler", "List").WarnContext(r.Context(), "visitor log list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listVisitorLogsResponse{
		Logs:    mapItems(page.Items, toVisitorLogDTO),
		pageDTO: toPageDTO(page),
	})
}

func (h *VisitorLogHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	filter, err := visitorLogFilterFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := handlerLogger(r.Context(), h.logger, "VisitorLogHandler", "Export")

	logs, err := h.service.ExportVisitorLogs(r.Context(), principal, filter)
	if err != nil {
		logger.WarnContext(r.Context(), "visitor log export failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.csv.VisitorLogs(&buf, logs); err != nil {
		logger.ErrorContext(r.Context(), "visitor log csv failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "visitor logs exported", "rows", len(logs))
	h.responder.writeBytes(r.Context(), w, export.ContentType, export.VisitorLogsFilename, buf.Bytes())
}

func visitorLogFilterFromQuery(r *http.Request) (application.VisitorLogFilter, error) {
	timeIn, err := timeRangeQuery(r, "time_in_from", "time_in_to")
	if err != nil {
		return application.VisitorLogFilter{}, err
	}
	return application.VisitorLogFilter{
		Name:       stringQuery(r, "name"),
		HomeOwner:  stringQuery(r, "home_owner"),
		TimeInFrom: timeIn.from,
		TimeInTo:   timeIn.to,
	}, nil
}

type visitorLogResponse struct {
	Log visitorLogDTO `json:"log"`
}

type listVisitorLogsResponse struct {
	Logs []visitorLogDTO `json:"logs"`
	pageDTO
}

type visitorLogDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Address          string `json:"address"`
	ContactNumber    string `json:"contactNumber"`
	HomeOwnerToVisit string `json:"homeOwnerToVisit"`
	PurposeOfVisit   string `json:"purposeOfVisit"`
	TimeIn           int64  `json:"timeIn"`
	TimeOut          *int64 `json:"timeOut,omitempty"`
}

func toVisitorLogDTO(l application.VisitorLog) visitorLogDTO {
	return visitorLogDTO{
		ID:               l.ID,
		Name:             l.Name,
		Address:          l.Address,
		ContactNumber:    l.ContactNumber,
		HomeOwnerToVisit: l.HomeOwnerToVisit,
		PurposeOfVisit:   l.PurposeOfVisit,
		TimeIn:           epochMillis(l.TimeIn),
		TimeOut:          epochMillisPtr(l.TimeOut),
	}
}
