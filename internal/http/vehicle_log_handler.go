package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/visitor-console/internal/application"
	"github.com/example/visitor-console/internal/export"
)

type VehicleLogHandler struct {
	service   VehicleLogService
	csv       *export.Writer
	responder responder
	logger    *slog.Logger
}

func NewVehicleLogHandler(service VehicleLogService, csv *export.Writer, logger *slog.Logger) *VehicleLogHandler {
	base := orDefault(logger)
	if csv == nil {
		csv = export.NewWriter(nil)
	}
	return &VehicleLogHandler{service: service, csv: csv, responder: newResponder(base), logger: base}
}

func (h *VehicleLogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "VehicleLogHandler", operation, attrs...)
}

func (h *VehicleLogHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

// Create records a vehicle entering the gate.
func (h *VehicleLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req vehicleEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	entry, err := h.service.RecordEntry(r.Context(), application.RecordEntryParams{
		Principal:   principal,
		VehicleID:   strings.TrimSpace(req.VehicleID),
		PlateNumber: strings.TrimSpace(req.PlateNumber),
	})
	if err != nil {
		logger.WarnContext(r.Context(), "vehicle entry failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "vehicle entry recorded", "log_id", entry.ID, "vehicle_id", entry.VehicleID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, vehicleLogResponse{Log: toVehicleLogDTO(entry)})
}

// Exit closes an open vehicle log.
func (h *VehicleLogHandler) Exit(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id := idParam(r)
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Exit", "log_id", id)

	entry, err := h.service.RecordExit(r.Context(), principal, id)
	if err != nil {
		logger.WarnContext(r.Context(), "vehicle exit failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "vehicle exit recorded")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, vehicleLogResponse{Log: toVehicleLogDTO(entry)})
}

func (h *VehicleLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	entry, err := h.service.GetVehicleLog(r.Context(), principal, idParam(r))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, vehicleLogResponse{Log: toVehicleLogDTO(entry)})
}

func (h *VehicleLogHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	filter, err := vehicleLogFilterFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	page, err := h.service.ListVehicleLogs(r.Context(), principal, filter, pageFromQuery(r))
	if err != nil {
		h.log(r.Context(), "List").WarnContext(r.Context(), "vehicle log list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listVehicleLogsResponse{
		Logs:    mapItems(page.Items, toVehicleLogDTO),
		pageDTO: toPageDTO(page),
	})
}

// Export streams the filtered logs as CSV.
func (h *VehicleLogHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	filter, err := vehicleLogFilterFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Export")

	logs, err := h.service.ExportVehicleLogs(r.Context(), principal, filter)
	if err != nil {
		logger.WarnContext(r.Context(), "vehicle log export failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.csv.VehicleLogs(&buf, logs); err != nil {
		logger.ErrorContext(r.Context(), "vehicle log csv failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "vehicle logs exported", "rows", len(logs))
	h.responder.writeBytes(r.Context(), w, export.ContentType, export.VehicleLogsFilename, buf.Bytes())
}

func vehicleLogFilterFromQuery(r *http.Request) (application.VehicleLogFilter, error) {
	entry, err := timeRangeQuery(r, "entry_from", "entry_to")
	if err != nil {
		return application.VehicleLogFilter{}, err
	}
	exit, err := timeRangeQuery(r, "exit_from", "exit_to")
	if err != nil {
		return application.VehicleLogFilter{}, err
	}
	return application.VehicleLogFilter{
		Name:        stringQuery(r, "name"),
		PlateNumber: stringQuery(r, "plate_number"),
		EntryFrom:   entry.from,
		EntryTo:     entry.to,
		ExitFrom:    exit.from,
		ExitTo:      exit.to,
	}, nil
}

type vehicleEntryRequest struct {
	VehicleID   string `json:"vehicleId"`
	PlateNumber string `json:"plateNumber"`
}

type vehicleLogResponse struct {
	Log vehicleLogDTO `json:"log"`
}

type listVehicleLogsResponse struct {
	Logs []vehicleLogDTO `json:"logs"`
	pageDTO
}

type vehicleLogDTO struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicleId"`
	PlateNumber string `json:"plateNumber"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Entry       int64  `json:"entry"`
	Exit        *int64 `json:"exit,omitempty"`
}

func toVehicleLogDTO(l application.VehicleLog) vehicleLogDTO {
	return vehicleLogDTO{
		ID:          l.ID,
		VehicleID:   l.VehicleID,
		PlateNumber: l.PlateNumber,
		Category:    string(l.Category),
		Name:        l.OwnerName,
		Entry:       epochMillis(l.Entry),
		Exit:        epochMillisPtr(l.Exit),
	}
}
