package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/visitor-console/internal/application"
)

type VehicleHandler struct {
	service   VehicleService
	responder responder
	logger    *slog.Logger
}

func NewVehicleHandler(service VehicleService, logger *slog.Logger) *VehicleHandler {
	base := orDefault(logger)
	return &VehicleHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *VehicleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "VehicleHandler", operation, attrs...)
}

func (h *VehicleHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	vehicle, err := h.service.RegisterVehicle(r.Context(), principal, req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "vehicle registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "vehicle registered", "vehicle_id", vehicle.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, vehicleResponse{Vehicle: toVehicleDTO(vehicle)})
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id := idParam(r)
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "vehicle_id", id)
	vehicle, err := h.service.UpdateVehicle(r.Context(), principal, id, req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "vehicle update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "vehicle updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, vehicleResponse{Vehicle: toVehicleDTO(vehicle)})
}

// Archive soft deletes a vehicle. DELETE /vehicles/{id} is served here too.
func (h *VehicleHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, "Archive", false)
}

func (h *VehicleHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, "Unarchive", true)
}

func (h *VehicleHandler) setActive(w http.ResponseWriter, r *http.Request, operation string, active bool) {
	if !h.ready(w) {
		return
	}
	id := idParam(r)
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), operation, "vehicle_id", id)

	var (
		vehicle application.Vehicle
		err     error
	)
	if active {
		vehicle, err = h.service.UnarchiveVehicle(r.Context(), principal, id)
	} else {
		vehicle, err = h.service.ArchiveVehicle(r.Context(), principal, id)
	}
	if err != nil {
		logger.WarnContext(r.Context(), "vehicle state change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "vehicle state changed", "is_active", vehicle.IsActive)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, vehicleResponse{Vehicle: toVehicleDTO(vehicle)})
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	vehicle, err := h.service.GetVehicle(r.Context(), principal, idParam(r))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, vehicleResponse{Vehicle: toVehicleDTO(vehicle)})
}

// List serves the active view, or the archived view with ?archived=true.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	filter := application.VehicleFilter{
		Archived:    boolQuery(r, "archived"),
		Name:        stringQuery(r, "name"),
		PlateNumber: stringQuery(r, "plate_number"),
		PaymentName: stringQuery(r, "payment_name"),
	}

	page, err := h.service.ListVehicles(r.Context(), principal, filter, pageFromQuery(r))
	if err != nil {
		h.log(r.Context(), "List").WarnContext(r.Context(), "vehicle list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listVehiclesResponse{
		Vehicles: mapItems(page.Items, toVehicleDTO),
		pageDTO:  toPageDTO(page),
	})
}

type vehicleRequest struct {
	Name          string `json:"name"`
	PlateNumber   string `json:"plateNumber"`
	Category      string `json:"category"`
	PaymentName   string `json:"paymentName"`
	PaymentStatus string `json:"paymentStatus"`
}

func (r vehicleRequest) toInput() application.VehicleInput {
	return application.VehicleInput{
		Name:          strings.TrimSpace(r.Name),
		PlateNumber:   strings.TrimSpace(r.PlateNumber),
		Category:      strings.TrimSpace(r.Category),
		PaymentName:   strings.TrimSpace(r.PaymentName),
		PaymentStatus: strings.TrimSpace(r.PaymentStatus),
	}
}

type vehicleResponse struct {
	Vehicle vehicleDTO `json:"vehicle"`
}

type listVehiclesResponse struct {
	Vehicles []vehicleDTO `json:"vehicles"`
	pageDTO
}

type vehicleDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PlateNumber    string `json:"plateNumber"`
	Category       string `json:"category"`
	PaymentName    string `json:"paymentName"`
	PaymentStatus  string `json:"paymentStatus"`
	PaymentDueDate int64  `json:"paymentDueDate"`
	DateRegistered int64  `json:"dateRegistered"`
	IsActive       bool   `json:"isActive"`
}

func toVehicleDTO(v application.Vehicle) vehicleDTO {
	return vehicleDTO{
		ID:             v.ID,
		Name:           v.Name,
		PlateNumber:    v.PlateNumber,
		Category:       string(v.Category),
		PaymentName:    v.PaymentName,
		PaymentStatus:  string(v.PaymentStatus),
		PaymentDueDate: epochMillis(v.PaymentDueDate),
		DateRegistered: epochMillis(v.DateRegistered),
		IsActive:       v.IsActive,
	}
}
