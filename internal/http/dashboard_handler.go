package http

import (
	"log/slog"
	"net/http"

	"github.com/example/visitor-console/internal/application"
)

type DashboardHandler struct {
	service   DashboardService
	responder responder
}

func NewDashboardHandler(service DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, responder: newResponder(logger)}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	summary, err := h.service.Summary(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDashboardDTO(summary))
}

type dashboardDTO struct {
	RegisteredVehicles int    `json:"registeredVehicles"`
	VehicleLogs        int    `json:"vehicleLogs"`
	VisitorLogs        int    `json:"visitorLogs"`
	LatestEntry        *int64 `json:"latestEntry"`
	LatestExit         *int64 `json:"latestExit"`
}

func toDashboardDTO(s application.DashboardSummary) dashboardDTO {
	return dashboardDTO{
		RegisteredVehicles: s.RegisteredVehicles,
		VehicleLogs:        s.VehicleLogs,
		VisitorLogs:        s.VisitorLogs,
		LatestEntry:        epochMillisPtr(s.LatestEntry),
		LatestExit:         epochMillisPtr(s.LatestExit),
	}
}
