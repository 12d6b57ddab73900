package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/visitor-console/internal/application"
)

// RouterConfig wires handlers and cross cutting middleware. Nil handlers
// leave their routes unregistered.
type RouterConfig struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Vehicles    *VehicleHandler
	VehicleLogs *VehicleLogHandler
	VisitorLogs *VisitorLogHandler
	Passes      *PassHandler
	Dashboard   *DashboardHandler

	Sessions    SessionValidator
	Audit       AuditRecorder
	Observer    RequestObserver
	Metrics     http.Handler
	Health      http.HandlerFunc
	CORSOrigins []string
	Logger      *slog.Logger
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := orDefault(cfg.Logger)
	responder := newResponder(logger)

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responder.writeJSON(req.Context(), w, http.StatusNotFound, errorResponse{Message: statusMessage(http.StatusNotFound)})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responder.writeJSON(req.Context(), w, http.StatusMethodNotAllowed, errorResponse{Message: http.StatusText(http.StatusMethodNotAllowed)})
	})

	r.Use(Metrics(cfg.Observer))
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(Audit(cfg.Audit))
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	health := cfg.Health
	if health == nil {
		health = func(w http.ResponseWriter, req *http.Request) {
			responder.writeJSON(req.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
		}
	}
	r.Get("/healthz", health)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	// Public routes.
	if cfg.Auth != nil {
		r.Post("/sessions", cfg.Auth.CreateSession)
	}
	if cfg.Passes != nil {
		r.Post("/visitor-passes", cfg.Passes.IssueVisitor)
		r.Post("/homeowner-passes", cfg.Passes.IssueHomeowner)
	}

	r.Group(func(r chi.Router) {
		if cfg.Sessions != nil {
			r.Use(RequireSession(cfg.Sessions, logger))
		}
		admin := RequireRole(application.RoleAdmin)

		if cfg.Auth != nil {
			r.Get("/sessions/current", cfg.Auth.CurrentSession)
			r.Post("/sessions/refresh", cfg.Auth.RefreshSession)
			r.Delete("/sessions/current", cfg.Auth.DeleteCurrentSession)
			r.With(admin).Delete("/sessions/{token}", cfg.Auth.DeleteSession)
		}

		if h := cfg.Users; h != nil {
			r.Route("/users", func(r chi.Router) {
				r.Use(admin)
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Get("/{id}", h.Get)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
			})
			r.With(admin).Post("/api/deleteUser", h.DeleteByBody)
		}

		if h := cfg.Vehicles; h != nil {
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Get("/{id}", h.Get)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Archive)
				r.Post("/{id}/archive", h.Archive)
				r.Post("/{id}/unarchive", h.Unarchive)
			})
		}

		if h := cfg.VehicleLogs; h != nil {
			r.Route("/vehicle-logs", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Get("/export", h.Export)
				r.Get("/{id}", h.Get)
				r.Post("/{id}/exit", h.Exit)
			})
		}

		if h := cfg.VisitorLogs; h != nil {
			r.Route("/visitor-logs", func(r chi.Router) {
				r.Get("/", h.List)
				r.Get("/export", h.Export)
				r.Get("/{id}", h.Get)
			})
		}

		if h := cfg.Passes; h != nil {
			gate := RequireRole(application.RoleAdmin, application.RoleGuard)
			r.With(gate).Post("/visitor-passes/scan", h.Scan)
			r.With(gate).Post("/visitor-passes/redeem", h.Redeem)
		}

		if cfg.Dashboard != nil {
			r.Get("/dashboard", cfg.Dashboard.Summary)
		}
	})

	return r
}
