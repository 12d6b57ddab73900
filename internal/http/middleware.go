package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/tomasen/realip"

	"github.com/example/visitor-console/internal/application"
	"github.com/example/visitor-console/internal/audit"
	"github.com/example/visitor-console/internal/logging"
)

// RequireSession resolves the session token to a principal or answers 401.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractTokenFromRequest(r)
			if token == "" {
				recordErrorKind(r.Context(), "unauthenticated")
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
					ErrorCode: "AUTH_REQUIRED",
					Message:   errMissingSessionToken.Error(),
				})
				return
			}

			principal, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, application.ErrInvalidCredentials),
					errors.Is(err, application.ErrSessionExpired),
					errors.Is(err, application.ErrSessionRevoked),
					errors.Is(err, application.ErrNotFound):
					recordErrorKind(r.Context(), application.ErrorKind(err))
					_, body := errorBody(err)
					if body.ErrorCode == "" || body.ErrorCode == "AUTH_INVALID_CREDENTIALS" {
						body = errorResponse{ErrorCode: "AUTH_SESSION_INVALID", Message: "Session is not valid. Please sign in again."}
					}
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, body)
				default:
					responder.handleServiceError(r.Context(), w, err)
				}
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			if logger := LoggerFromContext(ctx); logger != nil {
				ctx = ContextWithLogger(ctx, logger.With("principal_id", principal.UserID, "role", string(principal.Role)))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only for the listed roles. It must
// run after RequireSession.
func RequireRole(roles ...application.Role) func(http.Handler) http.Handler {
	responder := newResponder(nil)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || !principal.Authenticated() {
				recordErrorKind(r.Context(), "unauthenticated")
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{ErrorCode: "AUTH_REQUIRED", Message: statusMessage(http.StatusUnauthorized)})
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			responder.handleServiceError(r.Context(), w, application.ErrUnauthorized)
		})
	}
}

// RequestLogger assigns a request id, stores a request scoped logger and
// logs one line per finished request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	base = orDefault(base)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
			if id == "" {
				id = uuid.NewString()
			}
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", realip.FromRequest(r),
			)

			ctx, _ := contextWithState(r.Context())
			ctx = logging.ContextWithRequestID(ctx, id)
			ctx = ContextWithLogger(ctx, logger)
			w.Header().Set("X-Request-ID", id)

			rec := newStatusRecorder(w)
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "request completed",
				"status", rec.status,
				"bytes", rec.bytes,
				"duration", time.Since(start),
			)
		})
	}
}

// Recoverer turns a handler panic into a 500 response.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					responder.loggerFor(r.Context()).ErrorContext(r.Context(), "panic recovered",
						"panic", fmt.Sprint(rec),
						"stack", string(debug.Stack()),
					)
					recordErrorKind(r.Context(), "panic")
					responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: statusMessage(http.StatusInternalServerError)})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows the configured origins. A single "*" allows every origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return cors.AllowAll().Handler
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Session-Token", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
	}).Handler
}

// AuditRecorder receives audit entries.
type AuditRecorder interface {
	Record(entry audit.Entry)
}

// Audit records every state changing request and every export.
func Audit(recorder AuditRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, state := contextWithState(r.Context())
			r = r.WithContext(ctx)
			rec := newStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(rec, r)

			if !audited(r) {
				return
			}
			pattern := routePattern(r)
			recorder.Record(audit.Entry{
				Timestamp:  start.UTC(),
				Action:     r.Method + " " + pattern,
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: rec.status,
				UserID:     state.principal.UserID,
				Role:       string(state.principal.Role),
				Target:     auditTarget(r),
				RequestID:  logging.RequestIDFromContext(ctx),
				RemoteAddr: realip.FromRequest(r),
				Duration:   time.Since(start),
			})
		})
	}
}

func audited(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return strings.HasSuffix(r.URL.Path, "/export")
	}
	return true
}

func auditTarget(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for _, key := range []string{"id", "token"} {
			if v := rctx.URLParam(key); v != "" {
				if key == "token" {
					return "session"
				}
				return v
			}
		}
	}
	return ""
}

// RequestObserver receives request metrics.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
	OperationFailed(operation, kind string)
}

// Metrics records latency and status per route pattern.
func Metrics(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, state := contextWithState(r.Context())
			r = r.WithContext(ctx)
			rec := newStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(rec, r)

			pattern := routePattern(r)
			observer.ObserveRequest(r.Method, pattern, rec.status, time.Since(start))
			if state.errorKind != "" && rec.status >= http.StatusBadRequest {
				observer.OperationFailed(r.Method+" "+pattern, state.errorKind)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
