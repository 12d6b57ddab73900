package http

import (
	"context"
	"log/slog"

	"github.com/example/visitor-console/internal/application"
	"github.com/example/visitor-console/internal/logging"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	stateContextKey     contextKey = "request_state"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	if state := stateFromContext(ctx); state != nil {
		state.principal = principal
	}
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithLogger stores the request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// requestState is shared by the outer middleware and everything below it.
// Values written deeper in the chain (the principal, the error kind of a
// failed call) stay visible to audit and metrics after the handler returns.
type requestState struct {
	principal application.Principal
	errorKind string
}

func contextWithState(ctx context.Context) (context.Context, *requestState) {
	if state := stateFromContext(ctx); state != nil {
		return ctx, state
	}
	state := &requestState{}
	return context.WithValue(ctx, stateContextKey, state), state
}

func stateFromContext(ctx context.Context) *requestState {
	state, _ := ctx.Value(stateContextKey).(*requestState)
	return state
}

func recordErrorKind(ctx context.Context, kind string) {
	if state := stateFromContext(ctx); state != nil && state.errorKind == "" {
		state.errorKind = kind
	}
}

func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = fallback
		if logger == nil {
			logger = slog.Default()
		}
		if id := logging.RequestIDFromContext(ctx); id != "" {
			logger = logger.With("request_id", id)
		}
	}

	pairs := make([]any, 0, 4+len(attrs))
	pairs = append(pairs, "handler", handlerName)
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	return logger.With(append(pairs, attrs...)...)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
