package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/visitor-console/internal/application"
)

var (
	errBadRequestBody      = errors.New("request body is malformed")
	errInvalidID           = errors.New("a resource id is required")
	errMissingSessionToken = errors.New("session token is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: orDefault(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeBytes(ctx context.Context, w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to write response body", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}
	recordErrorKind(ctx, "bad_request")

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors onto status codes.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}
	recordErrorKind(ctx, application.ErrorKind(err))

	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		r.loggerFor(ctx).ErrorContext(ctx, "internal error", "error", err)
	}
	r.writeJSON(ctx, w, status, body)
}

func errorBody(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{ErrorCode: "AUTH_INVALID_CREDENTIALS", Message: "Invalid Credentials"}
	case errors.Is(err, application.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{ErrorCode: "AUTH_SESSION_EXPIRED", Message: "Session has expired. Please sign in again."}
	case errors.Is(err, application.ErrSessionRevoked):
		return http.StatusUnauthorized, errorResponse{ErrorCode: "AUTH_SESSION_REVOKED", Message: "Session was signed out. Please sign in again."}
	case errors.Is(err, application.ErrAccountDisabled):
		return http.StatusForbidden, errorResponse{ErrorCode: "AUTH_ACCOUNT_DISABLED", Message: "This account is disabled."}
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusForbidden, errorResponse{ErrorCode: "AUTH_FORBIDDEN", Message: statusMessage(http.StatusForbidden)}
	case errors.Is(err, application.ErrLogNotFound):
		return http.StatusNotFound, errorResponse{ErrorCode: "LOG_NOT_FOUND", Message: application.ErrLogNotFound.Error()}
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: statusMessage(http.StatusNotFound)}
	case errors.Is(err, application.ErrAlreadyExists):
		return http.StatusConflict, errorResponse{ErrorCode: "ALREADY_EXISTS", Message: "A record with the same key already exists."}
	case errors.Is(err, application.ErrConflict):
		return http.StatusConflict, errorResponse{ErrorCode: "CONFLICT", Message: statusMessage(http.StatusConflict)}
	case errors.Is(err, application.ErrPassExpired):
		return http.StatusGone, errorResponse{ErrorCode: "PASS_EXPIRED", Message: "This pass has expired.", State: string(application.StateExpired)}
	case errors.Is(err, application.ErrInvalidPass):
		return http.StatusUnprocessableEntity, errorResponse{ErrorCode: "PASS_INVALID", Message: "The scanned code is not a valid visitor pass."}
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "VALIDATION_FAILED",
			Message:   statusMessage(http.StatusUnprocessableEntity),
			Errors:    vErr.FieldErrors,
		}
	}
	return http.StatusInternalServerError, errorResponse{Message: statusMessage(http.StatusInternalServerError)}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The request is not valid."
	case http.StatusUnauthorized:
		return "Authentication is required."
	case http.StatusForbidden:
		return "You do not have permission to perform this action."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusConflict:
		return "The request conflicts with the current state of the resource."
	case http.StatusUnprocessableEntity:
		return "Some fields are invalid."
	default:
		return "Something went wrong. Please try again."
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	State     string            `json:"state,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}
