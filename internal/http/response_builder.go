package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"salon/internal/core"
	applog "salon/internal/log"
	"salon/internal/middleware/trace"
	"salon/internal/storage"
)

const (
	codeValidation       = "validation_error"
	codeNotFound         = "not_found"
	codeConflict         = "conflict"
	codeMethodNotAllowed = "method_not_allowed"
	codeRateLimited      = "rate_limited"
	codeUnavailable      = "unavailable"
	codeInternal         = "internal_error"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}

// writeServiceError maps domain and storage errors to a status. Anything
// unrecognised is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, resource, op string) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, codeValidation, verr.Error())
	case errors.Is(err, storage.ErrCustomerNotFound):
		writeError(w, http.StatusBadRequest, codeValidation, "customerId: customer does not exist")
	case errors.Is(err, storage.ErrServiceNotFound):
		writeError(w, http.StatusBadRequest, codeValidation, "lineItems: service does not exist")
	case errors.Is(err, storage.ErrCustomerHasAppointments):
		writeError(w, http.StatusConflict, codeConflict, "customer still has appointments")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, resource+" not found")
	default:
		ctx := r.Context()
		fields := applog.NewFields().
			WithRequestID(trace.GetRequestID(ctx)).
			WithErrorType(applog.ErrorTypeInternal)
		applog.NewStructuredLogger(applog.FromContext(ctx)).
			LogError(ctx, "Request failed", err, applog.ComponentHTTP, op, fields)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// list keeps empty collections as [] on the wire.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
