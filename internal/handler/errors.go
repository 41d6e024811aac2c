package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/trails-api/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client may have gone away
	json.NewEncoder(w).Encode(v)
}

// writeDetail writes an ErrorResponse with the given status.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// writeError maps a service error to its status code. notFound is the detail
// used for domain.ErrNotFound, because the handler knows what was looked up.
// Unknown errors are logged and answered with 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeDetail(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrValidation):
		writeDetail(w, http.StatusUnprocessableEntity, detailMessage(err))
	case errors.Is(err, domain.ErrInvalidField):
		writeDetail(w, http.StatusBadRequest, detailMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeDetail(w, http.StatusForbidden, "Not authorized")
	case errors.As(err, &tooLarge):
		writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

// detailMessage extracts the human-readable part of a wrapped error.
// Typed input errors carry their own message; for wrapped sentinels the
// text after the sentinel is used.
// e.g. "service.TrailService.Create: validation error: duration must be greater than 0"
// → "duration must be greater than 0"
func detailMessage(err error) string {
	var enumErr *domain.InvalidEnumValueError
	if errors.As(err, &enumErr) {
		return enumErr.Error()
	}
	var typeErr *domain.TypeMismatchError
	if errors.As(err, &typeErr) {
		return typeErr.Error()
	}

	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrInvalidField} {
		if _, after, ok := strings.Cut(msg, sentinel.Error()+": "); ok {
			return after
		}
	}
	return msg
}
