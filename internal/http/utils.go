package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vinylvault/vinylvault/internal/domain"
)

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps domain errors to HTTP status codes. Unknown errors
// become an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		notFound    *domain.ErrNotFound
		duplicate   *domain.ErrDuplicateReview
		validation  domain.ValidationError
		unavailable *domain.ErrBackendUnavailable
	)
	switch {
	case errors.As(err, &notFound):
		WriteJSONError(w, notFound.Error(), http.StatusNotFound)
	case errors.As(err, &duplicate):
		WriteJSONError(w, duplicate.Error(), http.StatusConflict)
	case errors.As(err, &validation):
		WriteJSONError(w, validation.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrMigrationInProgress):
		WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &unavailable):
		WriteJSONError(w, "Backend temporarily unavailable", http.StatusServiceUnavailable)
	default:
		WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
