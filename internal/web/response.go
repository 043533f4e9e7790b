package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joshdoucet/snapandsave/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps failure kinds to status codes. Validation and quantity
// rejections are the client's fault; storage failures are not.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidationFailed),
		errors.Is(err, domain.ErrQuantityUnderflow),
		errors.Is(err, domain.ErrQuantityOverflow),
		errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorageFailed):
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, "application/json", errorResponse{Error: err.Error()})
}
