// Package shared holds the response helpers every handler uses: one JSON
// writer and one error writer that maps domain-error codes onto HTTP status
// codes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "quorum/pkg/domain-errors"
)

// ErrorResponse is the error envelope returned to API clients.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto its HTTP status and envelope. Errors
// without a code are treated as internal and their details withheld.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := err.Error()
	if code == dErrors.CodeInternal {
		message = "internal server error"
	}
	WriteJSON(w, statusFor(code), ErrorResponse{
		Error:   string(code),
		Message: message,
	})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeSessionClosed, dErrors.CodeDuplicateVote:
		return http.StatusConflict
	case dErrors.CodeInvalidIdentity:
		return http.StatusUnprocessableEntity
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
