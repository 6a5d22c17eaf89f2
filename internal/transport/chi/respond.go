package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskhive/taskhive/internal/domain"
)

// ErrorCode identifies an API error category for clients.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeTaskNotFound     ErrorCode = "task_not_found"
	CodeStoreUnavailable ErrorCode = "store_unavailable"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body returned on all failures.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a client-facing error message without exposing
// internals. Validation wraps carry the full reason; everything else is
// reduced to the sentinel message.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidTask) || errors.Is(err, domain.ErrInvalidQuery) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrTaskNotFound,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
