package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/commercekit/paymill-bridge/internal/domain"
	pkgerrors "github.com/commercekit/paymill-bridge/pkg/errors"
)

// ErrorBody is the canonical error payload returned by the API.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an error response using the canonical error shape.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, map[string]any{
		"error": ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeDomainError maps service errors to HTTP responses. Gateway errors
// expose only the shopper-safe UserMessage; the raw processor payload
// stays in server-side logs.
func writeDomainError(w http.ResponseWriter, err error) {
	var gwErr *pkgerrors.GatewayError
	if errors.As(err, &gwErr) {
		status := http.StatusBadGateway
		if gwErr.Category == pkgerrors.CategoryDeclined {
			status = http.StatusPaymentRequired
		}
		JSONError(w, status, string(domain.GetErrorCode(err)), gwErr.UserMessage, nil)
		return
	}

	code := domain.GetErrorCode(err)
	switch {
	case domain.IsValidationError(err):
		JSONError(w, http.StatusBadRequest, string(code), err.Error(), nil)
	case domain.IsConfigurationError(err):
		JSONError(w, http.StatusUnprocessableEntity, string(code), err.Error(), nil)
	case code == domain.ErrorCodeTxnNotFound:
		JSONError(w, http.StatusNotFound, string(code), err.Error(), nil)
	default:
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
