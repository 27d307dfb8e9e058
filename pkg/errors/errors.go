package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a processor error for handling
type ErrorCategory string

const (
	CategoryApproved       ErrorCategory = "approved"
	CategoryDeclined       ErrorCategory = "declined"
	CategoryInvalidPayment ErrorCategory = "invalid_payment"
	CategorySystemError    ErrorCategory = "system_error"
	CategoryNetworkError   ErrorCategory = "network_error"
	CategoryInvalidRequest ErrorCategory = "invalid_request"
)

// GatewayError represents a non-success response from the payment
// processor. It carries the raw response code and payload for server-side
// diagnostics; callers must never expose Payload to end users.
type GatewayError struct {
	Operation    string // clients | payments | preauthorizations | transactions
	Message      string
	UserMessage  string // safe to show to the shopper
	Payload      []byte // raw response body, server-side logs only
	Category     ErrorCategory
	ResponseCode int
	Timeout      bool
	Retriable    bool // retryable only via a fresh checkout attempt
}

func (e *GatewayError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("gateway %s: timed out", e.Operation)
	}
	return fmt.Sprintf("gateway %s: response code %d: %s", e.Operation, e.ResponseCode, e.Message)
}

// NewGatewayError creates an error for a non-success processor response code
func NewGatewayError(operation string, responseCode int, payload []byte) *GatewayError {
	return &GatewayError{
		Operation:    operation,
		ResponseCode: responseCode,
		Message:      "invalid response code",
		UserMessage:  "Payment failed. Please try again or use a different payment method.",
		Payload:      payload,
		Category:     CategoryDeclined,
	}
}

// NewGatewayTimeout creates an error for a network-level timeout talking
// to the processor. The attempt is dead; a retry must start from scratch
// with a fresh token.
func NewGatewayTimeout(operation string) *GatewayError {
	return &GatewayError{
		Operation:   operation,
		Message:     "request timed out",
		UserMessage: "Payment could not be completed. Please try again.",
		Category:    CategoryNetworkError,
		Timeout:     true,
		Retriable:   true,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
