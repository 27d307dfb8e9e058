package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Configuration errors (CONFIG_*) - fatal, raised before any remote call
	ErrorCodeConfigMissingCredential ErrorCode = "CONFIG_MISSING_CREDENTIAL"
	ErrorCodeConfigUnsupportedMethod ErrorCode = "CONFIG_UNSUPPORTED_METHOD"
	ErrorCodeConfigUnsupportedCurrency ErrorCode = "CONFIG_UNSUPPORTED_CURRENCY"

	// Gateway errors (GATEWAY_*)
	ErrorCodeGatewayError   ErrorCode = "GATEWAY_ERROR"
	ErrorCodeGatewayTimeout ErrorCode = "GATEWAY_TIMEOUT"

	// Charge context errors
	ErrorCodeReferenceMissing ErrorCode = "REFERENCE_MISSING"

	// Transaction record errors (TXN_*)
	ErrorCodeTxnNotFound ErrorCode = "TXN_NOT_FOUND"

	// Validation errors (VALIDATION_*)
	ErrorCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrorCodeValidationMissingToken ErrorCode = "VALIDATION_MISSING_TOKEN"

	// Internal errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsConfigurationError reports whether err is fatal misconfiguration that
// must surface before any remote call is attempted.
func IsConfigurationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeConfigMissingCredential ||
		code == ErrorCodeConfigUnsupportedMethod ||
		code == ErrorCodeConfigUnsupportedCurrency
}

// IsGatewayError reports whether err originated at the payment processor.
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayError || code == ErrorCodeGatewayTimeout
}

// IsGatewayTimeout reports whether err is a network-level gateway timeout,
// retryable only by starting a fresh checkout attempt.
func IsGatewayTimeout(err error) bool {
	return GetErrorCode(err) == ErrorCodeGatewayTimeout
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationFailed ||
		code == ErrorCodeValidationMissingToken ||
		code == ErrorCodeReferenceMissing
}

// Structured error instances
var (
	ErrMissingCredential = NewDomainError(ErrorCodeConfigMissingCredential, "no private key was set")
	ErrReferenceMissing  = NewDomainError(ErrorCodeReferenceMissing, "no order or quote reference available")
	ErrTxnNotFound       = NewDomainError(ErrorCodeTxnNotFound, "transaction record not found")
	ErrMissingToken      = NewDomainError(ErrorCodeValidationMissingToken, "payment token required and no stored payment id supplied")
)
