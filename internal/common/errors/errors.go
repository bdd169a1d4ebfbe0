// Package errors provides the standardized error taxonomy for the search
// pipeline and its HTTP surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeConfigurationMissing ErrorCode = "CONFIGURATION_MISSING"
	ErrCodeUpstreamFailed       ErrorCode = "UPSTREAM_FAILED"
	ErrCodeUpstreamTimeout      ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeDataShapeInvalid     ErrorCode = "DATA_SHAPE_INVALID"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailed creates a non-retryable request validation error.
// The message is user-facing and returned verbatim to the client.
func NewValidationFailed(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationMissing creates an error for absent required external
// configuration, e.g. the upstream API key.
func NewConfigurationMissing(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationMissing,
		Message:   "Service configuration error",
		Details:   fmt.Sprintf("missing configuration: %s", key),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamFailed creates a retryable error for a non-2xx upstream response.
func NewUpstreamFailed(status int, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamFailed,
		Message:   "Upstream API request failed",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"upstreamStatus": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamTimeout creates a retryable error for an upstream call that
// exceeded its deadline.
func NewUpstreamTimeout(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   "Upstream API request timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataShapeInvalid creates a non-retryable error for an upstream payload
// missing its expected structure.
func NewDataShapeInvalid(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataShapeInvalid,
		Message:   "Upstream payload has an unexpected shape",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard normalizes any error to a StandardError.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the response status the facade emits.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeConfigurationMissing, ErrCodeUpstreamFailed, ErrCodeDataShapeInvalid, ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}
