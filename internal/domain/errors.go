package domain

import (
	"fmt"
	"time"
)

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrInvalidInput        = "INVALID_INPUT"
	ErrInvalidIntakeRecord = "INVALID_INTAKE_RECORD"
	ErrRateLimit           = "RATE_LIMIT_EXCEEDED"
	ErrRequestTimeout      = "REQUEST_TIMEOUT"
	ErrInternalServer      = "INTERNAL_SERVER_ERROR"
)

// InvalidIntakeRecordError reports the first offending field of an intake record
type InvalidIntakeRecordError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *InvalidIntakeRecordError) Error() string {
	return fmt.Sprintf("invalid intake record field '%s': %s", e.Field, e.Message)
}

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewInvalidIntakeRecordError creates a new InvalidIntakeRecordError
func NewInvalidIntakeRecordError(field, message string, value interface{}) *InvalidIntakeRecordError {
	return &InvalidIntakeRecordError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
