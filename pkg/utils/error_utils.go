package utils

import (
	"github.com/gin-gonic/gin"
)

// APIError is the standardized JSON error envelope returned by all handlers.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code,omitempty"`
	Message    string            `json:"message"`
	Details    string            `json:"details,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"` // field name -> message, for validation/conflict errors
}

// NewAPIError creates a new APIError instance.
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// WithFields attaches per-field messages to the error.
func (e *APIError) WithFields(fields map[string]string) *APIError {
	e.Fields = fields
	return e
}

// RespondWithError sends a standardized JSON error response and aborts the
// request chain.
func RespondWithError(c *gin.Context, err *APIError) {
	c.JSON(err.StatusCode, gin.H{"error": err})
	c.Abort()
}

// Application error codes.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeLocationMismatch    = "TRANSFER_LOCATION_MISMATCH"
	ErrCodeBulkConfirmation    = "BULK_CONFIRMATION_REQUIRED"
	ErrCodeSubmissionInFlight  = "SUBMISSION_IN_FLIGHT"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
)
