package services

import (
	"errors"

	"school_ops_backend/internal/inventory"
)

// Service-level sentinel errors. Handlers map these onto the API error
// envelope; workflows return them instead of panicking or throwing.
var (
	ErrValidation               = errors.New("validation error")
	ErrPermissionDenied         = errors.New("permission denied")
	ErrSubmissionInFlight       = errors.New("a submission is already in progress")
	ErrBulkConfirmationRequired = errors.New("bulk creation requires explicit confirmation")
	ErrWorkflowClosed           = errors.New("workflow is closed")
	ErrSummaryUnavailable       = errors.New("summary has not been fetched yet")
	ErrCategoryInUse            = errors.New("category has associated items and cannot be deleted")
)

// ValidationError carries per-field messages alongside the ErrValidation
// sentinel, so handlers can highlight fields without parsing strings.
type ValidationError struct {
	Fields inventory.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldsOf extracts field messages when err is a ValidationError.
func FieldsOf(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
