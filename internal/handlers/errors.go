package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"school_ops_backend/internal/inventory"
	"school_ops_backend/internal/services"
	"school_ops_backend/internal/upstream"
	"school_ops_backend/pkg/utils"
)

// respondServiceError maps service and upstream errors onto the API error
// envelope. Backend field messages pass through verbatim.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeValidationFailed, "Input validation failed", "").
			WithFields(services.FieldsOf(err)))

	case errors.Is(err, services.ErrPermissionDenied):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden,
			utils.ErrCodeForbidden, err.Error(), ""))

	case errors.Is(err, services.ErrBulkConfirmationRequired):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict,
			utils.ErrCodeBulkConfirmation, err.Error(), ""))

	case errors.Is(err, services.ErrSubmissionInFlight):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict,
			utils.ErrCodeSubmissionInFlight, err.Error(), ""))

	case errors.Is(err, inventory.ErrLocationMismatch):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict,
			utils.ErrCodeLocationMismatch, err.Error(), ""))

	case errors.Is(err, inventory.ErrEmptySelection),
		errors.Is(err, inventory.ErrMissingDestination),
		errors.Is(err, inventory.ErrMissingDestSchool),
		errors.Is(err, inventory.ErrInvalidDestination),
		errors.Is(err, inventory.ErrDestSchoolForbidden):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeValidationFailed, err.Error(), ""))

	case errors.Is(err, services.ErrCategoryInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict,
			utils.ErrCodeConflict, err.Error(), ""))

	case errors.Is(err, services.ErrWorkflowClosed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict,
			utils.ErrCodeConflict, err.Error(), ""))

	case errors.Is(err, services.ErrSummaryUnavailable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable,
			utils.ErrCodeUpstreamUnavailable, err.Error(), ""))

	case errors.Is(err, upstream.ErrUnavailable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway,
			utils.ErrCodeUpstreamUnavailable, "The school backend is unavailable, please retry", ""))

	default:
		if re, ok := upstream.AsRequestError(err); ok {
			code := utils.ErrCodeConflict
			if re.StatusCode == http.StatusNotFound {
				code = utils.ErrCodeNotFound
			}
			utils.RespondWithError(c, utils.NewAPIError(re.StatusCode, code, re.Message, "").
				WithFields(re.Fields))
			return
		}
		utils.LogError(err, "Unhandled service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError,
			utils.ErrCodeInternalServerError, "Internal server error", ""))
	}
}
