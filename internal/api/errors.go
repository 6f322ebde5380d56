package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/municipallabs/corecrm/internal/httputil"
	"github.com/municipallabs/corecrm/internal/metrics"
	"github.com/municipallabs/corecrm/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeConflict        = "conflict"
	ErrCodeNotEligible     = "not_eligible"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondDomainError maps domain sentinels to HTTP responses. Unknown errors
// become opaque 500s; the detail goes to the log, not the client.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrMissingMessageID),
		errors.Is(err, models.ErrMissingThreadID),
		errors.Is(err, models.ErrMissingAction),
		errors.Is(err, models.ErrValueTooLong):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	case errors.Is(err, models.ErrMessageNotFound),
		errors.Is(err, models.ErrThreadNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	// Tenant resolution failures read as authorization failures so probing
	// for tenant existence yields nothing.
	case errors.Is(err, models.ErrTenantResolution),
		errors.Is(err, models.ErrForbidden):
		respondError(c, http.StatusForbidden, ErrCodeForbidden, "operation not permitted")
	case errors.Is(err, models.ErrNotEligible):
		respondError(c, http.StatusUnprocessableEntity, ErrCodeNotEligible, err.Error())
	case errors.Is(err, models.ErrDuplicateKey),
		errors.Is(err, models.ErrTaskRunning):
		respondError(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, models.ErrTaskCapacity):
		respondError(c, http.StatusServiceUnavailable, ErrCodeRateLimited, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
