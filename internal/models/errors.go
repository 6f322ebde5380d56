package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingMessageID = errors.New("message id is required")
	ErrMissingThreadID  = errors.New("thread id is required")
	ErrMissingAction    = errors.New("action is required")
)

// Sentinel errors for entity lookups.
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrThreadNotFound  = errors.New("thread not found")
)

// ErrTenantResolution indicates the tenant identifier is missing, malformed,
// or unknown. Handlers must present this as an authorization failure, never
// as a distinct "tenant does not exist" response.
var ErrTenantResolution = errors.New("tenant resolution failed")

// ErrForbidden indicates the principal's role is not in the operation's
// allowed set.
var ErrForbidden = errors.New("forbidden")

// ErrScopeClosed indicates a scoped data-access handle was used after its
// unit of work returned. This is a programming error and always fails loudly.
var ErrScopeClosed = errors.New("tenant scope closed")

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrValueTooLong indicates a value exceeds its column's length limit.
var ErrValueTooLong = errors.New("value too long")

// ErrNotEligible indicates a message cannot receive analysis results, either
// because it is outbound or because it has no content to analyze.
var ErrNotEligible = errors.New("message not eligible for analysis")

// Sentinel errors for background task admission.
var (
	ErrTaskRunning  = errors.New("task already running for tenant")
	ErrTaskCapacity = errors.New("task capacity exhausted")
)

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d: %w", field, maxLen, ErrValueTooLong)
}
