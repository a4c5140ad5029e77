// Package errors provides standardized error handling for the job
// aggregation service.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidGeometry ErrorCode = "INVALID_GEOMETRY"

	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeUpstreamDegraded     ErrorCode = "UPSTREAM_DEGRADED"

	ErrCodeDatasetLoadFailed ErrorCode = "DATASET_LOAD_FAILED"
	ErrCodeCacheUnavailable  ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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

// NewInvalidRequestError creates a non-retryable request error. The
// details string is safe to show to the caller.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid search request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidGeometryError creates a non-retryable geometry error for a
// malformed or degenerate polygon.
func NewInvalidGeometryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidGeometry,
		Message:   "Invalid polygon geometry",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationFailedError creates a retryable error for a rejected
// client-credentials exchange. Status and body are kept in metadata for
// logging, never sent to the caller.
func NewAuthenticationFailedError(status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "Upstream credential exchange rejected",
		Details:   fmt.Sprintf("status %d", status),
		Retryable: true,
		Metadata: map[string]interface{}{
			"status": status,
			"body":   body,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamDegradedError records a mid-pagination upstream failure for
// one department. Contained by the pipeline, never surfaced as a request
// failure.
func NewUpstreamDegradedError(department string, page int, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamDegraded,
		Message:   "Upstream search degraded mid-pagination",
		Details:   fmt.Sprintf("department %s, page %d, status %d", department, page, status),
		Retryable: true,
		Metadata: map[string]interface{}{
			"department": department,
			"page":       page,
			"status":     status,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetLoadFailedError creates a fatal startup error for the
// department boundary dataset.
func NewDatasetLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetLoadFailed,
		Message:   "Department boundary dataset could not be loaded",
		Details:   fmt.Sprintf("path %s: %v", path, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error. Details are logged but a
// generic message is what reaches the caller.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
