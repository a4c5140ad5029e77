// internal/common/errors/handler.go
package errors

import (
	"errors"
	"net/http"
	"time"
)

// ErrorResponse is the JSON body written to the client for a failed
// request. Internal detail stays out of it unless the error code is one
// whose details are caller-safe (INVALID_REQUEST, INVALID_GEOMETRY).
type ErrorResponse struct {
	Error string `json:"error"`
	Jobs  []any  `json:"jobs"`
}

// HTTPStatus maps an error code to the response status the route
// handlers should use.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeInvalidGeometry:
		return http.StatusBadRequest
	case ErrCodeAuthenticationFailed:
		return http.StatusBadGateway
	case ErrCodeUpstreamDegraded:
		// Contained by the pipeline; if one ever escapes, treat as internal.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Normalize ensures we always have a StandardError to work with.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ToResponse converts an error into the status code and sanitized body
// for the client. Only request-shape errors expose their details; every
// other code gets its generic message.
func ToResponse(err error) (int, ErrorResponse) {
	stdErr := Normalize(err)

	msg := stdErr.Message
	switch stdErr.Code {
	case ErrCodeInvalidRequest, ErrCodeInvalidGeometry:
		if stdErr.Details != "" {
			msg = stdErr.Details
		}
	}

	return HTTPStatus(stdErr.Code), ErrorResponse{
		Error: msg,
		Jobs:  []any{},
	}
}
