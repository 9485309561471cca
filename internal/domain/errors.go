// Package domain provides canonical error types for the relay.
package domain

import (
	"fmt"
	"net/http"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a malformed or incomplete inbound request.
	ErrorTypeInvalidRequest ErrorType = "invalid_request"

	// ErrorTypeUpstream indicates a collaborator answered with a failure.
	ErrorTypeUpstream ErrorType = "upstream"

	// ErrorTypeConfig indicates a required configuration value is absent.
	ErrorTypeConfig ErrorType = "config"

	// ErrorTypeServer indicates an unexpected internal failure.
	ErrorTypeServer ErrorType = "server"
)

// ErrorCode is the short machine-readable tag rendered as the "error" field.
type ErrorCode string

const (
	ErrorCodeVoiceflow      ErrorCode = "voiceflow_error"
	ErrorCodeVoiceflowProxy ErrorCode = "vf_proxy_failed"
	ErrorCodeDID            ErrorCode = "did_error"
)

// APIError represents a canonical error returned by upstream clients and
// services, rendered to JSON by the codec package.
type APIError struct {
	// Type is the category of error
	Type ErrorType `json:"type"`

	// Code is an optional wire tag (e.g. "did_error")
	Code ErrorCode `json:"code,omitempty"`

	// Message is the human-readable error message
	Message string `json:"message,omitempty"`

	// UpstreamStatus is the status code the collaborator answered with
	UpstreamStatus int `json:"status,omitempty"`

	// Details carries the upstream body (decoded JSON or raw text)
	Details any `json:"details,omitempty"`

	// StatusCode is the suggested HTTP status code
	StatusCode int `json:"-"`

	cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.UpstreamStatus != 0 {
		msg = fmt.Sprintf("upstream status %d", e.UpstreamStatus)
	}
	if msg == "" && e.Details != nil {
		msg = fmt.Sprint(e.Details)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// HTTPStatusCode returns the appropriate HTTP status code for this error.
func (e *APIError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}

	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	case ErrorTypeConfig, ErrorTypeServer:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAPIError creates a new API error.
func NewAPIError(errType ErrorType, message string) *APIError {
	return &APIError{
		Type:    errType,
		Message: message,
	}
}

// WithCode adds a wire tag to the error.
func (e *APIError) WithCode(code ErrorCode) *APIError {
	e.Code = code
	return e
}

// WithUpstreamStatus records the status code the collaborator returned.
func (e *APIError) WithUpstreamStatus(status int) *APIError {
	e.UpstreamStatus = status
	return e
}

// WithDetails attaches diagnostic detail, typically the upstream body.
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// WithStatusCode sets a specific HTTP status code.
func (e *APIError) WithStatusCode(code int) *APIError {
	e.StatusCode = code
	return e
}

// WithCause records the error that triggered this one.
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

// Convenience constructors for common errors

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(message string) *APIError {
	return NewAPIError(ErrorTypeInvalidRequest, message)
}

// ErrUpstream creates an upstream error.
func ErrUpstream(message string) *APIError {
	return NewAPIError(ErrorTypeUpstream, message)
}

// ErrConfig creates a missing-configuration error.
func ErrConfig(message string) *APIError {
	return NewAPIError(ErrorTypeConfig, message)
}

// ErrServer creates a server error.
func ErrServer(message string) *APIError {
	return NewAPIError(ErrorTypeServer, message)
}
