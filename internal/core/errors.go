package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is wrapped by a DecodeError for an absent required key
	ErrMissingField = errors.New("required field missing")
	// ErrMalformedPayload is wrapped by a DecodeError for input that is not a JSON object
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrBaseURLNotConfigured is returned when hosting an attachment without a public base URL
	ErrBaseURLNotConfigured = errors.New("base url not configured")
	// ErrProfilePermission is returned when the Graph API answers a profile lookup with an empty object
	ErrProfilePermission = errors.New("permission denied for user profile")
	// ErrAttachmentNotFound is returned by an AttachmentStore for an unknown id
	ErrAttachmentNotFound = errors.New("hosted attachment not found")
)

// ValidationError is raised when a value object is constructed with data
// that breaks one of its invariants.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DecodeError reports an inbound payload that does not have the structure
// of its event type, usually a required key that is absent.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func missing(field string) *DecodeError {
	return &DecodeError{Field: field, Err: ErrMissingField}
}

// APIError is the error object returned by the Send/Graph API.
type APIError struct {
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("messenger API error: code %d, subcode %d: %s", e.Code, e.Subcode, e.Message)
}
