package error

import "errors"

// Request errors.
var (
	// ErrInvalidRequest is returned when a request body or form cannot be read.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrPayloadTooLarge is returned when an upload exceeds the configured size.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// RequestErrorCode defines error codes for request-level errors.
// Format: REQ-XXYYYY where XX is category and YYYY is specific error.
type RequestErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidRequest  RequestErrorCode = "REQ-010001"
	ErrCodeInvalidID       RequestErrorCode = "REQ-010002"
	ErrCodePayloadTooLarge RequestErrorCode = "REQ-010003"

	// Throttling errors (02XXXX)
	ErrCodeRateLimited RequestErrorCode = "REQ-020001"

	// Server errors (03XXXX)
	ErrCodeInternal RequestErrorCode = "REQ-030001"
)
