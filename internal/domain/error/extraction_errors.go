// Package error defines domain-specific errors for the invoice recalculation service.
package error

import "errors"

// Extraction domain errors.
var (
	// ErrMalformedInput is returned when the invoice text is empty or too short to be an invoice.
	ErrMalformedInput = errors.New("invoice text is invalid or too short")

	// ErrTableNotFound is returned when the item table anchors are missing or out of order.
	ErrTableNotFound = errors.New("invoice item table not found")

	// ErrUnitsNotFound is returned when the item table has no unit column.
	ErrUnitsNotFound = errors.New("invoice table units not found")

	// ErrNoItemsFound is returned when the item table has no descriptions.
	ErrNoItemsFound = errors.New("no items found in invoice")

	// ErrInvalidItemValue is returned when an item quantity, price or value is not a number.
	ErrInvalidItemValue = errors.New("invalid item value")

	// ErrUnreadableDocument is returned when text cannot be extracted from an uploaded document.
	ErrUnreadableDocument = errors.New("unreadable document")
)

// ExtractionErrorCode defines error codes for extraction errors.
// Format: EXT-XXYYYY where XX is category and YYYY is specific error.
type ExtractionErrorCode string

const (
	// Table recovery errors (01XXXX)
	ErrCodeMalformedInput   ExtractionErrorCode = "EXT-010001"
	ErrCodeTableNotFound    ExtractionErrorCode = "EXT-010002"
	ErrCodeUnitsNotFound    ExtractionErrorCode = "EXT-010003"
	ErrCodeNoItemsFound     ExtractionErrorCode = "EXT-010004"
	ErrCodeInvalidItemValue ExtractionErrorCode = "EXT-010005"

	// Document errors (02XXXX)
	ErrCodeUnreadableDocument ExtractionErrorCode = "EXT-020001"
)

// ExtractionError represents an extraction error with code and message.
type ExtractionError struct {
	Code    ExtractionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError with the given code and message.
func NewExtractionError(code ExtractionErrorCode, message string, err error) *ExtractionError {
	return &ExtractionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
