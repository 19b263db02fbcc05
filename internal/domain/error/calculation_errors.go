package error

import "errors"

// Calculation domain errors.
var (
	// ErrInvalidPercent is returned when a target discount percentage is outside the allowed range.
	ErrInvalidPercent = errors.New("discount percentage must be between 12 and 15")

	// ErrInvalidTariff is returned when a fixed tariff is not a positive finite number.
	ErrInvalidTariff = errors.New("tariff must be a positive number")

	// ErrEmptyItemSet is returned when a calculation is requested without items.
	ErrEmptyItemSet = errors.New("invoice items are empty")

	// ErrInvalidCalculationMode is returned when an unknown calculation mode is requested.
	ErrInvalidCalculationMode = errors.New("invalid calculation mode")
)

// CalculationErrorCode defines error codes for calculation errors.
// Format: CALC-XXYYYY where XX is category and YYYY is specific error.
type CalculationErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidPercent         CalculationErrorCode = "CALC-010001"
	ErrCodeInvalidTariff          CalculationErrorCode = "CALC-010002"
	ErrCodeEmptyItemSet           CalculationErrorCode = "CALC-010003"
	ErrCodeInvalidCalculationMode CalculationErrorCode = "CALC-010004"
)

// CalculationError represents a calculation error with code and message.
type CalculationError struct {
	Code    CalculationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CalculationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CalculationError) Unwrap() error {
	return e.Err
}

// NewCalculationError creates a new CalculationError with the given code and message.
func NewCalculationError(code CalculationErrorCode, message string, err error) *CalculationError {
	return &CalculationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
