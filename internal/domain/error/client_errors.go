package error

import "errors"

// Client domain errors.
var (
	// ErrClientNotFound is returned when a client is not found.
	ErrClientNotFound = errors.New("client not found")

	// ErrClientAccountExists is returned when another client already uses the account id.
	ErrClientAccountExists = errors.New("client with this account id already exists")

	// ErrInvalidClientName is returned when the client name is empty.
	ErrInvalidClientName = errors.New("client name is required")

	// ErrInvalidClientAccount is returned when the client account id is not 8 to 15 digits.
	ErrInvalidClientAccount = errors.New("client account id must have 8 to 15 digits")

	// ErrInvalidDueDateConfig is returned when a client due-date configuration cannot be resolved.
	ErrInvalidDueDateConfig = errors.New("invalid due date configuration")

	// ErrInvoiceNotUploaded is returned when no invoice was uploaded for the reference month.
	ErrInvoiceNotUploaded = errors.New("invoice not uploaded for reference month")

	// ErrCalculationNotReady is returned when a statement is requested before calculation.
	ErrCalculationNotReady = errors.New("calculation not performed for reference month")

	// ErrUnsupportedStatementFormat is returned when a statement format is unknown.
	ErrUnsupportedStatementFormat = errors.New("unsupported statement format")

	// ErrUploadBlocked is returned when a client that is not pending receives a new invoice.
	ErrUploadBlocked = errors.New("invoice upload blocked for client status")
)

// ClientErrorCode defines error codes for client errors.
// Format: CLI-XXYYYY where XX is category and YYYY is specific error.
type ClientErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidClientName    ClientErrorCode = "CLI-010001"
	ErrCodeInvalidClientAccount ClientErrorCode = "CLI-010002"
	ErrCodeInvalidDueDateConfig ClientErrorCode = "CLI-010003"
	ErrCodeInvalidClientTariff  ClientErrorCode = "CLI-010004"
	ErrCodeInvalidClientPercent ClientErrorCode = "CLI-010005"
	ErrCodeUnsupportedFormat    ClientErrorCode = "CLI-010006"

	// Lookup errors (02XXXX)
	ErrCodeClientNotFound      ClientErrorCode = "CLI-020001"
	ErrCodeInvoiceNotUploaded  ClientErrorCode = "CLI-020002"
	ErrCodeCalculationNotReady ClientErrorCode = "CLI-020003"

	// Conflict errors (03XXXX)
	ErrCodeClientAccountExists ClientErrorCode = "CLI-030001"
	ErrCodeUploadBlocked       ClientErrorCode = "CLI-030002"
)

// ClientError represents a client error with code and message.
type ClientError struct {
	Code    ClientErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError creates a new ClientError with the given code and message.
func NewClientError(code ClientErrorCode, message string, err error) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
