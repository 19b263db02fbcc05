package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/integration/entrypoint/dto"
)

// handleCalculationError writes a domain error as a critical envelope response.
func handleCalculationError(ctx *gin.Context, err error) {
	status, field, message := issueForError(err)
	if status == http.StatusInternalServerError {
		slog.Error("Calculation request failed", "error", err, "path", ctx.FullPath())
	}
	ctx.JSON(status, dto.CriticalResponse(field, message))
}

// issueForError maps a domain error to its HTTP status, issue field and message.
func issueForError(err error) (int, string, string) {
	var extErr *domainerror.ExtractionError
	if errors.As(err, &extErr) {
		return getStatusCodeForExtractionError(extErr.Code), "pdf", extErr.Message
	}

	var calcErr *domainerror.CalculationError
	if errors.As(err, &calcErr) {
		switch calcErr.Code {
		case domainerror.ErrCodeInvalidTariff:
			return http.StatusBadRequest, "tarifa", calcErr.Message
		case domainerror.ErrCodeInvalidPercent:
			return http.StatusBadRequest, "porcentagem", calcErr.Message
		default:
			return http.StatusUnprocessableEntity, "calculo", calcErr.Message
		}
	}

	var clientErr *domainerror.ClientError
	if errors.As(err, &clientErr) {
		return getStatusCodeForClientError(clientErr.Code), fieldForClientError(clientErr.Code), clientErr.Message
	}

	return http.StatusInternalServerError, "internal", "Erro interno ao processar o cálculo."
}

// getStatusCodeForExtractionError maps extraction error codes to HTTP status codes.
func getStatusCodeForExtractionError(code domainerror.ExtractionErrorCode) int {
	switch code {
	case domainerror.ErrCodeMalformedInput,
		domainerror.ErrCodeUnreadableDocument,
		domainerror.ErrCodeTableNotFound,
		domainerror.ErrCodeUnitsNotFound,
		domainerror.ErrCodeNoItemsFound,
		domainerror.ErrCodeInvalidItemValue:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForClientError maps client error codes to HTTP status codes.
func getStatusCodeForClientError(code domainerror.ClientErrorCode) int {
	switch code {
	case domainerror.ErrCodeClientNotFound, domainerror.ErrCodeInvoiceNotUploaded:
		return http.StatusNotFound
	case domainerror.ErrCodeClientAccountExists,
		domainerror.ErrCodeUploadBlocked,
		domainerror.ErrCodeCalculationNotReady:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidClientName,
		domainerror.ErrCodeInvalidClientAccount,
		domainerror.ErrCodeInvalidDueDateConfig,
		domainerror.ErrCodeInvalidClientTariff,
		domainerror.ErrCodeInvalidClientPercent,
		domainerror.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fieldForClientError(code domainerror.ClientErrorCode) string {
	switch code {
	case domainerror.ErrCodeClientNotFound:
		return "clientId"
	case domainerror.ErrCodeInvoiceNotUploaded:
		return "attachment"
	case domainerror.ErrCodeInvalidDueDateConfig:
		return "data_vencimento"
	case domainerror.ErrCodeInvalidClientTariff:
		return "tarifa"
	case domainerror.ErrCodeInvalidClientPercent:
		return "porcentagem"
	case domainerror.ErrCodeUploadBlocked:
		return "status"
	default:
		return "cliente"
	}
}
