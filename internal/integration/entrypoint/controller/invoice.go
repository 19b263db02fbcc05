package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ondesc/backend/internal/application/usecase/invoice"
	"github.com/ondesc/backend/internal/integration/entrypoint/dto"
)

// InvoiceController handles one-off invoice calculation endpoints.
type InvoiceController struct {
	calculateUseCase *invoice.CalculateInvoiceUseCase
	maxUploadBytes   int64
}

// NewInvoiceController creates a new invoice controller instance.
func NewInvoiceController(calculateUseCase *invoice.CalculateInvoiceUseCase, maxUploadBytes int64) *InvoiceController {
	return &InvoiceController{
		calculateUseCase: calculateUseCase,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Calculate handles POST /invoices/calculate requests.
// The multipart form carries a "file" PDF or a "text" field, and optional
// "tarifa" and "porcentagem" values.
func (c *InvoiceController) Calculate(ctx *gin.Context) {
	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	content, err := readFormFile(ctx, "file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			ctx.JSON(http.StatusRequestEntityTooLarge, dto.CriticalResponse("file", "Arquivo excede o tamanho máximo permitido"))
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.CriticalResponse("file", "Arquivo PDF inválido"))
		return
	}

	text := ctx.PostForm("text")
	if len(content) == 0 && strings.TrimSpace(text) == "" {
		ctx.JSON(http.StatusBadRequest, dto.CriticalResponse("file", "Arquivo PDF não informado"))
		return
	}

	tariff, ok := parseFormNumber(ctx.PostForm("tarifa"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.CriticalResponse("tarifa", "Tarifa inválida"))
		return
	}
	percent, ok := parseFormNumber(ctx.PostForm("porcentagem"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.CriticalResponse("porcentagem", "Porcentagem inválida (permitido 12% a 15%)."))
		return
	}

	output, err := c.calculateUseCase.Execute(ctx.Request.Context(), invoice.CalculateInvoiceInput{
		Content: content,
		Text:    text,
		Tariff:  tariff,
		Percent: percent,
	})
	if err != nil {
		handleCalculationError(ctx, err)
		return
	}

	var data any
	if output.Result != nil {
		data = dto.ToCalculationResponse(output.Result, output.Record, invoice.ModeLabel(output.Mode), output.Cached)
	}

	ctx.JSON(http.StatusOK, dto.NewEnvelopeResponse(output.Issues, data))
}

// readFormFile returns the content of an uploaded form file, or nil when absent.
func readFormFile(ctx *gin.Context, name string) ([]byte, error) {
	header, err := ctx.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return readMultipartFile(header)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// parseFormNumber parses an optional number, accepting a decimal comma.
// An empty value yields nil and ok.
func parseFormNumber(value string) (*float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}

	n, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}
