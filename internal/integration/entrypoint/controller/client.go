package controller

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ondesc/backend/internal/application/usecase/client"
	"github.com/ondesc/backend/internal/application/usecase/invoice"
	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/integration/entrypoint/dto"
)

// ClientController handles client, monthly upload and client calculation endpoints.
type ClientController struct {
	createUseCase    *client.CreateClientUseCase
	listUseCase      *client.ListClientsUseCase
	getUseCase       *client.GetClientUseCase
	statusUseCase    *client.UpdateStatusUseCase
	uploadUseCase    *invoice.UploadInvoiceUseCase
	calculateUseCase *invoice.CalculateClientUseCase
	exportUseCase    *invoice.ExportStatementUseCase
	maxUploadBytes   int64
}

// NewClientController creates a new client controller instance.
func NewClientController(
	createUseCase *client.CreateClientUseCase,
	listUseCase *client.ListClientsUseCase,
	getUseCase *client.GetClientUseCase,
	statusUseCase *client.UpdateStatusUseCase,
	uploadUseCase *invoice.UploadInvoiceUseCase,
	calculateUseCase *invoice.CalculateClientUseCase,
	exportUseCase *invoice.ExportStatementUseCase,
	maxUploadBytes int64,
) *ClientController {
	return &ClientController{
		createUseCase:    createUseCase,
		listUseCase:      listUseCase,
		getUseCase:       getUseCase,
		statusUseCase:    statusUseCase,
		uploadUseCase:    uploadUseCase,
		calculateUseCase: calculateUseCase,
		exportUseCase:    exportUseCase,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Create handles POST /clients requests.
func (c *ClientController) Create(ctx *gin.Context) {
	var req dto.CreateClientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidRequest),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), client.CreateClientInput{
		Name:          req.Name,
		AccountID:     req.AccountID,
		Phone:         req.Phone,
		Tariff:        req.Tariff,
		Percent:       req.Percent,
		DueDateConfig: req.DueDateConfig,
	})
	if err != nil {
		c.handleClientError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToClientResponse(output.Client))
}

// List handles GET /clients requests.
func (c *ClientController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleClientError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToClientListResponse(output))
}

// Get handles GET /clients/:id requests.
func (c *ClientController) Get(ctx *gin.Context) {
	clientID, ok := parseClientID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), client.GetClientInput{ClientID: clientID})
	if err != nil {
		c.handleClientError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToClientDetailResponse(output, invoice.ModeLabel))
}

// UpdateStatus handles PATCH /clients/:id/status requests.
func (c *ClientController) UpdateStatus(ctx *gin.Context) {
	clientID, ok := parseClientID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidRequest),
		})
		return
	}

	output, err := c.statusUseCase.Execute(ctx.Request.Context(), client.UpdateStatusInput{
		ClientID: clientID,
		Status:   req.Status,
	})
	if err != nil {
		c.handleClientError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToClientResponse(output.Client))
}

// UploadInvoice handles POST /clients/:id/invoice requests.
// The multipart form carries a "file" PDF or a "text" field.
func (c *ClientController) UploadInvoice(ctx *gin.Context) {
	clientID, ok := parseClientID(ctx)
	if !ok {
		return
	}

	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	input := invoice.UploadInvoiceInput{ClientID: clientID}

	header, err := ctx.FormFile("file")
	switch {
	case err == nil:
		input.Filename = header.Filename
		input.Content, err = readMultipartFile(header)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Failed to read uploaded file",
				Code:  string(domainerror.ErrCodeInvalidRequest),
			})
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
				Error: "Uploaded file is too large",
				Code:  string(domainerror.ErrCodePayloadTooLarge),
			})
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid multipart form: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidRequest),
		})
		return
	}

	input.Text = ctx.PostForm("text")

	output, err := c.uploadUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleClientError(ctx, err)
		return
	}

	status := http.StatusCreated
	if output.Replaced {
		status = http.StatusOK
	}
	ctx.JSON(status, dto.UploadInvoiceResponse{
		Calculation: dto.ToMonthlyCalculationResponse(output.Calculation, invoice.ModeLabel),
		Replaced:    output.Replaced,
	})
}

// Calculate handles POST /clients/:id/calculation requests.
func (c *ClientController) Calculate(ctx *gin.Context) {
	clientID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.CriticalResponse("clientId", "clientId é obrigatório."))
		return
	}

	var req dto.CalculateClientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, dto.CriticalResponse("modoCalculo", "Requisição inválida: "+err.Error()))
		return
	}

	output, err := c.calculateUseCase.Execute(ctx.Request.Context(), invoice.CalculateClientInput{
		ClientID:      clientID,
		RequestedMode: req.Mode,
		Tariff:        req.Tariff,
		Percent:       req.Percent,
	})
	if err != nil {
		handleCalculationError(ctx, err)
		return
	}

	var data any
	if output.Result != nil {
		response := dto.ToCalculationResponse(output.Result, output.Record, invoice.ModeLabel(output.Mode), false)
		response.ClientID = output.Client.ID.String()
		response.CalculationID = output.Calculation.ID.String()
		data = response
	}

	ctx.JSON(http.StatusOK, dto.NewEnvelopeResponse(output.Issues, data))
}

// ExportStatement handles GET /clients/:id/calculation/statement requests.
func (c *ClientController) ExportStatement(ctx *gin.Context) {
	clientID, ok := parseClientID(ctx)
	if !ok {
		return
	}

	output, err := c.exportUseCase.Execute(ctx.Request.Context(), invoice.ExportStatementInput{
		ClientID: clientID,
		RefMonth: strings.TrimSpace(ctx.Query("month")),
		Format:   ctx.Query("format"),
	})
	if err != nil {
		c.handleClientError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.Filename+`"`)
	ctx.Data(http.StatusOK, output.ContentType, output.Content)
}

// handleClientError handles client errors and returns appropriate HTTP responses.
func (c *ClientController) handleClientError(ctx *gin.Context, err error) {
	var clientErr *domainerror.ClientError
	if errors.As(err, &clientErr) {
		ctx.JSON(getStatusCodeForClientError(clientErr.Code), dto.ErrorResponse{
			Error: clientErr.Message,
			Code:  string(clientErr.Code),
		})
		return
	}

	var extErr *domainerror.ExtractionError
	if errors.As(err, &extErr) {
		ctx.JSON(getStatusCodeForExtractionError(extErr.Code), dto.ErrorResponse{
			Error: extErr.Message,
			Code:  string(extErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeInternal),
	})
}

func parseClientID(ctx *gin.Context) (uuid.UUID, bool) {
	clientID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid client ID format",
			Code:  string(domainerror.ErrCodeInvalidID),
		})
		return uuid.Nil, false
	}
	return clientID, true
}
