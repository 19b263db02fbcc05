package dto

import (
	"time"

	"github.com/ondesc/backend/internal/application/usecase/client"
	"github.com/ondesc/backend/internal/domain/entity"
)

// CreateClientRequest represents the request body for client creation.
type CreateClientRequest struct {
	Name          string   `json:"nome" binding:"required"`
	AccountID     string   `json:"uc" binding:"required"`
	Phone         string   `json:"telefone,omitempty"`
	Tariff        *float64 `json:"tarifa,omitempty"`
	Percent       *float64 `json:"porcentagem,omitempty"`
	DueDateConfig string   `json:"data_vencimento,omitempty"`
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CalculateClientRequest represents the request body for a client calculation.
type CalculateClientRequest struct {
	Mode    string   `json:"modoCalculo,omitempty" binding:"omitempty,oneof=automatico taxa porcentagem"`
	Tariff  *float64 `json:"tarifa,omitempty"`
	Percent *float64 `json:"porcentagem,omitempty"`
}

// ClientResponse represents a single client in API responses.
type ClientResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"nome"`
	AccountID     string    `json:"uc"`
	Phone         string    `json:"telefone,omitempty"`
	Tariff        *float64  `json:"tarifa,omitempty"`
	Percent       *float64  `json:"porcentagem,omitempty"`
	DueDateConfig string    `json:"data_vencimento,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ClientSummaryResponse is a client with the flags of its current month.
type ClientSummaryResponse struct {
	ClientResponse
	HasAttachment bool `json:"hasAttachment"`
	CanUpload     bool `json:"canUpload"`
	CanCalculate  bool `json:"canCalculate"`
	IsCalculated  bool `json:"isCalculated"`
}

// ClientListResponse represents the response for listing clients.
type ClientListResponse struct {
	RefMonth string                  `json:"ref_month"`
	Clients  []ClientSummaryResponse `json:"clients"`
}

// MonthlyCalculationResponse represents one month of a client.
type MonthlyCalculationResponse struct {
	ID             string               `json:"id"`
	RefMonth       string               `json:"ref_month"`
	Stage          string               `json:"stage"`
	SourceFilename string               `json:"filename,omitempty"`
	ReferenceMonth string               `json:"mesReferencia,omitempty"`
	DueDate        string               `json:"vencimento,omitempty"`
	WarningFields  []string             `json:"warning_fields,omitempty"`
	Result         *CalculationResponse `json:"resultado,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	CalculatedAt   *time.Time           `json:"calculated_at,omitempty"`
}

// ClientDetailResponse represents a client with its calculation history.
type ClientDetailResponse struct {
	ClientResponse
	Calculations []MonthlyCalculationResponse `json:"calculations"`
}

// UploadInvoiceResponse represents the result of an invoice upload.
type UploadInvoiceResponse struct {
	Calculation MonthlyCalculationResponse `json:"calculation"`
	Replaced    bool                       `json:"replaced"`
}

// ToClientResponse converts a domain Client entity to a ClientResponse DTO.
func ToClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		AccountID:     c.AccountID,
		Phone:         c.Phone,
		Tariff:        c.Tariff,
		Percent:       c.Percent,
		DueDateConfig: c.DueDateConfig,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToClientListResponse converts the list output to a ClientListResponse DTO.
func ToClientListResponse(output *client.ListClientsOutput) ClientListResponse {
	clients := make([]ClientSummaryResponse, len(output.Clients))
	for i, s := range output.Clients {
		clients[i] = ClientSummaryResponse{
			ClientResponse: ToClientResponse(s.Client),
			HasAttachment:  s.HasInvoice,
			CanUpload:      s.CanUpload,
			CanCalculate:   s.CanCalculate,
			IsCalculated:   s.IsCalculated,
		}
	}
	return ClientListResponse{
		RefMonth: output.RefMonth,
		Clients:  clients,
	}
}

// ToMonthlyCalculationResponse converts a domain MonthlyCalculation to its DTO.
// modeLabel maps a stored mode to its API name.
func ToMonthlyCalculationResponse(calc *entity.MonthlyCalculation, modeLabel func(entity.CalculationMode) string) MonthlyCalculationResponse {
	response := MonthlyCalculationResponse{
		ID:             calc.ID.String(),
		RefMonth:       calc.RefMonth,
		Stage:          string(calc.Stage),
		SourceFilename: calc.SourceFilename,
		ReferenceMonth: calc.ReferenceMonth,
		DueDate:        calc.DueDate,
		WarningFields:  calc.WarningFields,
		CreatedAt:      calc.CreatedAt,
		UpdatedAt:      calc.UpdatedAt,
		CalculatedAt:   calc.CalculatedAt,
	}

	if calc.Result != nil {
		record := entity.CustomerRecord{
			AccountID:      calc.AccountID,
			ReferenceMonth: calc.ReferenceMonth,
			DueDate:        calc.DueDate,
		}
		result := ToCalculationResponse(calc.Result, record, modeLabel(calc.Result.Mode), false)
		result.UserData = nil
		response.Result = &result
	}
	return response
}

// ToClientDetailResponse converts the get output to a ClientDetailResponse DTO.
func ToClientDetailResponse(output *client.GetClientOutput, modeLabel func(entity.CalculationMode) string) ClientDetailResponse {
	calculations := make([]MonthlyCalculationResponse, len(output.Calculations))
	for i, calc := range output.Calculations {
		calculations[i] = ToMonthlyCalculationResponse(calc, modeLabel)
	}
	return ClientDetailResponse{
		ClientResponse: ToClientResponse(output.Client),
		Calculations:   calculations,
	}
}
