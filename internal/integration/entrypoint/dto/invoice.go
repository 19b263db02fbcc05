package dto

import (
	"github.com/ondesc/backend/internal/domain/entity"
	"github.com/ondesc/backend/internal/domain/valueobject"
)

// LineItemResponse represents one invoice item in API responses.
type LineItemResponse struct {
	Description string  `json:"descricao"`
	Unit        string  `json:"unidade"`
	Quantity    float64 `json:"quantidade"`
	UnitPrice   float64 `json:"precoUnitario"`
	Value       float64 `json:"valor"`
}

// TaxIDResponse represents the customer tax document.
type TaxIDResponse struct {
	Kind  string `json:"tipo"`
	Value string `json:"valor"`
}

// CustomerResponse represents the customer block of an invoice.
type CustomerResponse struct {
	Name       string        `json:"nome"`
	Address    string        `json:"endereco"`
	PostalCode string        `json:"cep"`
	City       string        `json:"cidade"`
	State      string        `json:"estado"`
	TaxID      TaxIDResponse `json:"documento"`
}

// UserDataResponse represents the account metadata recovered from an invoice.
type UserDataResponse struct {
	AccountID      string           `json:"uc"`
	ReferenceMonth string           `json:"mesReferencia"`
	DueDate        string           `json:"vencimento"`
	DueDateISO     string           `json:"vencimentoIso,omitempty"`
	Customer       CustomerResponse `json:"cliente"`
}

// FormattedResponse carries display-ready values.
type FormattedResponse struct {
	EnergyInjected  string `json:"energiaInjetada"`
	BaselineValue   string `json:"valorSemDesconto"`
	GrossTotal      string `json:"totalFaturaCopel"`
	NewInvoiceValue string `json:"valorNovaFatura"`
	DiscountAmount  string `json:"descontoUsuario"`
	TotalPayable    string `json:"valorTotal"`
	DiscountPercent string `json:"porcentagemDesconto"`
}

// CalculationResponse represents a recalculated invoice.
type CalculationResponse struct {
	Items             []LineItemResponse `json:"itens"`
	EnergyInjectedKwh float64            `json:"energiaInjetadaKwh"`
	BaselineValue     float64            `json:"valorSemDesconto"`
	GrossTotal        float64            `json:"totalFaturaCopel"`
	NewInvoiceValue   float64            `json:"valorNovaFatura"`
	DiscountAmount    float64            `json:"descontoUsuario"`
	Tariff            float64            `json:"taxaEnergia"`
	TotalPayable      float64            `json:"valorTotal"`
	DiscountPercent   float64            `json:"porcentagemDesconto"`
	Mode              string             `json:"modoCalculo"`
	TargetPercent     *float64           `json:"porcentagemAlvo,omitempty"`
	SearchIterations  int                `json:"iteracoes"`
	Cached            bool               `json:"cache"`
	Formatted         FormattedResponse  `json:"formatado"`
	UserData          *UserDataResponse  `json:"dadosUsuario,omitempty"`
	ClientID          string             `json:"clientId,omitempty"`
	CalculationID     string             `json:"monthlyCalculationId,omitempty"`
}

// ToLineItemResponses converts domain items to LineItemResponse DTOs.
func ToLineItemResponses(items []entity.InvoiceLineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = LineItemResponse{
			Description: item.Description,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Value:       item.Value,
		}
	}
	return responses
}

// ToUserDataResponse converts a customer record to a UserDataResponse DTO.
func ToUserDataResponse(record entity.CustomerRecord) *UserDataResponse {
	response := &UserDataResponse{
		AccountID:      record.AccountID,
		ReferenceMonth: record.ReferenceMonth,
		DueDate:        record.DueDate,
		Customer: CustomerResponse{
			Name:       record.Customer.Name,
			Address:    record.Customer.Address,
			PostalCode: record.Customer.PostalCode,
			City:       record.Customer.City,
			State:      record.Customer.State,
			TaxID: TaxIDResponse{
				Kind:  taxIDLabel(record.Customer.TaxID.Kind),
				Value: record.Customer.TaxID.Value,
			},
		},
	}

	if iso, err := valueobject.BRDateToISO(record.DueDate); err == nil {
		response.DueDateISO = iso
	}
	return response
}

// ToCalculationResponse converts a calculation result to a CalculationResponse DTO.
// modeLabel is the API name of the mode that produced the result.
func ToCalculationResponse(result *entity.CalculationResult, record entity.CustomerRecord, modeLabel string, cached bool) CalculationResponse {
	return CalculationResponse{
		Items:             ToLineItemResponses(result.Items),
		EnergyInjectedKwh: result.EnergyInjectedKwh,
		BaselineValue:     result.BaselineValue,
		GrossTotal:        result.GrossInvoiceTotal,
		NewInvoiceValue:   result.NewInvoiceValue,
		DiscountAmount:    result.DiscountAmount,
		Tariff:            result.ResolvedTariff,
		TotalPayable:      result.TotalPayable,
		DiscountPercent:   result.DiscountPercent,
		Mode:              modeLabel,
		TargetPercent:     result.TargetPercent,
		SearchIterations:  result.SearchIterations,
		Cached:            cached,
		Formatted: FormattedResponse{
			EnergyInjected:  valueobject.FormatKWh(result.EnergyInjectedKwh),
			BaselineValue:   valueobject.FormatBRL(result.BaselineValue),
			GrossTotal:      valueobject.FormatBRL(result.GrossInvoiceTotal),
			NewInvoiceValue: valueobject.FormatBRL(result.NewInvoiceValue),
			DiscountAmount:  valueobject.FormatBRL(result.DiscountAmount),
			TotalPayable:    valueobject.FormatBRL(result.TotalPayable),
			DiscountPercent: valueobject.FormatPercent(result.DiscountPercent),
		},
		UserData: ToUserDataResponse(record),
	}
}

func taxIDLabel(kind entity.TaxIDKind) string {
	switch kind {
	case entity.TaxIDKindIndividual:
		return "CPF"
	case entity.TaxIDKindCompany:
		return "CNPJ"
	default:
		return ""
	}
}
