package invoice

import (
	"context"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/application/usecase/calculation"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

// CalculateInvoiceInput represents a one-off invoice calculation request.
// Either Content (a PDF document) or Text must be set.
type CalculateInvoiceInput struct {
	Content []byte
	Text    string
	Tariff  *float64
	Percent *float64
}

// CalculateInvoiceOutput represents the output of a one-off invoice calculation.
type CalculateInvoiceOutput struct {
	*ProcessInvoiceOutput
	Mode entity.CalculationMode
}

// CalculateInvoiceUseCase recalculates an invoice that is not tied to a client.
type CalculateInvoiceUseCase struct {
	extractor adapter.TextExtractor
	processor *ProcessInvoiceUseCase
}

// NewCalculateInvoiceUseCase creates a new CalculateInvoiceUseCase instance.
func NewCalculateInvoiceUseCase(extractor adapter.TextExtractor, processor *ProcessInvoiceUseCase) *CalculateInvoiceUseCase {
	return &CalculateInvoiceUseCase{
		extractor: extractor,
		processor: processor,
	}
}

// Execute validates the requested tariff and percentage, reads the invoice text
// and runs the pipeline. A tariff takes precedence over a percentage.
func (uc *CalculateInvoiceUseCase) Execute(ctx context.Context, input CalculateInvoiceInput) (*CalculateInvoiceOutput, error) {
	if input.Tariff != nil && !calculation.ValidTariff(*input.Tariff) {
		return nil, domainerror.NewCalculationError(
			domainerror.ErrCodeInvalidTariff,
			"Tarifa inválida",
			domainerror.ErrInvalidTariff,
		)
	}
	if input.Tariff == nil && input.Percent != nil && !calculation.ValidPercent(*input.Percent) {
		return nil, domainerror.NewCalculationError(
			domainerror.ErrCodeInvalidPercent,
			"Porcentagem inválida (permitido 12% a 15%).",
			domainerror.ErrInvalidPercent,
		)
	}

	text, err := readInvoiceText(ctx, uc.extractor, input.Content, input.Text)
	if err != nil {
		return nil, err
	}
	if err := checkTextLength(text); err != nil {
		return nil, err
	}

	mode, err := calculation.SelectMode(input.Tariff, input.Percent)
	if err != nil {
		return nil, err
	}

	processed, err := uc.processor.Execute(ctx, ProcessInvoiceInput{Text: text, Mode: mode})
	if err != nil {
		return nil, err
	}

	return &CalculateInvoiceOutput{
		ProcessInvoiceOutput: processed,
		Mode:                 calculation.ModeName(mode),
	}, nil
}
