package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/application/usecase/calculation"
	"github.com/ondesc/backend/internal/application/usecase/client"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/domain/valueobject"
)

// CalculateClientInput represents the input for calculating a client's current month.
type CalculateClientInput struct {
	ClientID      uuid.UUID
	RequestedMode string
	Tariff        *float64
	Percent       *float64
}

// CalculateClientOutput represents the output of a client calculation.
type CalculateClientOutput struct {
	Client      *entity.Client
	Calculation *entity.MonthlyCalculation
	Result      *entity.CalculationResult
	Record      entity.CustomerRecord
	Issues      []entity.Issue
	Mode        entity.CalculationMode
}

// CalculateClientUseCase recalculates the invoice uploaded for a client's current month.
type CalculateClientUseCase struct {
	clientRepo      adapter.ClientRepository
	calculationRepo adapter.CalculationRepository
	processor       *ProcessInvoiceUseCase
	now             func() time.Time
}

// NewCalculateClientUseCase creates a new CalculateClientUseCase instance.
func NewCalculateClientUseCase(
	clientRepo adapter.ClientRepository,
	calculationRepo adapter.CalculationRepository,
	processor *ProcessInvoiceUseCase,
) *CalculateClientUseCase {
	return &CalculateClientUseCase{
		clientRepo:      clientRepo,
		calculationRepo: calculationRepo,
		processor:       processor,
		now:             time.Now,
	}
}

// Execute runs the pipeline on the stored invoice, applies the client's due-date
// rule and persists the result when the calculation succeeded.
func (uc *CalculateClientUseCase) Execute(ctx context.Context, input CalculateClientInput) (*CalculateClientOutput, error) {
	c, err := client.FindClient(ctx, uc.clientRepo, input.ClientID)
	if err != nil {
		return nil, err
	}

	refMonth := entity.RefMonthFor(uc.now())
	logger := slog.With("client_id", c.ID, "ref_month", refMonth)

	calc, err := uc.calculationRepo.FindByClientAndMonth(ctx, c.ID, refMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to find calculation: %w", err)
	}
	if calc == nil {
		return nil, domainerror.NewClientError(
			domainerror.ErrCodeInvoiceNotUploaded,
			"Cliente sem PDF anexado",
			domainerror.ErrInvoiceNotUploaded,
		)
	}

	if err := checkTextLength(calc.InvoiceText); err != nil {
		return nil, err
	}

	mode, err := ResolveClientMode(input.RequestedMode, input.Tariff, input.Percent, c)
	if err != nil {
		return nil, err
	}

	processed, err := uc.processor.Execute(ctx, ProcessInvoiceInput{Text: calc.InvoiceText, Mode: mode})
	if err != nil {
		return nil, err
	}

	record := processed.Record
	record.DueDate, err = valueobject.ResolveDueDate(c.DueDateConfig, record.DueDate)
	if err != nil {
		return nil, err
	}

	output := &CalculateClientOutput{
		Client:      c,
		Calculation: calc,
		Result:      processed.Result,
		Record:      record,
		Issues:      processed.Issues,
		Mode:        calculation.ModeName(mode),
	}

	if processed.Result == nil {
		logger.Warn("Client calculation failed", "issues", len(processed.Issues))
		return output, nil
	}

	_, warnings := entity.SplitIssues(processed.Issues)
	warningFields := make([]string, 0, len(warnings))
	for _, w := range warnings {
		warningFields = append(warningFields, w.Field)
	}

	calc.MarkCalculated(record, processed.Result, warningFields)
	if err := uc.calculationRepo.Update(ctx, calc); err != nil {
		return nil, fmt.Errorf("failed to update calculation: %w", err)
	}

	logger.Info("Client calculation completed",
		"mode", processed.Result.Mode,
		"tariff", processed.Result.ResolvedTariff,
		"discount_percent", processed.Result.DiscountPercent,
	)

	return output, nil
}
