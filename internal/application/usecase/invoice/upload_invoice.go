package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/application/usecase/client"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

// UploadInvoiceInput represents the input for storing a client's monthly invoice.
// Either Content (a PDF document) or Text must be set.
type UploadInvoiceInput struct {
	ClientID uuid.UUID
	Filename string
	Content  []byte
	Text     string
}

// UploadInvoiceOutput represents the output of storing a client's monthly invoice.
type UploadInvoiceOutput struct {
	Calculation *entity.MonthlyCalculation
	Replaced    bool
}

// UploadInvoiceUseCase stores invoice text for the client's current month.
type UploadInvoiceUseCase struct {
	clientRepo      adapter.ClientRepository
	calculationRepo adapter.CalculationRepository
	extractor       adapter.TextExtractor
	now             func() time.Time
}

// NewUploadInvoiceUseCase creates a new UploadInvoiceUseCase instance.
func NewUploadInvoiceUseCase(
	clientRepo adapter.ClientRepository,
	calculationRepo adapter.CalculationRepository,
	extractor adapter.TextExtractor,
) *UploadInvoiceUseCase {
	return &UploadInvoiceUseCase{
		clientRepo:      clientRepo,
		calculationRepo: calculationRepo,
		extractor:       extractor,
		now:             time.Now,
	}
}

// Execute stores the invoice. A second upload in the same month replaces the
// text and resets the calculation to the uploaded stage.
func (uc *UploadInvoiceUseCase) Execute(ctx context.Context, input UploadInvoiceInput) (*UploadInvoiceOutput, error) {
	c, err := client.FindClient(ctx, uc.clientRepo, input.ClientID)
	if err != nil {
		return nil, err
	}

	if c.Status != entity.ClientStatusPending {
		return nil, domainerror.NewClientError(
			domainerror.ErrCodeUploadBlocked,
			fmt.Sprintf("Upload bloqueado para cliente com status %s. Aguarde o ciclo da próxima leitura.", c.Status),
			domainerror.ErrUploadBlocked,
		)
	}

	text, err := readInvoiceText(ctx, uc.extractor, input.Content, input.Text)
	if err != nil {
		return nil, err
	}

	refMonth := entity.RefMonthFor(uc.now())

	existing, err := uc.calculationRepo.FindByClientAndMonth(ctx, c.ID, refMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to find calculation: %w", err)
	}

	if existing != nil {
		existing.InvoiceText = text
		existing.SourceFilename = input.Filename
		existing.Stage = entity.CalculationStageUploaded
		existing.Result = nil
		existing.CalculatedAt = nil
		existing.UpdatedAt = uc.now().UTC()

		if err := uc.calculationRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update calculation: %w", err)
		}

		slog.Info("Invoice replaced", "client_id", c.ID, "ref_month", refMonth)
		return &UploadInvoiceOutput{Calculation: existing, Replaced: true}, nil
	}

	calc := entity.NewMonthlyCalculation(c.ID, refMonth, text, input.Filename)
	if err := uc.calculationRepo.Create(ctx, calc); err != nil {
		return nil, fmt.Errorf("failed to create calculation: %w", err)
	}

	slog.Info("Invoice uploaded", "client_id", c.ID, "ref_month", refMonth)
	return &UploadInvoiceOutput{Calculation: calc}, nil
}
