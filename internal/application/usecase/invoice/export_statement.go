package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/application/usecase/client"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

// Statement formats.
const (
	StatementFormatPDF  = "pdf"
	StatementFormatXLSX = "xlsx"
)

// ExportStatementInput represents the input for exporting a monthly statement.
type ExportStatementInput struct {
	ClientID uuid.UUID
	RefMonth string // YYYY-MM, defaults to the current month
	Format   string
}

// ExportStatementOutput represents a rendered statement document.
type ExportStatementOutput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportStatementUseCase renders the calculated statement of a client's month.
type ExportStatementUseCase struct {
	clientRepo      adapter.ClientRepository
	calculationRepo adapter.CalculationRepository
	renderer        adapter.StatementRenderer
	now             func() time.Time
}

// NewExportStatementUseCase creates a new ExportStatementUseCase instance.
func NewExportStatementUseCase(
	clientRepo adapter.ClientRepository,
	calculationRepo adapter.CalculationRepository,
	renderer adapter.StatementRenderer,
) *ExportStatementUseCase {
	return &ExportStatementUseCase{
		clientRepo:      clientRepo,
		calculationRepo: calculationRepo,
		renderer:        renderer,
		now:             time.Now,
	}
}

// Execute renders the statement in the requested format.
func (uc *ExportStatementUseCase) Execute(ctx context.Context, input ExportStatementInput) (*ExportStatementOutput, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = StatementFormatPDF
	}
	if format != StatementFormatPDF && format != StatementFormatXLSX {
		return nil, domainerror.NewClientError(
			domainerror.ErrCodeUnsupportedFormat,
			"Formato inválido (use pdf ou xlsx)",
			domainerror.ErrUnsupportedStatementFormat,
		)
	}

	c, err := client.FindClient(ctx, uc.clientRepo, input.ClientID)
	if err != nil {
		return nil, err
	}

	refMonth := input.RefMonth
	if refMonth == "" {
		refMonth = entity.RefMonthFor(uc.now())
	}

	calc, err := uc.calculationRepo.FindByClientAndMonth(ctx, c.ID, refMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to find calculation: %w", err)
	}
	if calc == nil || !calc.IsCalculated() {
		return nil, domainerror.NewClientError(
			domainerror.ErrCodeCalculationNotReady,
			"Cálculo do mês ainda não realizado",
			domainerror.ErrCalculationNotReady,
		)
	}

	statement := adapter.Statement{Client: c, Calculation: calc}
	base := fmt.Sprintf("extrato-%s-%s", c.AccountID, refMonth)

	if format == StatementFormatXLSX {
		content, err := uc.renderer.RenderXLSX(statement)
		if err != nil {
			return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
		}
		return &ExportStatementOutput{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	}

	content, err := uc.renderer.RenderPDF(statement)
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return &ExportStatementOutput{
		Filename:    base + ".pdf",
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
