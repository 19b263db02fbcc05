// Package invoice contains invoice processing use cases.
package invoice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/application/usecase/calculation"
	"github.com/ondesc/backend/internal/application/usecase/extraction"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

// FieldCalculation is the issue field for extraction and calculation failures.
const FieldCalculation = "calculo"

// ProcessInvoiceInput represents the input for processing an invoice text.
type ProcessInvoiceInput struct {
	Text string
	Mode calculation.Mode
}

// ProcessInvoiceOutput represents the output of processing an invoice text.
// Result is nil when extraction or calculation failed; the failure is then a critical issue.
type ProcessInvoiceOutput struct {
	Result *entity.CalculationResult
	Record entity.CustomerRecord
	Issues []entity.Issue
	Cached bool
}

// ProcessInvoiceUseCase runs the extraction and calculation pipeline on invoice text.
type ProcessInvoiceUseCase struct {
	cache    adapter.CalculationCache
	metrics  adapter.CalculationMetrics
	cacheTTL time.Duration
}

// NewProcessInvoiceUseCase creates a new ProcessInvoiceUseCase instance.
// cache and metrics may be nil.
func NewProcessInvoiceUseCase(cache adapter.CalculationCache, metrics adapter.CalculationMetrics, cacheTTL time.Duration) *ProcessInvoiceUseCase {
	return &ProcessInvoiceUseCase{
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
	}
}

// Execute normalizes the text, then computes the items and result alongside the
// customer record and its validation issues.
func (uc *ProcessInvoiceUseCase) Execute(ctx context.Context, input ProcessInvoiceInput) (*ProcessInvoiceOutput, error) {
	mode := input.Mode
	if mode == nil {
		mode = calculation.AutoRange{}
	}

	text := extraction.Normalize(input.Text)
	key := CacheKey(text, mode)

	var (
		result  *entity.CalculationResult
		calcErr error
		cached  bool
		record  entity.CustomerRecord
		issues  []entity.ValidationIssue
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if hit := uc.lookup(gctx, key); hit != nil {
			result, cached = hit, true
			return nil
		}

		items, err := extraction.ExtractItems(text)
		if err == nil {
			result, err = calculation.Calculate(items, mode)
		}
		if err != nil {
			calcErr = err
			return nil
		}

		uc.store(gctx, key, result)
		return nil
	})

	g.Go(func() error {
		record = extraction.ExtractCustomer(text)
		issues = extraction.Validate(record)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to process invoice: %w", err)
	}

	output := &ProcessInvoiceOutput{
		Result: result,
		Record: record,
		Cached: cached,
	}

	if calcErr != nil {
		uc.recordFailure(calcErr)
		output.Issues = append(output.Issues, entity.Issue{
			Field:   FieldCalculation,
			Message: IssueMessage(calcErr),
			Level:   entity.IssueLevelCritical,
		})
	} else if uc.metrics != nil && !cached {
		uc.metrics.ObserveCalculation(result.Mode, result.SearchIterations)
	}

	output.Issues = append(output.Issues, WarningIssues(issues)...)

	slog.Debug("Invoice processed",
		"mode", calculation.ModeName(mode),
		"cached", cached,
		"issues", len(output.Issues),
	)

	return output, nil
}

func (uc *ProcessInvoiceUseCase) lookup(ctx context.Context, key string) *entity.CalculationResult {
	if uc.cache == nil {
		return nil
	}
	hit, err := uc.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Calculation cache lookup failed", "error", err)
		return nil
	}
	return hit
}

func (uc *ProcessInvoiceUseCase) store(ctx context.Context, key string, result *entity.CalculationResult) {
	if uc.cache == nil || uc.cacheTTL <= 0 {
		return
	}
	if err := uc.cache.Set(ctx, key, result, uc.cacheTTL); err != nil {
		slog.Warn("Calculation cache store failed", "error", err)
	}
}

func (uc *ProcessInvoiceUseCase) recordFailure(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncExtractionFailure(ErrorCode(err))
}

// CacheKey identifies a calculation by its normalized text and mode.
func CacheKey(normalizedText string, mode calculation.Mode) string {
	h := sha256.New()
	h.Write([]byte(normalizedText))
	h.Write([]byte{0})

	switch m := mode.(type) {
	case calculation.FixedTariff:
		fmt.Fprintf(h, "fixed:%g", m.Tariff)
	case calculation.TargetPercent:
		fmt.Fprintf(h, "target:%g", m.Percent)
	default:
		h.Write([]byte("range"))
	}

	return "calculation:" + hex.EncodeToString(h.Sum(nil))
}

// IssueMessage returns the user-facing message of a domain error.
func IssueMessage(err error) string {
	var extErr *domainerror.ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Message
	}
	var calcErr *domainerror.CalculationError
	if errors.As(err, &calcErr) {
		return calcErr.Message
	}
	var clientErr *domainerror.ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return "Erro ao processar cálculo"
}

// ErrorCode returns the code of a domain error, or "unknown".
func ErrorCode(err error) string {
	var extErr *domainerror.ExtractionError
	if errors.As(err, &extErr) {
		return string(extErr.Code)
	}
	var calcErr *domainerror.CalculationError
	if errors.As(err, &calcErr) {
		return string(calcErr.Code)
	}
	return "unknown"
}

// WarningIssues converts validation issues into warnings.
func WarningIssues(issues []entity.ValidationIssue) []entity.Issue {
	warnings := make([]entity.Issue, 0, len(issues))
	for _, issue := range issues {
		warnings = append(warnings, entity.Issue{
			Field:   issue.Field,
			Message: issue.Message,
			Level:   entity.IssueLevelWarning,
		})
	}
	return warnings
}
