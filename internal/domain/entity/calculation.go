package entity

import (
	"time"

	"github.com/google/uuid"
)

// CalculationMode identifies how the replacement tariff was resolved.
type CalculationMode string

const (
	CalculationModeFixed  CalculationMode = "fixed"
	CalculationModeRange  CalculationMode = "range"
	CalculationModeTarget CalculationMode = "target"
)

// CalculationResult is the outcome of recomputing one invoice.
type CalculationResult struct {
	Items             []InvoiceLineItem
	EnergyInjectedKwh float64
	BaselineValue     float64 // sum of positive items, before discount
	GrossInvoiceTotal float64 // sum of all items as billed by the utility
	NewInvoiceValue   float64 // injected kWh priced at the resolved tariff
	DiscountAmount    float64
	TotalPayable      float64
	DiscountPercent   float64
	Mode              CalculationMode
	ResolvedTariff    float64
	TargetPercent     *float64 // set only in target mode
	SearchIterations  int
}

// CalculationStage tracks a monthly calculation through its lifecycle.
type CalculationStage string

const (
	CalculationStageUploaded   CalculationStage = "COPEL_UPLOADED"
	CalculationStageCalculated CalculationStage = "CALCULATED"
)

// MonthlyCalculation is the persisted calculation of one client for one reference month.
type MonthlyCalculation struct {
	ID             uuid.UUID
	ClientID       uuid.UUID
	RefMonth       string // YYYY-MM
	Stage          CalculationStage
	InvoiceText    string
	SourceFilename string

	AccountID      string
	ReferenceMonth string // MM/YYYY as printed on the invoice
	DueDate        string // DD/MM/YYYY after client due-date rules
	Result         *CalculationResult
	WarningFields  []string

	CreatedAt    time.Time
	UpdatedAt    time.Time
	CalculatedAt *time.Time
}

// NewMonthlyCalculation creates a calculation in the uploaded stage.
func NewMonthlyCalculation(clientID uuid.UUID, refMonth, invoiceText, filename string) *MonthlyCalculation {
	now := time.Now().UTC()

	return &MonthlyCalculation{
		ID:             uuid.New(),
		ClientID:       clientID,
		RefMonth:       refMonth,
		Stage:          CalculationStageUploaded,
		InvoiceText:    invoiceText,
		SourceFilename: filename,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MarkCalculated stores the outcome and moves the calculation to the calculated stage.
func (m *MonthlyCalculation) MarkCalculated(record CustomerRecord, result *CalculationResult, warningFields []string) {
	now := time.Now().UTC()
	m.Stage = CalculationStageCalculated
	m.AccountID = record.AccountID
	m.ReferenceMonth = record.ReferenceMonth
	m.DueDate = record.DueDate
	m.Result = result
	m.WarningFields = warningFields
	m.CalculatedAt = &now
	m.UpdatedAt = now
}

// IsCalculated reports whether a result is available.
func (m *MonthlyCalculation) IsCalculated() bool {
	return m.Stage == CalculationStageCalculated && m.Result != nil
}

// RefMonthFor returns the YYYY-MM reference month key for t.
func RefMonthFor(t time.Time) string {
	return t.Format("2006-01")
}
