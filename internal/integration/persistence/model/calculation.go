package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ondesc/backend/internal/domain/entity"
)

// LineItemJSON represents one invoice item in the items JSONB column.
type LineItemJSON struct {
	Description string  `json:"descricao"`
	Unit        string  `json:"unidade"`
	Quantity    float64 `json:"quantidade"`
	UnitPrice   float64 `json:"precoUnitario"`
	Value       float64 `json:"valor"`
}

// LineItemsJSON represents the items JSONB column.
type LineItemsJSON []LineItemJSON

// Value implements the driver.Valuer interface.
func (l LineItemsJSON) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface.
func (l *LineItemsJSON) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("type assertion to []byte failed")
	}
}

// MonthlyCalculationModel represents the monthly_calculations table in the database.
type MonthlyCalculationModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_calculation_client_month"`
	RefMonth       string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_calculation_client_month"`
	Stage          string    `gorm:"type:varchar(20);not null;default:'COPEL_UPLOADED';index"`
	InvoiceText    string    `gorm:"type:text;not null"`
	SourceFilename string    `gorm:"type:varchar(255)"`

	AccountID      string `gorm:"type:varchar(15)"`
	ReferenceMonth string `gorm:"type:varchar(7)"`
	DueDate        string `gorm:"type:varchar(10)"`

	Items             LineItemsJSON  `gorm:"type:jsonb"`
	EnergyInjectedKwh *float64       `gorm:"type:decimal(12,2)"`
	BaselineValue     *float64       `gorm:"type:decimal(15,2)"`
	GrossInvoiceTotal *float64       `gorm:"type:decimal(15,2)"`
	NewInvoiceValue   *float64       `gorm:"type:decimal(15,2)"`
	DiscountAmount    *float64       `gorm:"type:decimal(15,2)"`
	TotalPayable      *float64       `gorm:"type:decimal(15,2)"`
	DiscountPercent   *float64       `gorm:"type:decimal(8,4)"`
	Mode              *string        `gorm:"type:varchar(10)"`
	ResolvedTariff    *float64       `gorm:"type:decimal(10,4)"`
	TargetPercent     *float64       `gorm:"type:decimal(5,2)"`
	SearchIterations  int            `gorm:"not null;default:0"`
	WarningFields     pq.StringArray `gorm:"type:text"`

	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
	CalculatedAt *time.Time `gorm:"type:timestamp"`

	Client *ClientModel `gorm:"foreignKey:ClientID;references:ID"`
}

// TableName returns the table name for the MonthlyCalculationModel.
func (MonthlyCalculationModel) TableName() string {
	return "monthly_calculations"
}

// ToEntity converts a MonthlyCalculationModel to a domain MonthlyCalculation entity.
func (m *MonthlyCalculationModel) ToEntity() *entity.MonthlyCalculation {
	calc := &entity.MonthlyCalculation{
		ID:             m.ID,
		ClientID:       m.ClientID,
		RefMonth:       m.RefMonth,
		Stage:          entity.CalculationStage(m.Stage),
		InvoiceText:    m.InvoiceText,
		SourceFilename: m.SourceFilename,
		AccountID:      m.AccountID,
		ReferenceMonth: m.ReferenceMonth,
		DueDate:        m.DueDate,
		WarningFields:  []string(m.WarningFields),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		CalculatedAt:   m.CalculatedAt,
	}

	if m.Mode == nil {
		return calc
	}

	items := make([]entity.InvoiceLineItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = entity.InvoiceLineItem{
			Description: item.Description,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Value:       item.Value,
		}
	}

	calc.Result = &entity.CalculationResult{
		Items:             items,
		EnergyInjectedKwh: deref(m.EnergyInjectedKwh),
		BaselineValue:     deref(m.BaselineValue),
		GrossInvoiceTotal: deref(m.GrossInvoiceTotal),
		NewInvoiceValue:   deref(m.NewInvoiceValue),
		DiscountAmount:    deref(m.DiscountAmount),
		TotalPayable:      deref(m.TotalPayable),
		DiscountPercent:   deref(m.DiscountPercent),
		Mode:              entity.CalculationMode(*m.Mode),
		ResolvedTariff:    deref(m.ResolvedTariff),
		TargetPercent:     m.TargetPercent,
		SearchIterations:  m.SearchIterations,
	}
	return calc
}

// MonthlyCalculationFromEntity creates a MonthlyCalculationModel from a domain MonthlyCalculation entity.
func MonthlyCalculationFromEntity(calc *entity.MonthlyCalculation) *MonthlyCalculationModel {
	m := &MonthlyCalculationModel{
		ID:             calc.ID,
		ClientID:       calc.ClientID,
		RefMonth:       calc.RefMonth,
		Stage:          string(calc.Stage),
		InvoiceText:    calc.InvoiceText,
		SourceFilename: calc.SourceFilename,
		AccountID:      calc.AccountID,
		ReferenceMonth: calc.ReferenceMonth,
		DueDate:        calc.DueDate,
		WarningFields:  pq.StringArray(calc.WarningFields),
		CreatedAt:      calc.CreatedAt,
		UpdatedAt:      calc.UpdatedAt,
		CalculatedAt:   calc.CalculatedAt,
	}

	r := calc.Result
	if r == nil {
		return m
	}

	m.Items = make(LineItemsJSON, len(r.Items))
	for i, item := range r.Items {
		m.Items[i] = LineItemJSON{
			Description: item.Description,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Value:       item.Value,
		}
	}

	mode := string(r.Mode)
	m.EnergyInjectedKwh = &r.EnergyInjectedKwh
	m.BaselineValue = &r.BaselineValue
	m.GrossInvoiceTotal = &r.GrossInvoiceTotal
	m.NewInvoiceValue = &r.NewInvoiceValue
	m.DiscountAmount = &r.DiscountAmount
	m.TotalPayable = &r.TotalPayable
	m.DiscountPercent = &r.DiscountPercent
	m.Mode = &mode
	m.ResolvedTariff = &r.ResolvedTariff
	m.TargetPercent = r.TargetPercent
	m.SearchIterations = r.SearchIterations
	return m
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
