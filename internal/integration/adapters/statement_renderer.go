package adapters

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/domain/entity"
	"github.com/ondesc/backend/internal/domain/valueobject"
)

const (
	summarySheet = "resumo"
	itemsSheet   = "itens"
)

// statementRenderer implements the adapter.StatementRenderer interface.
type statementRenderer struct{}

// NewStatementRenderer creates a new statement renderer instance.
func NewStatementRenderer() adapter.StatementRenderer {
	return &statementRenderer{}
}

type summaryLine struct {
	label string
	value string
}

func summaryLines(statement adapter.Statement) ([]summaryLine, error) {
	calc := statement.Calculation
	if calc == nil || calc.Result == nil {
		return nil, fmt.Errorf("statement has no calculation result")
	}
	r := calc.Result

	lines := []summaryLine{
		{"Cliente", statement.Client.Name},
		{"UC", statement.Client.AccountID},
		{"Mês de referência", calc.ReferenceMonth},
		{"Vencimento", calc.DueDate},
		{"Energia injetada", valueobject.FormatKWh(r.EnergyInjectedKwh)},
		{"Tarifa aplicada", fmt.Sprintf("R$ %.4f/kWh", r.ResolvedTariff)},
		{"Fatura COPEL", valueobject.FormatBRL(r.GrossInvoiceTotal)},
		{"Base sem compensação", valueobject.FormatBRL(r.BaselineValue)},
		{"Valor da energia compensada", valueobject.FormatBRL(r.NewInvoiceValue)},
		{"Desconto", valueobject.FormatBRL(r.DiscountAmount)},
		{"Desconto (%)", valueobject.FormatPercent(r.DiscountPercent)},
		{"Total a pagar", valueobject.FormatBRL(r.TotalPayable)},
	}
	return lines, nil
}

// RenderPDF renders the statement as a single-page A4 document.
func (s *statementRenderer) RenderPDF(statement adapter.Statement) ([]byte, error) {
	lines, err := summaryLines(statement)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr("Extrato de compensação solar"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		pdf.CellFormat(70, 6, tr(line.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(line.value), "", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(80, 6, tr("Descrição"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(15, 6, "Un", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Quantidade", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, tr("Preço unit."), "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Valor", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, item := range statement.Calculation.Result.Items {
		pdf.CellFormat(80, 6, tr(item.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, item.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.6f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, tr(valueobject.FormatBRL(item.Value)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderXLSX renders the statement as a workbook with summary and items sheets.
func (s *statementRenderer) RenderXLSX(statement adapter.Statement) ([]byte, error) {
	lines, err := summaryLines(statement)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Extrato de compensação solar")
	for i, line := range lines {
		row := i + 3
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), line.label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), line.value)
	}

	headers := []string{"Descrição", "Unidade", "Quantidade", "Preço unitário", "Valor"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(itemsSheet, cell, h)
	}
	for i, item := range statement.Calculation.Result.Items {
		writeItemRow(f, i+2, item)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func writeItemRow(f *excelize.File, row int, item entity.InvoiceLineItem) {
	_ = f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", row), item.Description)
	_ = f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", row), item.Unit)
	_ = f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", row), item.Quantity)
	_ = f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", row), item.UnitPrice)
	_ = f.SetCellValue(itemsSheet, fmt.Sprintf("E%d", row), item.Value)
}
