package extraction

import (
	"fmt"
	"unicode/utf8"

	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/domain/valueobject"
)

const (
	// MinTextLength is the shortest text accepted as an invoice, in characters.
	MinTextLength = 100

	tableStartAnchor = "ENERGIA ELET CONSUMO"
	tableEndAnchor   = "ICMS"

	unitKWh  = "kWh"
	unitEach = "UN"
)

// tablePhase names a step of the table recovery state machine.
type tablePhase int

const (
	phaseAnchorScan tablePhase = iota
	phaseUnitBoundaryScan
	phaseBlockSlice
	phaseRowZip
	phaseDone
)

// tableBlocks holds the column blocks of the flattened table.
// The unit block has one entry per description; quantity, price and value
// blocks have one entry fewer per "UN" unit line.
type tableBlocks struct {
	units      []string
	quantities []string
	prices     []string
	values     []string
}

// tableScanner carries the state shared by the recovery phases.
type tableScanner struct {
	lines        []string
	table        []string
	boundary     int
	descriptions []string
	blocks       tableBlocks
	items        []entity.InvoiceLineItem
}

// ExtractItems reconstructs the invoice line items from text whose table was
// flattened column by column: all descriptions, then all units, then all
// quantities, unit prices and values.
func ExtractItems(text string) ([]entity.InvoiceLineItem, error) {
	if text == "" || utf8.RuneCountInString(text) < MinTextLength {
		return nil, domainerror.NewExtractionError(
			domainerror.ErrCodeMalformedInput,
			"Texto do PDF inválido ou muito curto",
			domainerror.ErrMalformedInput,
		)
	}

	s := &tableScanner{lines: nonEmptyLines(text)}

	phase := phaseAnchorScan
	for phase != phaseDone {
		next, err := s.step(phase)
		if err != nil {
			return nil, err
		}
		phase = next
	}

	return s.items, nil
}

func (s *tableScanner) step(phase tablePhase) (tablePhase, error) {
	switch phase {
	case phaseAnchorScan:
		return phaseUnitBoundaryScan, s.scanAnchors()
	case phaseUnitBoundaryScan:
		return phaseBlockSlice, s.scanUnitBoundary()
	case phaseBlockSlice:
		s.sliceBlocks()
		return phaseRowZip, nil
	case phaseRowZip:
		return phaseDone, s.zipRows()
	default:
		return phaseDone, fmt.Errorf("unknown table phase %d", phase)
	}
}

// scanAnchors bounds the table between the first consumption line and the first tax line.
func (s *tableScanner) scanAnchors() error {
	start := indexOf(s.lines, tableStartAnchor)
	end := indexOf(s.lines, tableEndAnchor)

	if start == -1 || end == -1 || end <= start {
		return domainerror.NewExtractionError(
			domainerror.ErrCodeTableNotFound,
			"Bloco de itens da fatura não encontrado",
			domainerror.ErrTableNotFound,
		)
	}

	s.table = s.lines[start:end]
	return nil
}

// scanUnitBoundary finds where the description block ends and the unit block starts.
func (s *tableScanner) scanUnitBoundary() error {
	s.boundary = -1
	for i, line := range s.table {
		if line == unitKWh || line == unitEach {
			s.boundary = i
			break
		}
	}

	if s.boundary == -1 {
		return domainerror.NewExtractionError(
			domainerror.ErrCodeUnitsNotFound,
			"Unidades da tabela não encontradas",
			domainerror.ErrUnitsNotFound,
		)
	}

	s.descriptions = s.table[:s.boundary]
	if len(s.descriptions) == 0 {
		return domainerror.NewExtractionError(
			domainerror.ErrCodeNoItemsFound,
			"Nenhum item encontrado na fatura",
			domainerror.ErrNoItemsFound,
		)
	}
	return nil
}

func (s *tableScanner) sliceBlocks() {
	n := len(s.descriptions)
	u := 0
	for _, line := range s.table {
		if line == unitEach {
			u++
		}
	}

	b := s.boundary
	s.blocks = tableBlocks{
		units:      clampSlice(s.table, b, b+n),
		quantities: clampSlice(s.table, b+n, b+2*n-u),
		prices:     clampSlice(s.table, b+2*n-u, b+3*n-u),
		values:     clampSlice(s.table, b+3*n-u, b+4*n-u),
	}
}

func (s *tableScanner) zipRows() error {
	s.items = make([]entity.InvoiceLineItem, 0, len(s.descriptions))

	for i, description := range s.descriptions {
		quantity, errQty := valueobject.ParseBRFloat(cellAt(s.blocks.quantities, i, "0"))
		price, errPrice := valueobject.ParseBRFloat(cellAt(s.blocks.prices, i, "0"))
		value, errValue := valueobject.ParseBRFloat(cellAt(s.blocks.values, i, "0"))

		if errQty != nil || errPrice != nil || errValue != nil {
			return domainerror.NewExtractionError(
				domainerror.ErrCodeInvalidItemValue,
				"Valores inválidos no item: "+description,
				domainerror.ErrInvalidItemValue,
			)
		}

		s.items = append(s.items, entity.InvoiceLineItem{
			Description: description,
			Unit:        cellAt(s.blocks.units, i, ""),
			Quantity:    quantity,
			UnitPrice:   price,
			Value:       value,
		})
	}
	return nil
}

func indexOf(lines []string, target string) int {
	for i, line := range lines {
		if line == target {
			return i
		}
	}
	return -1
}

// clampSlice returns lines[from:to] with both bounds clamped to the slice; an
// inverted range yields an empty block.
func clampSlice(lines []string, from, to int) []string {
	from = max(0, min(from, len(lines)))
	to = max(0, min(to, len(lines)))
	if to <= from {
		return nil
	}
	return lines[from:to]
}

func cellAt(block []string, i int, fallback string) string {
	if i < len(block) {
		return block[i]
	}
	return fallback
}
