package adapter

import (
	"context"

	"github.com/ondesc/backend/internal/domain/entity"
)

// TextExtractor defines the interface for reading the text layer of an invoice document.
type TextExtractor interface {
	// ExtractText returns the document text, one visual row per line.
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// Statement is the data rendered into a client's monthly statement.
type Statement struct {
	Client      *entity.Client
	Calculation *entity.MonthlyCalculation
}

// StatementRenderer defines the interface for rendering monthly statements.
type StatementRenderer interface {
	// RenderPDF renders the statement as a PDF document.
	RenderPDF(statement Statement) ([]byte, error)

	// RenderXLSX renders the statement as a spreadsheet.
	RenderXLSX(statement Statement) ([]byte, error)
}
