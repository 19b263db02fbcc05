// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ondesc/backend/internal/application/adapter"
)

// pdfTextExtractor implements the adapter.TextExtractor interface.
type pdfTextExtractor struct{}

// NewPDFTextExtractor creates a new PDF text extractor instance.
func NewPDFTextExtractor() adapter.TextExtractor {
	return &pdfTextExtractor{}
}

// ExtractText reads every page of the document in content stream order and starts a
// new line whenever the baseline moves.
// The pdf package panics on some malformed documents; those panics are returned as errors.
func (e *pdfTextExtractor) ExtractText(ctx context.Context, content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		writeLines(&sb, page.Content().Text)
	}

	return sb.String(), nil
}

// writeLines writes the glyphs of one page, breaking the line on every change of Y.
func writeLines(sb *strings.Builder, glyphs []pdf.Text) {
	if len(glyphs) == 0 {
		return
	}

	lastY := glyphs[0].Y
	for _, g := range glyphs {
		if g.Y != lastY {
			sb.WriteString("\n")
			lastY = g.Y
		}
		sb.WriteString(g.S)
	}
	sb.WriteString("\n")
}
