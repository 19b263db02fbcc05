package invoice

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/application/usecase/extraction"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

// readInvoiceText returns the document text when content is set, otherwise the given text.
func readInvoiceText(ctx context.Context, extractor adapter.TextExtractor, content []byte, text string) (string, error) {
	if len(content) == 0 {
		text = strings.TrimSpace(text)
		if text == "" {
			return "", domainerror.NewExtractionError(
				domainerror.ErrCodeMalformedInput,
				"Arquivo PDF ou texto da fatura não informado",
				domainerror.ErrMalformedInput,
			)
		}
		return text, nil
	}

	extracted, err := extractor.ExtractText(ctx, content)
	if err != nil {
		return "", domainerror.NewExtractionError(
			domainerror.ErrCodeUnreadableDocument,
			"Não foi possível ler o PDF",
			fmt.Errorf("%w: %w", domainerror.ErrUnreadableDocument, err),
		)
	}
	return strings.TrimSpace(extracted), nil
}

// checkTextLength rejects texts too short to hold an invoice.
func checkTextLength(text string) error {
	if utf8.RuneCountInString(text) < extraction.MinTextLength {
		return domainerror.NewExtractionError(
			domainerror.ErrCodeMalformedInput,
			"Texto extraído do PDF é inválido",
			domainerror.ErrMalformedInput,
		)
	}
	return nil
}
