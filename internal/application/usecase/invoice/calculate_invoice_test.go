package invoice

import (
	"context"
	"errors"
	"testing"

	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

func TestCalculateInvoice(t *testing.T) {
	processor := NewProcessInvoiceUseCase(nil, nil, 0)

	t.Run("text with tariff", func(t *testing.T) {
		uc := NewCalculateInvoiceUseCase(fakeExtractor{}, processor)

		output, err := uc.Execute(context.Background(), CalculateInvoiceInput{Text: sampleInvoiceText, Tariff: ptr(0.53)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Mode != entity.CalculationModeFixed {
			t.Errorf("expected fixed mode, got %s", output.Mode)
		}
		if output.Result == nil || !approxEqual(output.Result.NewInvoiceValue, 31.8, 1e-9) {
			t.Errorf("expected new invoice value 31.8, got %+v", output.Result)
		}
	})

	t.Run("tariff wins over percent", func(t *testing.T) {
		uc := NewCalculateInvoiceUseCase(fakeExtractor{}, processor)

		output, err := uc.Execute(context.Background(), CalculateInvoiceInput{Text: sampleInvoiceText, Tariff: ptr(0.53), Percent: ptr(99)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Mode != entity.CalculationModeFixed {
			t.Errorf("expected fixed mode, got %s", output.Mode)
		}
	})

	t.Run("pdf content goes through the extractor", func(t *testing.T) {
		uc := NewCalculateInvoiceUseCase(fakeExtractor{text: "  " + sampleInvoiceText + "\n"}, processor)

		output, err := uc.Execute(context.Background(), CalculateInvoiceInput{Content: []byte("%PDF"), Percent: ptr(15)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Mode != entity.CalculationModeTarget {
			t.Errorf("expected target mode, got %s", output.Mode)
		}
		if output.Record.Customer.Name != "JOAO DA SILVA" {
			t.Errorf("expected customer name, got %q", output.Record.Customer.Name)
		}
	})

	errorTests := []struct {
		name      string
		extractor fakeExtractor
		input     CalculateInvoiceInput
		code      string
	}{
		{name: "invalid tariff", input: CalculateInvoiceInput{Text: sampleInvoiceText, Tariff: ptr(-1)}, code: string(domainerror.ErrCodeInvalidTariff)},
		{name: "invalid percent", input: CalculateInvoiceInput{Text: sampleInvoiceText, Percent: ptr(11.9)}, code: string(domainerror.ErrCodeInvalidPercent)},
		{name: "no input", input: CalculateInvoiceInput{Text: "   "}, code: string(domainerror.ErrCodeMalformedInput)},
		{name: "short text", input: CalculateInvoiceInput{Text: "COPEL"}, code: string(domainerror.ErrCodeMalformedInput)},
		{
			name:      "unreadable document",
			extractor: fakeExtractor{err: errors.New("not a pdf")},
			input:     CalculateInvoiceInput{Content: []byte("garbage")},
			code:      string(domainerror.ErrCodeUnreadableDocument),
		},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewCalculateInvoiceUseCase(tt.extractor, processor)

			_, err := uc.Execute(context.Background(), tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := ErrorCode(err); got != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, got)
			}
		})
	}

	t.Run("unreadable document wraps sentinel", func(t *testing.T) {
		uc := NewCalculateInvoiceUseCase(fakeExtractor{err: errors.New("not a pdf")}, processor)

		_, err := uc.Execute(context.Background(), CalculateInvoiceInput{Content: []byte("garbage")})
		if !errors.Is(err, domainerror.ErrUnreadableDocument) {
			t.Errorf("expected ErrUnreadableDocument, got %v", err)
		}
	})
}
