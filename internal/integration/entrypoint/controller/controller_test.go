package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ondesc/backend/internal/application/usecase/invoice"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

const sampleInvoiceText = `COPEL DISTRIBUICAO S.A.
Nome: JOAO DA SILVA
Endereço: RUA DAS FLORES 123
APTO 45
CEP: 80000-000
Cidade: CURITIBA - Estado: PR
CPF: ***.456.789-**
10/03/2026
12345678
03/2026
03/202615/04/2026R$123,45
ENERGIA ELET CONSUMO
ENERGIA INJ. BAND. VERDE
CONT ILUMIN PUBLICA MUNICIPIO
kWh
kWh
UN
100
-60
0,800000
0,800000
20,00
80,00
-48,00
20,00
ICMS
PIS/PASEP
COFINS`

func init() {
	gin.SetMode(gin.TestMode)
}

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(_ context.Context, _ []byte) (string, error) {
	return s.text, s.err
}

type formFile struct {
	field    string
	filename string
	content  []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *formFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

type envelope struct {
	Success bool `json:"success"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
		Level   string `json:"level"`
	} `json:"errors"`
	Data *struct {
		Tariff          float64 `json:"taxaEnergia"`
		NewInvoiceValue float64 `json:"valorNovaFatura"`
		TotalPayable    float64 `json:"valorTotal"`
		Mode            string  `json:"modoCalculo"`
		UserData        *struct {
			AccountID string `json:"uc"`
		} `json:"dadosUsuario"`
	} `json:"data"`
}

func newInvoiceRouter(extractor stubExtractor, maxBytes int64) *gin.Engine {
	processor := invoice.NewProcessInvoiceUseCase(nil, nil, 0)
	ctrl := NewInvoiceController(invoice.NewCalculateInvoiceUseCase(extractor, processor), maxBytes)

	r := gin.New()
	r.POST("/invoices/calculate", ctrl.Calculate)
	return r
}

func postCalculate(t *testing.T, r http.Handler, fields map[string]string, file *formFile) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	body, contentType := multipartBody(t, fields, file)
	req := httptest.NewRequest(http.MethodPost, "/invoices/calculate", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestInvoiceController_Calculate(t *testing.T) {
	t.Run("text with comma tariff", func(t *testing.T) {
		r := newInvoiceRouter(stubExtractor{}, 0)

		w, resp := postCalculate(t, r, map[string]string{"text": sampleInvoiceText, "tarifa": "0,53"}, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !resp.Success || resp.Data == nil {
			t.Fatalf("expected success with data, got %s", w.Body.String())
		}
		if resp.Data.Mode != invoice.RequestedModeTariff || resp.Data.Tariff != 0.53 {
			t.Errorf("expected taxa mode at 0.53, got %s %v", resp.Data.Mode, resp.Data.Tariff)
		}
		if resp.Data.UserData == nil || resp.Data.UserData.AccountID != "12345678" {
			t.Errorf("expected user data with account, got %+v", resp.Data.UserData)
		}
	})

	t.Run("pdf upload", func(t *testing.T) {
		r := newInvoiceRouter(stubExtractor{text: sampleInvoiceText}, 1<<20)

		w, resp := postCalculate(t, r, nil, &formFile{field: "file", filename: "fatura.pdf", content: []byte("%PDF-1.4")})

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if resp.Data == nil || resp.Data.Mode != invoice.RequestedModeAuto {
			t.Errorf("expected automatico mode, got %s", w.Body.String())
		}
	})

	t.Run("extraction failure keeps 200 with critical issue", func(t *testing.T) {
		r := newInvoiceRouter(stubExtractor{}, 0)
		text := strings.Repeat("COPEL FATURA SEM TABELA DE ITENS ", 5)

		w, resp := postCalculate(t, r, map[string]string{"text": text}, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if resp.Success || resp.Data != nil {
			t.Errorf("expected failure without data, got %s", w.Body.String())
		}
		if len(resp.Errors) == 0 || resp.Errors[0].Field != invoice.FieldCalculation || resp.Errors[0].Level != "critical" {
			t.Errorf("expected critical calculo issue, got %+v", resp.Errors)
		}
	})

	errorTests := []struct {
		name      string
		extractor stubExtractor
		maxBytes  int64
		fields    map[string]string
		file      *formFile
		status    int
		field     string
	}{
		{name: "nothing sent", fields: map[string]string{}, status: http.StatusBadRequest, field: "file"},
		{name: "unparseable tariff", fields: map[string]string{"text": sampleInvoiceText, "tarifa": "abc"}, status: http.StatusBadRequest, field: "tarifa"},
		{name: "non positive tariff", fields: map[string]string{"text": sampleInvoiceText, "tarifa": "0"}, status: http.StatusBadRequest, field: "tarifa"},
		{name: "percent outside band", fields: map[string]string{"text": sampleInvoiceText, "porcentagem": "20"}, status: http.StatusBadRequest, field: "porcentagem"},
		{name: "short text", fields: map[string]string{"text": "COPEL"}, status: http.StatusUnprocessableEntity, field: "pdf"},
		{
			name:      "unreadable pdf",
			extractor: stubExtractor{err: errors.New("malformed")},
			file:      &formFile{field: "file", filename: "x.pdf", content: []byte("garbage")},
			status:    http.StatusUnprocessableEntity,
			field:     "pdf",
		},
		{
			name:     "payload too large",
			maxBytes: 64,
			file:     &formFile{field: "file", filename: "big.pdf", content: bytes.Repeat([]byte("x"), 1024)},
			status:   http.StatusRequestEntityTooLarge,
			field:    "file",
		},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			r := newInvoiceRouter(tt.extractor, tt.maxBytes)

			w, resp := postCalculate(t, r, tt.fields, tt.file)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if resp.Success {
				t.Error("expected success false")
			}
			if len(resp.Errors) != 1 || resp.Errors[0].Field != tt.field {
				t.Errorf("expected one %s issue, got %+v", tt.field, resp.Errors)
			}
		})
	}
}

func TestIssueForError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{
			name:   "extraction",
			err:    domainerror.NewExtractionError(domainerror.ErrCodeTableNotFound, "Bloco de itens da fatura não encontrado", domainerror.ErrTableNotFound),
			status: http.StatusUnprocessableEntity,
			field:  "pdf",
		},
		{
			name:   "empty items",
			err:    domainerror.NewCalculationError(domainerror.ErrCodeEmptyItemSet, "Itens da fatura inválidos", domainerror.ErrEmptyItemSet),
			status: http.StatusUnprocessableEntity,
			field:  "calculo",
		},
		{
			name:   "client not found",
			err:    domainerror.NewClientError(domainerror.ErrCodeClientNotFound, "Cliente não encontrado", domainerror.ErrClientNotFound),
			status: http.StatusNotFound,
			field:  "clientId",
		},
		{
			name:   "no attachment",
			err:    domainerror.NewClientError(domainerror.ErrCodeInvoiceNotUploaded, "Cliente sem PDF anexado", domainerror.ErrInvoiceNotUploaded),
			status: http.StatusNotFound,
			field:  "attachment",
		},
		{
			name:   "due date config",
			err:    domainerror.NewClientError(domainerror.ErrCodeInvalidDueDateConfig, "Data inválida", domainerror.ErrInvalidDueDateConfig),
			status: http.StatusBadRequest,
			field:  "data_vencimento",
		},
		{
			name:   "unexpected",
			err:    errors.New("database is down"),
			status: http.StatusInternalServerError,
			field:  "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, field, message := issueForError(tt.err)
			if status != tt.status || field != tt.field {
				t.Errorf("expected %d/%s, got %d/%s", tt.status, tt.field, status, field)
			}
			if message == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestHealthController(t *testing.T) {
	tests := []struct {
		name     string
		db       func() bool
		cache    func() bool
		database string
		cacheSt  string
	}{
		{name: "all connected", db: func() bool { return true }, cache: func() bool { return true }, database: "connected", cacheSt: "connected"},
		{name: "cache disabled", db: func() bool { return true }, database: "connected", cacheSt: "disabled"},
		{name: "database down", db: func() bool { return false }, cache: func() bool { return true }, database: "disconnected", cacheSt: "connected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(tt.db, tt.cache).Check)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != "ok" || resp.Database != tt.database || resp.Cache != tt.cacheSt {
				t.Errorf("unexpected health %+v", resp)
			}
		})
	}
}
