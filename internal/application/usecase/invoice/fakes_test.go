package invoice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

// sampleInvoiceText mimics the text layout produced from a COPEL invoice PDF.
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

var fixedNow = time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC)

const time24h = 24 * time.Hour

func ptr(v float64) *float64 { return &v }

type fakeClientRepo struct {
	clients map[uuid.UUID]*entity.Client
}

func newFakeClientRepo(clients ...*entity.Client) *fakeClientRepo {
	repo := &fakeClientRepo{clients: map[uuid.UUID]*entity.Client{}}
	for _, c := range clients {
		repo.clients[c.ID] = c
	}
	return repo
}

func (r *fakeClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *fakeClientRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domainerror.ErrClientNotFound
	}
	return c, nil
}

func (r *fakeClientRepo) FindByAccountID(_ context.Context, accountID string) (*entity.Client, error) {
	for _, c := range r.clients {
		if c.AccountID == accountID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) List(_ context.Context) ([]*entity.Client, error) {
	out := make([]*entity.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.clients[c.ID] = c
	return nil
}

type fakeCalculationRepo struct {
	calculations map[string]*entity.MonthlyCalculation
	updates      int
}

func newFakeCalculationRepo(calcs ...*entity.MonthlyCalculation) *fakeCalculationRepo {
	repo := &fakeCalculationRepo{calculations: map[string]*entity.MonthlyCalculation{}}
	for _, calc := range calcs {
		repo.calculations[calcKey(calc.ClientID, calc.RefMonth)] = calc
	}
	return repo
}

func calcKey(clientID uuid.UUID, refMonth string) string {
	return clientID.String() + "/" + refMonth
}

func (r *fakeCalculationRepo) Create(_ context.Context, calc *entity.MonthlyCalculation) error {
	key := calcKey(calc.ClientID, calc.RefMonth)
	if _, exists := r.calculations[key]; exists {
		return errors.New("duplicate month")
	}
	r.calculations[key] = calc
	return nil
}

func (r *fakeCalculationRepo) FindByClientAndMonth(_ context.Context, clientID uuid.UUID, refMonth string) (*entity.MonthlyCalculation, error) {
	return r.calculations[calcKey(clientID, refMonth)], nil
}

func (r *fakeCalculationRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]*entity.MonthlyCalculation, error) {
	var out []*entity.MonthlyCalculation
	for _, calc := range r.calculations {
		if calc.ClientID == clientID {
			out = append(out, calc)
		}
	}
	return out, nil
}

func (r *fakeCalculationRepo) Update(_ context.Context, calc *entity.MonthlyCalculation) error {
	r.updates++
	r.calculations[calcKey(calc.ClientID, calc.RefMonth)] = calc
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e fakeExtractor) ExtractText(_ context.Context, _ []byte) (string, error) {
	return e.text, e.err
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*entity.CalculationResult
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*entity.CalculationResult{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (*entity.CalculationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, result *entity.CalculationResult, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = result
	return nil
}

type fakeMetrics struct {
	mu           sync.Mutex
	calculations map[entity.CalculationMode]int
	failures     map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		calculations: map[entity.CalculationMode]int{},
		failures:     map[string]int{},
	}
}

func (m *fakeMetrics) ObserveCalculation(mode entity.CalculationMode, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calculations[mode]++
}

func (m *fakeMetrics) IncExtractionFailure(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[code]++
}

type fakeRenderer struct {
	rendered []adapter.Statement
}

func (r *fakeRenderer) RenderPDF(statement adapter.Statement) ([]byte, error) {
	r.rendered = append(r.rendered, statement)
	return []byte("%PDF-1.3"), nil
}

func (r *fakeRenderer) RenderXLSX(statement adapter.Statement) ([]byte, error) {
	r.rendered = append(r.rendered, statement)
	return []byte("PK"), nil
}
