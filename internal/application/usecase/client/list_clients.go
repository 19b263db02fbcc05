package client

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/domain/entity"
)

var statusSortOrder = map[entity.ClientStatus]int{
	entity.ClientStatusPending:         0,
	entity.ClientStatusAwaitingPayment: 1,
	entity.ClientStatusPaid:            2,
}

// ClientSummary is a client with the state of its current month.
type ClientSummary struct {
	Client       *entity.Client
	HasInvoice   bool
	CanUpload    bool
	CanCalculate bool
	IsCalculated bool
}

// ListClientsOutput represents the output of listing clients.
type ListClientsOutput struct {
	RefMonth string
	Clients  []ClientSummary
}

// ListClientsUseCase handles listing clients with their current month state.
type ListClientsUseCase struct {
	clientRepo      adapter.ClientRepository
	calculationRepo adapter.CalculationRepository
	now             func() time.Time
}

// NewListClientsUseCase creates a new ListClientsUseCase instance.
func NewListClientsUseCase(clientRepo adapter.ClientRepository, calculationRepo adapter.CalculationRepository) *ListClientsUseCase {
	return &ListClientsUseCase{
		clientRepo:      clientRepo,
		calculationRepo: calculationRepo,
		now:             time.Now,
	}
}

// Execute lists clients, pending first, then by name.
func (uc *ListClientsUseCase) Execute(ctx context.Context) (*ListClientsOutput, error) {
	clients, err := uc.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	refMonth := entity.RefMonthFor(uc.now())
	summaries := make([]ClientSummary, 0, len(clients))

	for _, c := range clients {
		calc, err := uc.calculationRepo.FindByClientAndMonth(ctx, c.ID, refMonth)
		if err != nil {
			return nil, fmt.Errorf("failed to find calculation: %w", err)
		}

		pending := c.Status == entity.ClientStatusPending
		hasInvoice := calc != nil
		summaries = append(summaries, ClientSummary{
			Client:       c,
			HasInvoice:   hasInvoice,
			CanUpload:    pending,
			CanCalculate: hasInvoice && pending,
			IsCalculated: hasInvoice && calc.IsCalculated(),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].Client, summaries[j].Client
		if statusSortOrder[a.Status] != statusSortOrder[b.Status] {
			return statusSortOrder[a.Status] < statusSortOrder[b.Status]
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	return &ListClientsOutput{
		RefMonth: refMonth,
		Clients:  summaries,
	}, nil
}
