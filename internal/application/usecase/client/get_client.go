package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

// GetClientInput represents the input for retrieving a client.
type GetClientInput struct {
	ClientID uuid.UUID
}

// GetClientOutput represents the output of retrieving a client.
type GetClientOutput struct {
	Client       *entity.Client
	Calculations []*entity.MonthlyCalculation
}

// GetClientUseCase handles retrieving a client with its calculation history.
type GetClientUseCase struct {
	clientRepo      adapter.ClientRepository
	calculationRepo adapter.CalculationRepository
}

// NewGetClientUseCase creates a new GetClientUseCase instance.
func NewGetClientUseCase(clientRepo adapter.ClientRepository, calculationRepo adapter.CalculationRepository) *GetClientUseCase {
	return &GetClientUseCase{
		clientRepo:      clientRepo,
		calculationRepo: calculationRepo,
	}
}

// Execute retrieves the client.
func (uc *GetClientUseCase) Execute(ctx context.Context, input GetClientInput) (*GetClientOutput, error) {
	client, err := FindClient(ctx, uc.clientRepo, input.ClientID)
	if err != nil {
		return nil, err
	}

	calculations, err := uc.calculationRepo.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}

	return &GetClientOutput{
		Client:       client,
		Calculations: calculations,
	}, nil
}

// FindClient loads a client and maps a missing record to a coded client error.
func FindClient(ctx context.Context, clientRepo adapter.ClientRepository, id uuid.UUID) (*entity.Client, error) {
	client, err := clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrClientNotFound) {
			return nil, domainerror.NewClientError(
				domainerror.ErrCodeClientNotFound,
				"Cliente não encontrado",
				domainerror.ErrClientNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return client, nil
}
