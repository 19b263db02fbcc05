// Package client contains client-related use cases.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/application/usecase/calculation"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/domain/valueobject"
)

var accountIDPattern = regexp.MustCompile(`^\d{8,15}$`)

// CreateClientInput represents the input for client creation.
type CreateClientInput struct {
	Name          string
	AccountID     string
	Phone         string
	Tariff        *float64 // Optional fixed tariff
	Percent       *float64 // Optional target discount, 12..15
	DueDateConfig string   // Optional day of month or DD/MM/YYYY
}

// CreateClientOutput represents the output of client creation.
type CreateClientOutput struct {
	Client *entity.Client
}

// CreateClientUseCase handles client creation logic.
type CreateClientUseCase struct {
	clientRepo adapter.ClientRepository
}

// NewCreateClientUseCase creates a new CreateClientUseCase instance.
func NewCreateClientUseCase(clientRepo adapter.ClientRepository) *CreateClientUseCase {
	return &CreateClientUseCase{
		clientRepo: clientRepo,
	}
}

// Execute performs the client creation.
func (uc *CreateClientUseCase) Execute(ctx context.Context, input CreateClientInput) (*CreateClientOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewClientError(
			domainerror.ErrCodeInvalidClientName,
			"Nome do cliente é obrigatório",
			domainerror.ErrInvalidClientName,
		)
	}

	accountID := strings.TrimSpace(input.AccountID)
	if !accountIDPattern.MatchString(accountID) {
		return nil, domainerror.NewClientError(
			domainerror.ErrCodeInvalidClientAccount,
			"UC inválida (esperado 8 a 15 dígitos)",
			domainerror.ErrInvalidClientAccount,
		)
	}

	if err := ValidateOverrides(input.Tariff, input.Percent); err != nil {
		return nil, err
	}

	if err := valueobject.ValidateDueDateConfig(input.DueDateConfig); err != nil {
		return nil, err
	}

	existing, err := uc.clientRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check client existence: %w", err)
	}
	if existing != nil {
		return nil, domainerror.NewClientError(
			domainerror.ErrCodeClientAccountExists,
			"Já existe um cliente com esta UC",
			domainerror.ErrClientAccountExists,
		)
	}

	client := entity.NewClient(name, accountID, strings.TrimSpace(input.Phone), input.Tariff, input.Percent, input.DueDateConfig)

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	slog.Info("Client created", "client_id", client.ID, "account_id", client.AccountID)

	return &CreateClientOutput{
		Client: client,
	}, nil
}

// ValidateOverrides checks the optional tariff and percentage overrides of a client.
func ValidateOverrides(tariff, percent *float64) error {
	if tariff != nil && !calculation.ValidTariff(*tariff) {
		return domainerror.NewClientError(
			domainerror.ErrCodeInvalidClientTariff,
			"Tarifa configurada no cliente é inválida.",
			domainerror.ErrInvalidTariff,
		)
	}
	if percent != nil && !calculation.ValidPercent(*percent) {
		return domainerror.NewClientError(
			domainerror.ErrCodeInvalidClientPercent,
			"Porcentagem configurada no cliente é inválida (permitido 12% a 15%).",
			domainerror.ErrInvalidPercent,
		)
	}
	return nil
}
