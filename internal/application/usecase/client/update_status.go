package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/domain/entity"
)

// UpdateStatusInput represents the input for changing a client's billing status.
type UpdateStatusInput struct {
	ClientID uuid.UUID
	Status   string
}

// UpdateStatusOutput represents the output of changing a client's billing status.
type UpdateStatusOutput struct {
	Client *entity.Client
}

// UpdateStatusUseCase handles client billing status changes.
type UpdateStatusUseCase struct {
	clientRepo adapter.ClientRepository
}

// NewUpdateStatusUseCase creates a new UpdateStatusUseCase instance.
func NewUpdateStatusUseCase(clientRepo adapter.ClientRepository) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		clientRepo: clientRepo,
	}
}

// Execute updates the status. Unknown values fall back to pending.
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, input UpdateStatusInput) (*UpdateStatusOutput, error) {
	client, err := FindClient(ctx, uc.clientRepo, input.ClientID)
	if err != nil {
		return nil, err
	}

	previous := client.Status
	client.Status = entity.NormalizeClientStatus(input.Status)
	client.UpdatedAt = time.Now().UTC()

	if err := uc.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	slog.Info("Client status updated",
		"client_id", client.ID,
		"from", previous,
		"to", client.Status,
	)

	return &UpdateStatusOutput{
		Client: client,
	}, nil
}
