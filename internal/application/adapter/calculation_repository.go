package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ondesc/backend/internal/domain/entity"
)

// CalculationRepository defines the interface for monthly calculation persistence operations.
type CalculationRepository interface {
	// Create creates a new monthly calculation in the database.
	Create(ctx context.Context, calculation *entity.MonthlyCalculation) error

	// FindByClientAndMonth retrieves the calculation of a client for a YYYY-MM month, or nil when none exists.
	FindByClientAndMonth(ctx context.Context, clientID uuid.UUID, refMonth string) (*entity.MonthlyCalculation, error)

	// ListByClient retrieves all calculations of a client, newest month first.
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.MonthlyCalculation, error)

	// Update updates an existing monthly calculation in the database.
	Update(ctx context.Context, calculation *entity.MonthlyCalculation) error
}
