package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/domain/entity"
	"github.com/ondesc/backend/internal/integration/persistence/model"
)

// calculationRepository implements the adapter.CalculationRepository interface.
type calculationRepository struct {
	db *gorm.DB
}

// NewCalculationRepository creates a new monthly calculation repository instance.
func NewCalculationRepository(db *gorm.DB) adapter.CalculationRepository {
	return &calculationRepository{
		db: db,
	}
}

// Create creates a new monthly calculation in the database.
func (r *calculationRepository) Create(ctx context.Context, calculation *entity.MonthlyCalculation) error {
	calcModel := model.MonthlyCalculationFromEntity(calculation)
	result := r.db.WithContext(ctx).Create(calcModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByClientAndMonth retrieves the calculation of a client for a reference month.
func (r *calculationRepository) FindByClientAndMonth(ctx context.Context, clientID uuid.UUID, refMonth string) (*entity.MonthlyCalculation, error) {
	var calcModel model.MonthlyCalculationModel
	result := r.db.WithContext(ctx).
		Where("client_id = ? AND ref_month = ?", clientID, refMonth).
		First(&calcModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return calcModel.ToEntity(), nil
}

// ListByClient retrieves all calculations of a client, newest month first.
func (r *calculationRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.MonthlyCalculation, error) {
	var calcModels []model.MonthlyCalculationModel
	result := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("ref_month DESC").
		Find(&calcModels)
	if result.Error != nil {
		return nil, result.Error
	}

	calculations := make([]*entity.MonthlyCalculation, len(calcModels))
	for i, cm := range calcModels {
		calculations[i] = cm.ToEntity()
	}
	return calculations, nil
}

// Update updates an existing monthly calculation in the database.
func (r *calculationRepository) Update(ctx context.Context, calculation *entity.MonthlyCalculation) error {
	calcModel := model.MonthlyCalculationFromEntity(calculation)
	result := r.db.WithContext(ctx).Save(calcModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
