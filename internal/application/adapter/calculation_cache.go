package adapter

import (
	"context"
	"time"

	"github.com/ondesc/backend/internal/domain/entity"
)

// CalculationCache stores calculation results keyed by invoice text and mode.
type CalculationCache interface {
	// Get returns the cached result, or nil when the key is absent.
	Get(ctx context.Context, key string) (*entity.CalculationResult, error)

	// Set stores a result for the given time to live.
	Set(ctx context.Context, key string, result *entity.CalculationResult, ttl time.Duration) error
}

// CalculationMetrics records calculation outcomes.
type CalculationMetrics interface {
	// ObserveCalculation records a successful calculation and the search iterations it took.
	ObserveCalculation(mode entity.CalculationMode, iterations int)

	// IncExtractionFailure records a failed extraction or calculation by error code.
	IncExtractionFailure(code string)
}
