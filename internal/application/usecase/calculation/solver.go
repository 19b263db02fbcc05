package calculation

import (
	"math"
	"slices"

	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/domain/valueobject"
)

// SearchResult is the tariff a search settled on.
type SearchResult struct {
	Tariff     float64
	Iterations int
	BestDiff   float64 // bisection only: distance of the best candidate to the target
}

// RangeSearch steps the tariff from the start value until the discount falls
// inside the band. When a bound is reached the tariff is clamped and the search
// stops, so the result may fall outside the band.
func RangeSearch(agg Aggregates, cfg valueobject.RangeSearchConfig) SearchResult {
	tariff := cfg.StartTariff
	iterations := 0

	for iterations < cfg.MaxIterations {
		iterations++

		percent := agg.discountAt(tariff).DiscountPercent
		if cfg.Band.Contains(percent) {
			return SearchResult{Tariff: tariff, Iterations: iterations}
		}

		// A lower tariff yields a larger discount.
		if percent < cfg.Band.Min {
			tariff -= cfg.Step
		} else {
			tariff += cfg.Step
		}

		if tariff <= cfg.MinTariff {
			tariff = cfg.MinTariff
			break
		}
		if tariff >= cfg.MaxTariff {
			tariff = cfg.MaxTariff
			break
		}
	}

	return SearchResult{Tariff: tariff, Iterations: iterations}
}

// BisectionSearch halves the tariff interval towards the target discount and
// returns the closest midpoint seen, rounded to cents.
func BisectionSearch(agg Aggregates, target float64, cfg valueobject.BisectionConfig) SearchResult {
	low, high := cfg.Low, cfg.High
	best, bestDiff := cfg.InitialBest, math.Inf(1)
	iterations := 0

	for iterations < cfg.MaxIterations {
		iterations++

		mid := (low + high) / 2
		percent := agg.discountAt(mid).DiscountPercent

		diff := math.Abs(percent - target)
		if diff < bestDiff {
			bestDiff = diff
			best = mid
		}
		if diff <= cfg.Tolerance {
			break
		}

		// Discount above target means the tariff is still too low.
		if percent > target {
			low = mid
		} else {
			high = mid
		}
	}

	return SearchResult{
		Tariff:     roundCents(best),
		Iterations: iterations,
		BestDiff:   bestDiff,
	}
}

// Calculate resolves the tariff for items under mode and returns the final metrics.
// A nil mode is treated as AutoRange.
func Calculate(items []entity.InvoiceLineItem, mode Mode) (*entity.CalculationResult, error) {
	if len(items) == 0 {
		return nil, domainerror.NewCalculationError(
			domainerror.ErrCodeEmptyItemSet,
			"Itens da fatura inválidos",
			domainerror.ErrEmptyItemSet,
		)
	}

	if mode == nil {
		mode = AutoRange{}
	}
	if err := validateMode(mode); err != nil {
		return nil, err
	}

	agg := ComputeAggregates(items)

	result := &entity.CalculationResult{
		Items:             slices.Clone(items),
		EnergyInjectedKwh: agg.InjectedKwh,
		BaselineValue:     agg.Baseline,
		GrossInvoiceTotal: agg.GrossTotal,
		Mode:              mode.kind(),
	}

	switch m := mode.(type) {
	case FixedTariff:
		result.ResolvedTariff = m.Tariff
	case TargetPercent:
		search := BisectionSearch(agg, m.Percent, valueobject.DefaultBisectionConfig())
		target := m.Percent
		result.ResolvedTariff = search.Tariff
		result.TargetPercent = &target
		result.SearchIterations = search.Iterations
	case AutoRange:
		search := RangeSearch(agg, valueobject.DefaultRangeSearchConfig())
		result.ResolvedTariff = search.Tariff
		result.SearchIterations = search.Iterations
	}

	discount := agg.discountAt(result.ResolvedTariff)
	result.NewInvoiceValue = discount.NewInvoiceValue
	result.DiscountAmount = discount.DiscountAmount
	result.TotalPayable = discount.TotalPayable
	result.DiscountPercent = discount.DiscountPercent

	return result, nil
}

// roundCents rounds v half away from zero on its float value scaled by 100.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
