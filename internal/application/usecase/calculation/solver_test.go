package calculation

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/domain/valueobject"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func floatPtr(v float64) *float64 {
	return &v
}

// scenarioItems is a consumption line and an injected energy credit.
func scenarioItems() []entity.InvoiceLineItem {
	return []entity.InvoiceLineItem{
		{Description: "ENERGIA ELET CONSUMO", Unit: "kWh", Quantity: 100, UnitPrice: 0.8, Value: 80},
		{Description: "ENERGIA INJ. BAND. VERDE", Unit: "kWh", Quantity: -60, UnitPrice: 0.8, Value: -48},
	}
}

func TestComputeDiscount(t *testing.T) {
	t.Run("formulas", func(t *testing.T) {
		d := ComputeDiscount(60, 0.5, 32, 32, 80)

		if !approxEqual(d.NewInvoiceValue, 30) {
			t.Errorf("expected new invoice value 30, got %v", d.NewInvoiceValue)
		}
		if !approxEqual(d.DiscountAmount, 18) {
			t.Errorf("expected discount amount 18, got %v", d.DiscountAmount)
		}
		if !approxEqual(d.TotalPayable, 62) {
			t.Errorf("expected total payable 62, got %v", d.TotalPayable)
		}
		if !approxEqual(d.DiscountPercent, 22.5) {
			t.Errorf("expected discount percent 22.5, got %v", d.DiscountPercent)
		}
	})

	t.Run("pure", func(t *testing.T) {
		first := ComputeDiscount(123.4, 0.57, 210.33, 190.12, 250.01)
		second := ComputeDiscount(123.4, 0.57, 210.33, 190.12, 250.01)
		if first != second {
			t.Errorf("expected identical results, got %+v and %+v", first, second)
		}
	})

	t.Run("zero baseline", func(t *testing.T) {
		d := ComputeDiscount(60, 0.53, 32, 32, 0)
		if d.DiscountPercent != 0 {
			t.Errorf("expected discount percent 0, got %v", d.DiscountPercent)
		}
	})
}

func TestComputeAggregates(t *testing.T) {
	items := []entity.InvoiceLineItem{
		{Description: "ENERGIA ELET CONSUMO", Quantity: 200, Value: 160},
		{Description: "ENERGIA INJ. BAND. VERDE", Quantity: -120, Value: -96},
		{Description: "ENERGIA INJ. BAND. AMARELA", Quantity: -30, Value: -24},
		{Description: "CONT ILUMIN PUBLICA MUNICIPIO", Value: 25},
		{Description: "Multa por atraso", Value: 5},
		{Description: "JUROS MORATORIA", Value: 1.5},
	}

	agg := ComputeAggregates(items)

	expected := Aggregates{
		GrossTotal:        71.5,
		GrossTotalExTaxes: 40,
		Baseline:          191.5,
		BaselineExTaxes:   160,
		InjectedKwh:       150,
	}

	if !approxEqual(agg.GrossTotal, expected.GrossTotal) ||
		!approxEqual(agg.GrossTotalExTaxes, expected.GrossTotalExTaxes) ||
		!approxEqual(agg.Baseline, expected.Baseline) ||
		!approxEqual(agg.BaselineExTaxes, expected.BaselineExTaxes) ||
		!approxEqual(agg.InjectedKwh, expected.InjectedKwh) {
		t.Errorf("expected %+v, got %+v", expected, agg)
	}
}

func TestSelectMode(t *testing.T) {
	tests := []struct {
		name         string
		tariff       *float64
		percent      *float64
		expected     Mode
		expectedCode domainerror.CalculationErrorCode
	}{
		{name: "no overrides", expected: AutoRange{}},
		{name: "fixed tariff", tariff: floatPtr(0.6), expected: FixedTariff{Tariff: 0.6}},
		{name: "target percent", percent: floatPtr(13), expected: TargetPercent{Percent: 13}},
		{name: "fixed wins over target", tariff: floatPtr(0.6), percent: floatPtr(13), expected: FixedTariff{Tariff: 0.6}},
		{name: "band lower edge", percent: floatPtr(12), expected: TargetPercent{Percent: 12}},
		{name: "band upper edge", percent: floatPtr(15), expected: TargetPercent{Percent: 15}},
		{name: "zero tariff", tariff: floatPtr(0), expectedCode: domainerror.ErrCodeInvalidTariff},
		{name: "negative tariff", tariff: floatPtr(-0.1), expectedCode: domainerror.ErrCodeInvalidTariff},
		{name: "infinite tariff", tariff: floatPtr(math.Inf(1)), expectedCode: domainerror.ErrCodeInvalidTariff},
		{name: "percent above band", percent: floatPtr(20), expectedCode: domainerror.ErrCodeInvalidPercent},
		{name: "percent below band", percent: floatPtr(11.99), expectedCode: domainerror.ErrCodeInvalidPercent},
		{name: "NaN percent", percent: floatPtr(math.NaN()), expectedCode: domainerror.ErrCodeInvalidPercent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := SelectMode(tt.tariff, tt.percent)

			if tt.expectedCode != "" {
				var calcErr *domainerror.CalculationError
				if !errors.As(err, &calcErr) {
					t.Fatalf("expected CalculationError, got %v", err)
				}
				if calcErr.Code != tt.expectedCode {
					t.Errorf("expected code %s, got %s", tt.expectedCode, calcErr.Code)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.expected {
				t.Errorf("expected %#v, got %#v", tt.expected, mode)
			}
		})
	}
}

func TestCalculate_FixedTariffScenario(t *testing.T) {
	result, err := Calculate(scenarioItems(), FixedTariff{Tariff: 0.53})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode != entity.CalculationModeFixed {
		t.Errorf("expected mode fixed, got %s", result.Mode)
	}
	if result.ResolvedTariff != 0.53 {
		t.Errorf("expected tariff 0.53, got %v", result.ResolvedTariff)
	}
	if !approxEqual(result.EnergyInjectedKwh, 60) {
		t.Errorf("expected 60 kWh injected, got %v", result.EnergyInjectedKwh)
	}
	if !approxEqual(result.NewInvoiceValue, 31.8) {
		t.Errorf("expected new invoice value 31.8, got %v", result.NewInvoiceValue)
	}
	if !approxEqual(result.GrossInvoiceTotal, 32) {
		t.Errorf("expected gross total 32, got %v", result.GrossInvoiceTotal)
	}
	if !approxEqual(result.TotalPayable, 63.8) {
		t.Errorf("expected total payable 63.8, got %v", result.TotalPayable)
	}
	if !approxEqual(result.BaselineValue, 80) {
		t.Errorf("expected baseline 80, got %v", result.BaselineValue)
	}
	if result.TargetPercent != nil {
		t.Errorf("expected no target percent in fixed mode")
	}
}

func TestCalculate_Errors(t *testing.T) {
	t.Run("empty items", func(t *testing.T) {
		_, err := Calculate(nil, AutoRange{})
		if !errors.Is(err, domainerror.ErrEmptyItemSet) {
			t.Errorf("expected ErrEmptyItemSet, got %v", err)
		}
	})

	t.Run("target outside band", func(t *testing.T) {
		_, err := Calculate(scenarioItems(), TargetPercent{Percent: 20})
		if !errors.Is(err, domainerror.ErrInvalidPercent) {
			t.Errorf("expected ErrInvalidPercent, got %v", err)
		}
	})

	t.Run("invalid fixed tariff", func(t *testing.T) {
		_, err := Calculate(scenarioItems(), FixedTariff{Tariff: math.NaN()})
		if !errors.Is(err, domainerror.ErrInvalidTariff) {
			t.Errorf("expected ErrInvalidTariff, got %v", err)
		}
	})
}

func TestCalculate_ZeroBaselineFixedMode(t *testing.T) {
	items := []entity.InvoiceLineItem{
		{Description: "CONT ILUMIN PUBLICA MUNICIPIO", Unit: "UN", Value: 20},
		{Description: "ENERGIA INJ. BAND. VERDE", Unit: "kWh", Quantity: -60, Value: -48},
	}

	for _, tariff := range []float64{0.1, 0.53, 1.2} {
		result, err := Calculate(items, FixedTariff{Tariff: tariff})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.DiscountPercent != 0 {
			t.Errorf("tariff %v: expected discount percent 0, got %v", tariff, result.DiscountPercent)
		}
	}
}

func TestCalculate_RangeConverges(t *testing.T) {
	// discount(t) = 60 - 75t, inside the band for 0.60 <= t <= 0.64.
	result, err := Calculate(scenarioItems(), AutoRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode != entity.CalculationModeRange {
		t.Errorf("expected mode range, got %s", result.Mode)
	}
	if !valueobject.DefaultDiscountBand().Contains(result.DiscountPercent) {
		t.Errorf("expected discount within band, got %v at tariff %v", result.DiscountPercent, result.ResolvedTariff)
	}
	if result.SearchIterations < 2 {
		t.Errorf("expected the search to step at least once, got %d iterations", result.SearchIterations)
	}
}

func TestRangeSearch_ClampsAtBound(t *testing.T) {
	// discount(t) = 60 - 12.5t stays above the band up to the upper bound.
	agg := ComputeAggregates([]entity.InvoiceLineItem{
		{Description: "ENERGIA ELET CONSUMO", Quantity: 100, Value: 80},
		{Description: "ENERGIA INJ. BAND. VERDE", Quantity: -10, Value: -48},
	})

	cfg := valueobject.DefaultRangeSearchConfig()
	search := RangeSearch(agg, cfg)

	if search.Tariff != cfg.MaxTariff {
		t.Errorf("expected tariff clamped to %v, got %v", cfg.MaxTariff, search.Tariff)
	}
	if search.Iterations >= cfg.MaxIterations {
		t.Errorf("expected early stop, got %d iterations", search.Iterations)
	}
	if percent := agg.discountAt(search.Tariff).DiscountPercent; cfg.Band.Contains(percent) {
		t.Errorf("expected best-effort result outside band, got %v", percent)
	}
}

func TestRangeSearch_ClampsAtLowerBound(t *testing.T) {
	// Without a baseline the discount is always zero, below the band.
	agg := ComputeAggregates([]entity.InvoiceLineItem{
		{Description: "ENERGIA INJ. BAND. VERDE", Quantity: -60, Value: -48},
	})

	cfg := valueobject.DefaultRangeSearchConfig()
	search := RangeSearch(agg, cfg)

	if search.Tariff != cfg.MinTariff {
		t.Errorf("expected tariff clamped to %v, got %v", cfg.MinTariff, search.Tariff)
	}
}

func TestBisectionSearch(t *testing.T) {
	agg := ComputeAggregates(scenarioItems())
	cfg := valueobject.DefaultBisectionConfig()

	for _, target := range []float64{12, 12.5, 13, 13.75, 14, 15} {
		search := BisectionSearch(agg, target, cfg)

		if search.BestDiff > cfg.Tolerance && search.Iterations < cfg.MaxIterations {
			t.Errorf("target %v: stopped after %d iterations with diff %v", target, search.Iterations, search.BestDiff)
		}
		if search.Tariff != math.Round(search.Tariff*100)/100 {
			t.Errorf("target %v: expected tariff rounded to cents, got %v", target, search.Tariff)
		}
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{input: 0.604, expected: 0.6},
		{input: 0.605, expected: 0.61},
		// 1.005 is stored just below the half cent, so scaling by 100 rounds down.
		{input: 1.005, expected: 1},
		{input: 0.5996, expected: 0.6},
	}

	for _, tt := range tests {
		if got := roundCents(tt.input); got != tt.expected {
			t.Errorf("roundCents(%v): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestCalculate_TargetMode(t *testing.T) {
	// discount(t) = 60 - 75t, so a 15% discount needs t = 0.60.
	result, err := Calculate(scenarioItems(), TargetPercent{Percent: 15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode != entity.CalculationModeTarget {
		t.Errorf("expected mode target, got %s", result.Mode)
	}
	if result.ResolvedTariff != 0.6 {
		t.Errorf("expected tariff 0.6, got %v", result.ResolvedTariff)
	}
	if result.TargetPercent == nil || *result.TargetPercent != 15 {
		t.Errorf("expected target percent 15, got %v", result.TargetPercent)
	}
	if math.Abs(result.DiscountPercent-15) > 0.05 {
		t.Errorf("expected discount within 0.05 of 15, got %v", result.DiscountPercent)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	modes := []Mode{AutoRange{}, FixedTariff{Tariff: 0.55}, TargetPercent{Percent: 13}}

	for _, mode := range modes {
		first, err := Calculate(scenarioItems(), mode)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Calculate(scenarioItems(), mode)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("mode %T: expected identical results, got %+v and %+v", mode, first, second)
		}
	}
}

func TestCalculate_DoesNotShareItems(t *testing.T) {
	items := scenarioItems()

	result, err := Calculate(items, FixedTariff{Tariff: 0.53})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items[0].Value = 0
	if result.Items[0].Value != 80 {
		t.Errorf("expected result items to be a copy, got %v", result.Items[0].Value)
	}
}
