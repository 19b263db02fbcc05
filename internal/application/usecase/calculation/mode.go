package calculation

import (
	"math"

	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/domain/valueobject"
)

// Mode selects how the replacement tariff is resolved.
// It is implemented only by FixedTariff, TargetPercent and AutoRange.
type Mode interface {
	isMode()
	kind() entity.CalculationMode
}

// FixedTariff uses the given tariff as is.
type FixedTariff struct {
	Tariff float64
}

// TargetPercent searches for the tariff producing the given discount percentage.
type TargetPercent struct {
	Percent float64
}

// AutoRange searches for any tariff whose discount lies in the default band.
type AutoRange struct{}

func (FixedTariff) isMode()   {}
func (TargetPercent) isMode() {}
func (AutoRange) isMode()     {}

func (FixedTariff) kind() entity.CalculationMode   { return entity.CalculationModeFixed }
func (TargetPercent) kind() entity.CalculationMode { return entity.CalculationModeTarget }
func (AutoRange) kind() entity.CalculationMode     { return entity.CalculationModeRange }

// ModeName returns the calculation mode recorded for mode.
func ModeName(mode Mode) entity.CalculationMode {
	return mode.kind()
}

// SelectMode picks the mode from optional overrides: a fixed tariff wins over a
// target percentage, and with neither the search is automatic.
func SelectMode(fixedTariff, targetPercent *float64) (Mode, error) {
	var mode Mode
	switch {
	case fixedTariff != nil:
		mode = FixedTariff{Tariff: *fixedTariff}
	case targetPercent != nil:
		mode = TargetPercent{Percent: *targetPercent}
	default:
		mode = AutoRange{}
	}

	if err := validateMode(mode); err != nil {
		return nil, err
	}
	return mode, nil
}

// ValidTariff reports whether tariff is a positive finite number.
func ValidTariff(tariff float64) bool {
	return isFinite(tariff) && tariff > 0
}

// ValidPercent reports whether percent lies in the discount band offered to customers.
func ValidPercent(percent float64) bool {
	return isFinite(percent) && valueobject.DefaultDiscountBand().Contains(percent)
}

func validateMode(mode Mode) error {
	switch m := mode.(type) {
	case FixedTariff:
		if !ValidTariff(m.Tariff) {
			return domainerror.NewCalculationError(
				domainerror.ErrCodeInvalidTariff,
				"Tarifa informada é inválida",
				domainerror.ErrInvalidTariff,
			)
		}
	case TargetPercent:
		if !ValidPercent(m.Percent) {
			return domainerror.NewCalculationError(
				domainerror.ErrCodeInvalidPercent,
				"Porcentagem inválida (permitido 12% a 15%).",
				domainerror.ErrInvalidPercent,
			)
		}
	case AutoRange:
	default:
		return domainerror.NewCalculationError(
			domainerror.ErrCodeInvalidCalculationMode,
			"Modo de cálculo inválido",
			domainerror.ErrInvalidCalculationMode,
		)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
