package invoice

import (
	"github.com/ondesc/backend/internal/application/usecase/calculation"
	"github.com/ondesc/backend/internal/application/usecase/client"
	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
)

// Requested calculation modes, as sent by API clients.
const (
	RequestedModeAuto    = "automatico"
	RequestedModeTariff  = "taxa"
	RequestedModePercent = "porcentagem"
)

// ResolveClientMode picks the calculation mode for a client calculation.
//
// An explicit "taxa" or "porcentagem" request must carry a valid value. Any other
// request falls back to the client's overrides, the tariff first, then the
// percentage, and finally the automatic search.
func ResolveClientMode(requested string, tariff, percent *float64, c *entity.Client) (calculation.Mode, error) {
	switch requested {
	case RequestedModeTariff:
		if tariff == nil || !calculation.ValidTariff(*tariff) {
			return nil, domainerror.NewCalculationError(
				domainerror.ErrCodeInvalidTariff,
				"Tarifa inválida.",
				domainerror.ErrInvalidTariff,
			)
		}
		return calculation.FixedTariff{Tariff: *tariff}, nil

	case RequestedModePercent:
		if percent == nil || !calculation.ValidPercent(*percent) {
			return nil, domainerror.NewCalculationError(
				domainerror.ErrCodeInvalidPercent,
				"Porcentagem inválida (permitido 12% a 15%).",
				domainerror.ErrInvalidPercent,
			)
		}
		return calculation.TargetPercent{Percent: *percent}, nil
	}

	if err := client.ValidateOverrides(c.Tariff, c.Percent); err != nil {
		return nil, err
	}
	return calculation.SelectMode(c.Tariff, c.Percent)
}

// ModeLabel returns the API name of a calculation mode.
func ModeLabel(mode entity.CalculationMode) string {
	switch mode {
	case entity.CalculationModeFixed:
		return RequestedModeTariff
	case entity.CalculationModeTarget:
		return RequestedModePercent
	default:
		return RequestedModeAuto
	}
}
