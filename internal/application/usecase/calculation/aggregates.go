package calculation

import (
	"math"
	"strings"

	"github.com/ondesc/backend/internal/domain/entity"
)

// InjectedEnergyMarker identifies the injected energy credit lines.
const InjectedEnergyMarker = "ENERGIA INJ. BAND."

// surchargeMarkers identify public lighting, late fees, interest and fines.
var surchargeMarkers = []string{"CONT ILUMIN", "ACRESCIMO", "JUROS", "MULTA"}

// Aggregates are the invoice sums the tariff resolution works on.
type Aggregates struct {
	GrossTotal        float64 // all item values
	GrossTotalExTaxes float64 // all item values except surcharges
	Baseline          float64 // positive item values
	BaselineExTaxes   float64 // positive item values except surcharges
	InjectedKwh       float64 // absolute quantity of injected energy lines
}

// ComputeAggregates sums the invoice items.
func ComputeAggregates(items []entity.InvoiceLineItem) Aggregates {
	var agg Aggregates

	for _, item := range items {
		surcharge := isSurcharge(item.Description)

		agg.GrossTotal += item.Value
		if !surcharge {
			agg.GrossTotalExTaxes += item.Value
		}

		if item.Value > 0 {
			agg.Baseline += item.Value
			if !surcharge {
				agg.BaselineExTaxes += item.Value
			}
		}

		if strings.Contains(item.Description, InjectedEnergyMarker) {
			agg.InjectedKwh += math.Abs(item.Quantity)
		}
	}

	return agg
}

func isSurcharge(description string) bool {
	upper := strings.ToUpper(description)
	for _, marker := range surchargeMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
