// Package calculation resolves the replacement tariff for an invoice and computes the customer discount.
package calculation

// Discount is what a replacement tariff produces for a given invoice.
type Discount struct {
	NewInvoiceValue float64
	DiscountAmount  float64
	TotalPayable    float64
	DiscountPercent float64
}

// ComputeDiscount prices the injected energy at tariff and derives the discount
// against the pre-discount baseline. The percentage is zero when the baseline is zero.
func ComputeDiscount(injectedKwh, tariff, grossTotal, grossTotalExTaxes, baselineExTaxes float64) Discount {
	newInvoiceValue := injectedKwh * tariff
	discountAmount := baselineExTaxes - (grossTotalExTaxes + newInvoiceValue)
	totalPayable := grossTotal + newInvoiceValue

	var discountPercent float64
	if baselineExTaxes != 0 {
		discountPercent = discountAmount / baselineExTaxes * 100
	}

	return Discount{
		NewInvoiceValue: newInvoiceValue,
		DiscountAmount:  discountAmount,
		TotalPayable:    totalPayable,
		DiscountPercent: discountPercent,
	}
}

// discountAt evaluates ComputeDiscount for the invoice aggregates at tariff.
func (a Aggregates) discountAt(tariff float64) Discount {
	return ComputeDiscount(a.InjectedKwh, tariff, a.GrossTotal, a.GrossTotalExTaxes, a.BaselineExTaxes)
}
