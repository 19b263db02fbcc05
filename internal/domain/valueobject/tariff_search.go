package valueobject

// DiscountBand is the accepted discount percentage interval, inclusive on both ends.
type DiscountBand struct {
	Min float64
	Max float64
}

// Contains reports whether percent lies within the band.
func (b DiscountBand) Contains(percent float64) bool {
	return percent >= b.Min && percent <= b.Max
}

// DefaultDiscountBand returns the 12% to 15% band offered to customers.
func DefaultDiscountBand() DiscountBand {
	return DiscountBand{Min: 12, Max: 15}
}

// RangeSearchConfig configures the stepped automatic tariff search.
type RangeSearchConfig struct {
	StartTariff   float64
	Step          float64
	MinTariff     float64
	MaxTariff     float64
	MaxIterations int
	Band          DiscountBand
}

// DefaultRangeSearchConfig returns the stepped search configuration
// (start 0.53, step 0.01, bounds 0.45..0.90, 1000 iterations).
func DefaultRangeSearchConfig() RangeSearchConfig {
	return RangeSearchConfig{
		StartTariff:   0.53,
		Step:          0.01,
		MinTariff:     0.45,
		MaxTariff:     0.90,
		MaxIterations: 1000,
		Band:          DefaultDiscountBand(),
	}
}

// BisectionConfig configures the target percentage tariff search.
type BisectionConfig struct {
	Low           float64
	High          float64
	InitialBest   float64
	Tolerance     float64 // percentage points
	MaxIterations int
}

// DefaultBisectionConfig returns the bisection configuration
// (bounds 0.01..1.5, 50 iterations, tolerance 0.05).
func DefaultBisectionConfig() BisectionConfig {
	return BisectionConfig{
		Low:           0.01,
		High:          1.5,
		InitialBest:   0.51,
		Tolerance:     0.05,
		MaxIterations: 50,
	}
}
