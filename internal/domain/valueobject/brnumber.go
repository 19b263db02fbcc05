// Package valueobject contains domain value objects for the invoice recalculation service.
package valueobject

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidBRNumber is returned when a string is not a Brazilian formatted number.
var ErrInvalidBRNumber = errors.New("invalid brazilian number")

// ErrInvalidBRDate is returned when a string is not a DD/MM/YYYY date.
var ErrInvalidBRDate = errors.New("invalid date (expected dd/MM/yyyy)")

var brDatePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// ParseBRNumber parses a number written with "." as thousands separator and "," as decimal separator.
// Every "." is dropped and only the first "," becomes the decimal point.
// A value left empty by that normalization, such as "" or ".", is zero.
func ParseBRNumber(value string) (decimal.Decimal, error) {
	normalized := strings.TrimSpace(value)
	normalized = strings.ReplaceAll(normalized, ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)
	if normalized == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidBRNumber, value)
	}
	return d, nil
}

// ParseBRFloat is ParseBRNumber returning a float64.
func ParseBRFloat(value string) (float64, error) {
	d, err := ParseBRNumber(value)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// FormatBRL formats a value as Brazilian currency, e.g. "R$ 1.234,56" or "-R$ 10,00".
func FormatBRL(value float64) string {
	d := decimal.NewFromFloat(value).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	return sign + "R$ " + groupThousands(intPart) + "," + fracPart
}

// FormatKWh formats an energy quantity with two decimals, e.g. "123.45 kWh".
func FormatKWh(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2) + " kWh"
}

// FormatPercent formats a percentage with two decimals using a decimal comma, e.g. "13,50%".
func FormatPercent(value float64) string {
	return strings.Replace(decimal.NewFromFloat(value).StringFixed(2), ".", ",", 1) + "%"
}

// BRDateToISO converts DD/MM/YYYY into YYYY-MM-DD without calendar validation.
func BRDateToISO(brDate string) (string, error) {
	match := brDatePattern.FindStringSubmatch(brDate)
	if match == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidBRDate, brDate)
	}
	return match[3] + "-" + match[2] + "-" + match[1], nil
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
