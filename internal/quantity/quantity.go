// Package quantity provides the fixed-point arithmetic every stored
// quantity goes through. Quantities are decimal.Decimal, never float64,
// so repeated merges cannot accumulate binary rounding drift.
//
// Rounding is half-to-even (banker's rounding) at every quantize step:
// 0.125 quantized to 2 places is 0.12, 0.135 is 0.14. The choice matters
// only at the half-unit boundary but it is applied uniformly so merge
// order stays within one quantization unit of any other order.
package quantity

import "github.com/shopspring/decimal"

const (
	// RatePlaces is the precision of per-person rates.
	RatePlaces = 4

	// AbsolutePlaces is the precision of absolute (display) quantities.
	AbsolutePlaces = 2
)

// Rate quantizes a per-person rate to 4 decimal places, half-to-even.
func Rate(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(RatePlaces)
}

// Absolute quantizes an absolute quantity to 2 decimal places,
// half-to-even.
func Absolute(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(AbsolutePlaces)
}

// Positive reports whether d is strictly greater than zero.
func Positive(d decimal.Decimal) bool {
	return d.IsPositive()
}
