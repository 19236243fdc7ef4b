// Package money holds the single currency-rounding convention used by the
// bot. All money values round to 2 decimal places at computation boundaries,
// not at display time, so stored and recomputed figures never drift.
package money

import "github.com/shopspring/decimal"

// Round2 rounds a currency amount to cents, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
