// Package money provides currency rounding helpers.
package money

import "github.com/shopspring/decimal"

// Round2 rounds an amount to two decimals, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round rounds an amount to the nearest whole currency unit.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(0).Float64()
	return f
}

// Annualize scales an amount billed over periodDays to a full year.
// Returns 0 when periodDays is not positive.
func Annualize(amount float64, periodDays int) float64 {
	if periodDays <= 0 {
		return 0
	}
	d := decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(int64(periodDays))).
		Mul(decimal.NewFromInt(365))
	f, _ := d.Round(0).Float64()
	return f
}
