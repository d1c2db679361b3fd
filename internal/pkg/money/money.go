// Package money holds the rounding and comparison rules shared by every
// payroll calculation. Amounts are shopspring decimals rounded to the cent.
package money

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	half    = decimal.RequireFromString("0.5")
)

// Round2 rounds half-up on the cent, toward positive infinity on a tie.
// Formula components can be negative, so -0.005 becomes 0.00, not -0.01.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}

// Percent returns round2(pct/100 * base).
func Percent(pct, base decimal.Decimal) decimal.Decimal {
	return Round2(pct.Div(hundred).Mul(base))
}

// Annualize multiplies a monthly figure by 12.
func Annualize(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(twelve)
}

// Monthly divides an annual figure by 12 and rounds to the cent.
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return Round2(annual.Div(twelve))
}

// WithinTolerance reports |a-b| <= 0.5, the rounding slack allowed between
// independently prorated figures that must add up.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(half)
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Min returns the smaller amount.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
