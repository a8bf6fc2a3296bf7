package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// MinIncrement is the fixed minimum raise over the current bid,
// in whole currency units.
const MinIncrement = 1

// IsValidAmount reports whether v is a finite, positive amount with at
// most two decimal places.
func IsValidAmount(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return false
	}
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2))
}

// MinimumRaise returns the smallest acceptable bid over current.
func MinimumRaise(current float64) float64 {
	raised, _ := decimal.NewFromFloat(current).Add(decimal.NewFromInt(MinIncrement)).Float64()
	return raised
}

// GreaterThan compares two amounts at 2-decimal precision.
func GreaterThan(a, b float64) bool {
	return decimal.NewFromFloat(a).GreaterThan(decimal.NewFromFloat(b))
}

// GreaterThanOrEqual compares two amounts at 2-decimal precision.
func GreaterThanOrEqual(a, b float64) bool {
	return decimal.NewFromFloat(a).GreaterThanOrEqual(decimal.NewFromFloat(b))
}
