package utils

import (
	"github.com/shopspring/decimal"
)

// Parse string, fallback to zero on error
func ParseDecimalSafe(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundFloat rounds half away from zero at the given number of decimal places.
// NaN and Inf are returned as 0.
func RoundFloat(val float64, places int32) float64 {
	if !IsFinite(val) {
		return 0
	}
	return decimal.NewFromFloat(val).Round(places).InexactFloat64()
}
