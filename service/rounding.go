package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// roundToCents rounds half away from zero to two decimal places. NaN and
// infinities come back unchanged.
func roundToCents(value float64) float64 {
	if !isFinite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
