package common

import (
	"math"

	"github.com/shopspring/decimal"
)

// GPSPrecision5 decimal degree places resolve about 1.11 m at the equator,
// individual trees and houses.
// https://en.wikipedia.org/wiki/Decimal_degrees
const GPSPrecision5 = 5

// SpeedPrecision is the number of decimal places speeds are kept to.
const SpeedPrecision = 2

// DecimalToFixed rounds num half away from zero to precision decimal places.
// Rounding happens on the decimal representation, so 1.005 rounds to 1.01.
// NaN and infinities are returned unchanged.
func DecimalToFixed(num float64, precision int) float64 {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return num
	}
	f, _ := decimal.NewFromFloat(num).Round(int32(precision)).Float64()
	return f
}
