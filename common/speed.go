package common

// Dashcams and exiftool report speed in km/h.
// Maps render in mph unless configured otherwise.

const KmhToMph = 0.621371
const MpsToKmh = 3.6

const SpeedUnitMph = "mph"
const SpeedUnitKmh = "km/h"

// SpeedFactor returns the factor converting km/h into the given unit.
// Unknown units leave speeds untouched.
func SpeedFactor(unit string) float64 {
	switch unit {
	case SpeedUnitMph:
		return KmhToMph
	default:
		return 1
	}
}
