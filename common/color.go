package common

import "fmt"

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B int
}

var (
	ColorSlow = RGB{0, 255, 0}
	ColorFast = RGB{255, 0, 0}
)

// Hex renders the color as #rrggbb.
// Channels are limited to [0,255] so the encoding stays six digits wide.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// SpeedProportion returns where speed sits between min and max,
// 0 at min and 1 at max. A degenerate range yields 0.
// Speeds outside the range are extrapolated, not clamped.
func SpeedProportion(speed, min, max float64) float64 {
	if max == min {
		return 0
	}
	return (speed - min) / (max - min)
}

// SpeedToRGB maps a speed onto the slow->fast gradient.
// The proportion is squared first, so most of the range stays green
// and red is reserved for the top of it.
// Each channel shift is truncated toward zero.
func SpeedToRGB(speed, min, max float64) RGB {
	p := SpeedProportion(speed, min, max)
	skew := p * p
	return RGB{
		R: ColorSlow.R + int(float64(ColorFast.R-ColorSlow.R)*skew),
		G: ColorSlow.G + int(float64(ColorFast.G-ColorSlow.G)*skew),
		B: ColorSlow.B + int(float64(ColorFast.B-ColorSlow.B)*skew),
	}
}

// SpeedToColor maps a speed to a #rrggbb color, green at min, red at max.
func SpeedToColor(speed, min, max float64) string {
	return SpeedToRGB(speed, min, max).Hex()
}
