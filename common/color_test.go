package common

import (
	"strconv"
	"testing"
)

func TestSpeedToColor_Endpoints(t *testing.T) {
	cases := []struct {
		speed, min, max float64
		want            string
	}{
		{30, 30, 60, "#00ff00"},
		{60, 30, 60, "#ff0000"},
		{0, 0, 1, "#00ff00"},
		{1, 0, 1, "#ff0000"},
		// p=0.5, skewed 0.25: 255*0.25=63.75 -> 63
		{45, 30, 60, "#3fc000"},
	}
	for _, c := range cases {
		if got := SpeedToColor(c.speed, c.min, c.max); got != c.want {
			t.Errorf("SpeedToColor(%v, %v, %v) = %s, want %s", c.speed, c.min, c.max, got, c.want)
		}
	}
}

func TestSpeedToColor_DegenerateRange(t *testing.T) {
	for _, s := range []float64{-10, 0, 42, 1e6} {
		if got := SpeedToColor(s, 42, 42); got != "#00ff00" {
			t.Errorf("SpeedToColor(%v, 42, 42) = %s, want #00ff00", s, got)
		}
	}
}

func TestSpeedToColor_Monotonic(t *testing.T) {
	min, max := 12.5, 71.3
	lastRed, lastGreen := -1, 256
	for i := 0; i <= 1000; i++ {
		s := min + (max-min)*float64(i)/1000
		c := SpeedToRGB(s, min, max)
		if c.R < lastRed {
			t.Fatalf("red decreased at speed=%v: %d < %d", s, c.R, lastRed)
		}
		if c.G > lastGreen {
			t.Fatalf("green increased at speed=%v: %d > %d", s, c.G, lastGreen)
		}
		if c.B != 0 {
			t.Fatalf("blue=%d at speed=%v", c.B, s)
		}
		lastRed, lastGreen = c.R, c.G
	}
}

func TestSpeedToColor_Truncates(t *testing.T) {
	// p=0.9, skewed 0.81: 255*0.81=206.55 -> 206 (0xce), 255-206=49 (0x31)
	got := SpeedToColor(0.9, 0, 1)
	if got != "#ce3100" {
		t.Errorf("got %s, want #ce3100", got)
	}
}

func TestSpeedToRGB_Extrapolates(t *testing.T) {
	c := SpeedToRGB(2, 0, 1)
	if c.R != 255*4 {
		t.Errorf("expected extrapolated red channel %d, got %d", 255*4, c.R)
	}
	if hex := c.Hex(); len(hex) != 7 {
		t.Errorf("hex encoding not six digits: %s", hex)
	}
}

func TestSpeedFactor(t *testing.T) {
	if f := SpeedFactor(SpeedUnitMph); strconv.FormatFloat(f, 'f', -1, 64) != "0.621371" {
		t.Errorf("unexpected mph factor %v", f)
	}
	if f := SpeedFactor(SpeedUnitKmh); f != 1 {
		t.Errorf("unexpected km/h factor %v", f)
	}
}
