package sample

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// From a Nextbase dashcam, exiftool -ee -n, keys normalized.
var rawNextbase = map[string]string{
	"GPSAltitude":  "110.2",
	"GPSDateTime":  "2024:11:08 12:38:33.900Z",
	"GPSLatitude":  "53.6068471666667",
	"GPSLongitude": "-1.78887966666667",
	"GPSSpeed":     "44.751728",
	"GPSTrack":     "346.14",
}

func TestParse(t *testing.T) {
	s, err := Parse(rawNextbase)
	require.NoError(t, err)
	assert.Equal(t, 53.6068471666667, s.Latitude)
	assert.Equal(t, -1.78887966666667, s.Longitude)
	assert.Equal(t, 110.2, s.Altitude)
	assert.Equal(t, 44.75, s.Speed)
	assert.Equal(t, 346.14, s.Heading)
	assert.Equal(t, "2024:11:08 12:38:33.900Z", s.Timestamp)
}

func TestParse_SpeedFactor(t *testing.T) {
	s, err := Parse(rawNextbase, WithSpeedFactor(0.621371))
	require.NoError(t, err)
	// 44.751728 * 0.621371 = 27.8073...
	assert.Equal(t, 27.81, s.Speed)
}

func TestParse_MissingKeys(t *testing.T) {
	for _, k := range RequiredKeys {
		raw := map[string]string{}
		for kk, v := range rawNextbase {
			if kk != k {
				raw[kk] = v
			}
		}
		_, err := Parse(raw)
		if !errors.Is(err, ErrParse) {
			t.Errorf("missing %s: expected ErrParse, got %v", k, err)
			continue
		}
		var pf *ParseFailure
		if !errors.As(err, &pf) || pf.Field != k {
			t.Errorf("missing %s: expected failure on field %s, got %v", k, k, err)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		KeyLatitude: "53 deg 36' 24.65\" N",
		KeySpeed:    "",
		KeyHeading:  "north",
	}
	for k, v := range cases {
		raw := NormalizeFields(rawNextbase)
		raw[k] = v
		if _, err := Parse(raw); !errors.Is(err, ErrParse) {
			t.Errorf("%s=%q: expected ErrParse, got %v", k, v, err)
		}
	}
}

func TestParse_OutOfRange(t *testing.T) {
	for k, v := range map[string]string{
		KeyLatitude:  "91",
		KeyLongitude: "-180.5",
		KeySpeed:     "-1",
	} {
		raw := NormalizeFields(rawNextbase)
		raw[k] = v
		_, err := Parse(raw)
		require.ErrorIs(t, err, ErrParse, "%s=%s", k, v)
	}
}

func TestParse_NonFinite(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{KeyHeading, "NaN"},
		{KeyAltitude, "NaN"},
		{KeyAltitude, "+Inf"},
		{KeySpeed, "Inf"},
		{KeyLatitude, "NaN"},
	}
	for _, c := range cases {
		raw := NormalizeFields(rawNextbase)
		raw[c.key] = c.value
		_, err := Parse(raw)
		require.ErrorIs(t, err, ErrParse, "%s=%s", c.key, c.value)
		var pf *ParseFailure
		require.ErrorAs(t, err, &pf)
		assert.Equal(t, c.key, pf.Field)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	s, err := Parse(rawNextbase, WithSpeedFactor(0.621371))
	require.NoError(t, err)
	again, err := Parse(s.Fields())
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestNormalizeKey(t *testing.T) {
	for in, want := range map[string]string{
		"GPS Date/Time":             KeyTimestamp,
		"GPSDate/Time":              KeyTimestamp,
		"GPSDate_Time":              KeyTimestamp,
		" GPS Latitude ":            KeyLatitude,
		"[QuickTime]     GPS Speed": KeySpeed,
		"GPS Track":                 KeyHeading,
		"GPS Elevation":             KeyAltitude,
		"GPS Satellites":            "GPSSatellites",
	} {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFeature_RoundTrip(t *testing.T) {
	s, err := Parse(rawNextbase)
	require.NoError(t, err)
	f := s.Feature()
	assert.Equal(t, "2024-11-08T12:38:33", f.Properties[PropTime])
	again, err := FromFeature(f)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}
