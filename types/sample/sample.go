package sample

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb"
	"github.com/rotblauer/dashmap/common"
)

// Canonical raw field names, as exiftool labels them once whitespace is removed.
const (
	KeyLatitude  = "GPSLatitude"
	KeyLongitude = "GPSLongitude"
	KeyAltitude  = "GPSAltitude"
	KeySpeed     = "GPSSpeed"
	KeyHeading   = "GPSTrack"
	KeyTimestamp = "GPSDateTime"
)

// RequiredKeys lists the raw fields a sample cannot be built without, in check order.
var RequiredKeys = []string{KeyLatitude, KeyLongitude, KeyAltitude, KeySpeed, KeyHeading, KeyTimestamp}

var (
	// ErrParse is wrapped by every ParseFailure.
	// A parse failure drops one sample; it never stops a source.
	ErrParse = errors.New("unparseable gps sample")

	// ErrFormat reports a timestamp that does not look like a dashcam timestamp.
	// It indicates upstream corruption and is not recovered.
	ErrFormat = errors.New("malformed gps timestamp")
)

// ParseFailure describes why one raw sample was rejected.
type ParseFailure struct {
	Field  string
	Reason string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrParse, e.Field, e.Reason)
}

func (e *ParseFailure) Unwrap() error {
	return ErrParse
}

// Sample is one timestamped GPS reading.
// Speed is in whatever unit the sample was parsed into (mph by default).
// Timestamp is kept in its source form, "2006:01:02 15:04:05.000000Z";
// use Time or FormatTimestamp to interpret it.
type Sample struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Altitude  float64 `json:"altitude"`
	Speed     float64 `json:"speed" validate:"gte=0"`
	Heading   float64 `json:"heading"`
	Timestamp string  `json:"timestamp"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type parseOptions struct {
	speedFactor float64
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithSpeedFactor multiplies the raw speed by factor before rounding,
// eg. common.KmhToMph.
func WithSpeedFactor(factor float64) ParseOption {
	return func(o *parseOptions) {
		o.speedFactor = factor
	}
}

// Parse builds a Sample from a raw field mapping keyed by the canonical Key* names.
// Callers normalize loosely named keys with NormalizeKey first.
// Any missing required key, unparseable number, or out-of-range value
// yields a *ParseFailure wrapping ErrParse.
// Speed is converted by the optional factor and rounded to 2 decimal places.
func Parse(raw map[string]string, opts ...ParseOption) (Sample, error) {
	o := parseOptions{speedFactor: 1}
	for _, opt := range opts {
		opt(&o)
	}
	for _, k := range RequiredKeys {
		if _, ok := raw[k]; !ok {
			return Sample{}, &ParseFailure{Field: k, Reason: "missing"}
		}
	}

	floats := make(map[string]float64, 5)
	for _, k := range RequiredKeys[:5] {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw[k]), 64)
		if err != nil {
			return Sample{}, &ParseFailure{Field: k, Reason: fmt.Sprintf("not a number: %q", raw[k])}
		}
		floats[k] = v
	}

	return New(
		floats[KeyLatitude],
		floats[KeyLongitude],
		floats[KeyAltitude],
		RoundSpeed(floats[KeySpeed]*o.speedFactor),
		floats[KeyHeading],
		strings.TrimSpace(raw[KeyTimestamp]),
	)
}

// New constructs a Sample from already-typed values and validates it.
// Every numeric field must be finite.
func New(lat, lon, alt, speed, heading float64, timestamp string) (Sample, error) {
	s := Sample{
		Latitude:  lat,
		Longitude: lon,
		Altitude:  alt,
		Speed:     speed,
		Heading:   heading,
		Timestamp: timestamp,
	}
	if timestamp == "" {
		return Sample{}, &ParseFailure{Field: KeyTimestamp, Reason: "empty"}
	}
	for field, v := range map[string]float64{
		KeyLatitude:  lat,
		KeyLongitude: lon,
		KeyAltitude:  alt,
		KeySpeed:     speed,
		KeyHeading:   heading,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, &ParseFailure{Field: field, Reason: fmt.Sprintf("not finite: %v", v)}
		}
	}
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return Sample{}, &ParseFailure{
				Field:  fe.Field(),
				Reason: fmt.Sprintf("%v violates %s=%s", fe.Value(), fe.Tag(), fe.Param()),
			}
		}
		return Sample{}, &ParseFailure{Field: "sample", Reason: err.Error()}
	}
	return s, nil
}

// RoundSpeed rounds a speed to 2 decimal places.
func RoundSpeed(v float64) float64 {
	return common.DecimalToFixed(v, common.SpeedPrecision)
}

// Fields serializes the sample back into a canonical raw mapping.
// Parse(s.Fields()) yields s again.
func (s Sample) Fields() map[string]string {
	return map[string]string{
		KeyLatitude:  strconv.FormatFloat(s.Latitude, 'f', -1, 64),
		KeyLongitude: strconv.FormatFloat(s.Longitude, 'f', -1, 64),
		KeyAltitude:  strconv.FormatFloat(s.Altitude, 'f', -1, 64),
		KeySpeed:     strconv.FormatFloat(s.Speed, 'f', -1, 64),
		KeyHeading:   strconv.FormatFloat(s.Heading, 'f', -1, 64),
		KeyTimestamp: s.Timestamp,
	}
}

// Point returns the sample position as an orb point (lon, lat).
func (s Sample) Point() orb.Point {
	return orb.Point{s.Longitude, s.Latitude}
}

// Complete reports whether the fields needed to draw the sample are usable.
func (s Sample) Complete() bool {
	return s.Timestamp != "" &&
		s.Latitude == s.Latitude && s.Longitude == s.Longitude && s.Speed == s.Speed // NaN
}

func (s Sample) String() string {
	return fmt.Sprintf("%s [%v,%v] %.2f",
		s.Timestamp,
		common.DecimalToFixed(s.Latitude, common.GPSPrecision5),
		common.DecimalToFixed(s.Longitude, common.GPSPrecision5),
		s.Speed,
	)
}
