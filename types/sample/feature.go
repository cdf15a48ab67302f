package sample

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature property names used when a sample travels as a GeoJSON point feature.
const (
	PropTimestamp = "Timestamp"
	PropTime      = "Time"
	PropSpeed     = "Speed"
	PropElevation = "Elevation"
	PropHeading   = "Heading"
	PropSource    = "Source"
)

// Feature returns the sample as a GeoJSON point feature.
// The Time property is the display timestamp when the source timestamp parses.
func (s Sample) Feature() *geojson.Feature {
	f := geojson.NewFeature(s.Point())
	f.Properties[PropTimestamp] = s.Timestamp
	f.Properties[PropSpeed] = s.Speed
	f.Properties[PropElevation] = s.Altitude
	f.Properties[PropHeading] = s.Heading
	if t, err := s.Time(); err == nil {
		f.Properties[PropTime] = t.Format(DisplayLayout)
	}
	return f
}

// FromFeature reads a sample back from a point feature written by Feature.
func FromFeature(f *geojson.Feature) (Sample, error) {
	if f == nil || f.Geometry == nil {
		return Sample{}, &ParseFailure{Field: "geometry", Reason: "missing"}
	}
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		return Sample{}, &ParseFailure{Field: "geometry", Reason: fmt.Sprintf("not a point: %s", f.Geometry.GeoJSONType())}
	}
	ts := f.Properties.MustString(PropTimestamp, "")
	if ts == "" {
		return Sample{}, &ParseFailure{Field: PropTimestamp, Reason: "missing"}
	}
	speed, ok := f.Properties[PropSpeed].(float64)
	if !ok {
		return Sample{}, &ParseFailure{Field: PropSpeed, Reason: "missing or not a number"}
	}
	return New(
		pt.Lat(),
		pt.Lon(),
		f.Properties.MustFloat64(PropElevation, 0),
		speed,
		f.Properties.MustFloat64(PropHeading, 0),
		ts,
	)
}
