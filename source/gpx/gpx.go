// Package gpx reads and writes GPS samples as GPX tracks.
package gpx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/dashmap/common"
	"github.com/rotblauer/dashmap/types/sample"
	"github.com/tkrajina/gpxgo/gpx"
)

// File is a source.Handle for a GPX file.
// Every track segment point becomes a sample, in file order.
// GPX carries no speed or heading, so both are derived from neighboring points.
type File struct {
	Path string

	// SpeedFactor converts km/h into the map's unit.
	SpeedFactor float64

	dropped int
}

func NewFile(path string, speedFactor float64) *File {
	return &File{Path: path, SpeedFactor: speedFactor}
}

func (f *File) Name() string {
	return f.Path
}

func (f *File) Dropped() int {
	return f.dropped
}

func (f *File) Samples(ctx context.Context) ([]sample.Sample, error) {
	g, err := gpx.ParseFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("parse gpx %s: %w", f.Path, err)
	}
	factor := f.SpeedFactor
	if factor == 0 {
		factor = 1
	}
	var out []sample.Sample
	f.dropped = 0
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			samples, dropped := segmentSamples(seg.Points, factor)
			out = append(out, samples...)
			f.dropped += dropped
		}
	}
	if f.dropped > 0 {
		slog.Warn("Dropped GPX points", "source", f.Path, "dropped", f.dropped, "kept", len(out))
	}
	return out, nil
}

// segmentSamples converts one segment's points.
// Speed and heading at point i are taken from the leg i->i+1,
// and the last point reuses the leg before it.
func segmentSamples(points []gpx.GPXPoint, factor float64) (out []sample.Sample, dropped int) {
	for i := range points {
		pt := points[i]
		if pt.Timestamp.IsZero() {
			dropped++
			continue
		}
		var speed, heading float64
		if len(points) > 1 {
			a, b := i, i+1
			if b == len(points) {
				a, b = i-1, i
			}
			speed, heading = leg(points[a], points[b])
		}
		alt := 0.0
		if pt.Elevation.NotNull() {
			alt = pt.Elevation.Value()
		}
		s, err := sample.New(
			pt.Latitude,
			pt.Longitude,
			alt,
			sample.RoundSpeed(speed*common.MpsToKmh*factor),
			heading,
			sample.SourceTimestamp(pt.Timestamp),
		)
		if err != nil {
			slog.Debug("Dropping GPX point", "index", i, "error", err)
			dropped++
			continue
		}
		out = append(out, s)
	}
	return out, dropped
}

// leg returns the speed (m/s) and bearing (degrees, [0,360)) from a to b.
func leg(a, b gpx.GPXPoint) (speed, heading float64) {
	pa := orb.Point{a.Longitude, a.Latitude}
	pb := orb.Point{b.Longitude, b.Latitude}
	dt := b.Timestamp.Sub(a.Timestamp).Seconds()
	if dt > 0 {
		speed = geo.Distance(pa, pb) / dt
	}
	heading = math.Mod(geo.Bearing(pa, pb)+360, 360)
	return speed, heading
}

// Encode renders samples as a single-track GPX 1.1 document.
func Encode(name string, samples []sample.Sample) ([]byte, error) {
	seg := gpx.GPXTrackSegment{}
	for i, s := range samples {
		t, err := s.Time()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		pt := gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  s.Latitude,
				Longitude: s.Longitude,
				Elevation: *gpx.NewNullableFloat64(s.Altitude),
			},
			Timestamp: t.Truncate(time.Second),
		}
		seg.Points = append(seg.Points, pt)
	}
	g := &gpx.GPX{
		Version: "1.1",
		Creator: "dashmap",
		Tracks: []gpx.GPXTrack{{
			Name:     name,
			Segments: []gpx.GPXTrackSegment{seg},
		}},
	}
	return g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
}
