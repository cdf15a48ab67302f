// Package trajectory draws one source's GPS samples as speed-colored path segments
// and accumulates them into a session-wide Aggregate.
package trajectory

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/dashmap/common"
	"github.com/rotblauer/dashmap/params"
	"github.com/rotblauer/dashmap/render"
	"github.com/rotblauer/dashmap/types/sample"
)

// ErrMissingData reports a source, or a whole session, without usable samples.
var ErrMissingData = errors.New("missing gps data")

// Processor draws sources onto a surface and appends them to an aggregate.
// A Processor is not safe for concurrent use; sources are processed one at a time.
type Processor struct {
	Config    *params.RenderConfig
	Surface   render.Surface
	Aggregate *Aggregate

	logger *slog.Logger
}

// NewProcessor returns a Processor with the default render config when config is nil.
func NewProcessor(surface render.Surface, agg *Aggregate, config *params.RenderConfig) *Processor {
	if config == nil {
		config = params.DefaultRenderConfig
	}
	return &Processor{
		Config:    config,
		Surface:   surface,
		Aggregate: agg,
		logger:    slog.Default().With("component", "trajectory"),
	}
}

// Result summarizes one Process call.
type Result struct {
	Points    int
	Segments  int
	Waypoints int
	MinSpeed  float64
	MaxSpeed  float64

	// Distance is the geodesic path length in meters.
	Distance float64
}

// Process draws one source's samples, in order.
//
// It fails with ErrMissingData, leaving the aggregate and surface untouched,
// when samples is empty or any sample is incomplete, and with sample.ErrFormat
// when any timestamp is malformed. A window shorter than two points fails
// with params.ErrInvalidConfig before anything is read.
//
// Each run of WindowSize consecutive points is drawn as one segment colored by its
// mean speed, relative to this source's own min and max speed. Fewer points than
// WindowSize draws no segments. Every WaypointInterval-th point gets a waypoint
// marker. Finally the points and samples are appended to the aggregate and the
// surface is fit to everything accumulated so far.
func (p *Processor) Process(samples []sample.Sample) (*Result, error) {
	if err := p.Config.ValidateWindow(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrMissingData)
	}
	for i, s := range samples {
		if !s.Complete() {
			return nil, fmt.Errorf("%w: sample %d is missing required fields", ErrMissingData, i)
		}
	}

	// Format timestamps up front so a bad one aborts before anything is drawn.
	displayTimes := make([]string, len(samples))
	for i, s := range samples {
		ts, err := sample.FormatTimestamp(s.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		displayTimes[i] = ts
	}

	points := make([]orb.Point, len(samples))
	speeds := make(stats.Float64Data, len(samples))
	for i, s := range samples {
		points[i] = s.Point()
		speeds[i] = s.Speed
	}
	minSpeed, _ := speeds.Min()
	maxSpeed, _ := speeds.Max()

	res := &Result{
		Points:   len(points),
		MinSpeed: minSpeed,
		MaxSpeed: maxSpeed,
		Distance: geo.Length(orb.LineString(points)),
	}

	window := p.Config.WindowSize
	for i := 0; i+window <= len(points); i++ {
		mean, err := speeds[i : i+window].Mean()
		if err != nil {
			return nil, err
		}
		segment := make(orb.LineString, window)
		copy(segment, points[i:i+window])
		err = p.Surface.DrawPolyline(render.Polyline{
			Points:  segment,
			Color:   common.SpeedToColor(mean, minSpeed, maxSpeed),
			Weight:  p.Config.SegmentWeight,
			Opacity: p.Config.SegmentOpacity,
			Tooltip: strconv.FormatFloat(mean, 'f', -1, 64),
			Speed:   mean,
		})
		if err != nil {
			return nil, fmt.Errorf("draw segment %d: %w", i, err)
		}
		res.Segments++
	}

	if interval := p.Config.WaypointInterval; interval > 0 {
		for i := 0; i < len(points); i += interval {
			err := p.Surface.DrawMarker(render.Marker{
				Point:   points[i],
				Tooltip: "Time: " + displayTimes[i],
				Style: render.MarkerStyle{
					Radius:      p.Config.WaypointRadius,
					Color:       p.Config.WaypointColor,
					Fill:        true,
					FillOpacity: p.Config.WaypointFillOpacity,
				},
			})
			if err != nil {
				return nil, fmt.Errorf("draw waypoint %d: %w", i, err)
			}
			res.Waypoints++
		}
	}

	p.Aggregate.append(points, samples)

	if err := p.Surface.FitBounds(p.Aggregate.Points()); err != nil {
		return nil, fmt.Errorf("fit bounds: %w", err)
	}

	p.logger.Debug("Processed samples",
		"points", res.Points,
		"segments", res.Segments,
		"waypoints", res.Waypoints,
		"speed.min", minSpeed,
		"speed.max", maxSpeed,
		"aggregate", p.Aggregate.Len())
	return res, nil
}
