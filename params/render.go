package params

import (
	"errors"
	"fmt"

	"github.com/rotblauer/dashmap/common"
)

// RenderConfig drives the trajectory drawing.
type RenderConfig struct {
	// WindowSize is the number of consecutive points each colored segment spans.
	// Consecutive windows overlap by WindowSize-1 points.
	WindowSize int

	// WaypointInterval places a waypoint marker on every Nth point, starting at the first.
	WaypointInterval int

	SegmentWeight  float64
	SegmentOpacity float64

	WaypointRadius      float64
	WaypointColor       string
	WaypointFillOpacity float64

	// SpeedUnit is the unit sample speeds are expressed in, used for labels.
	SpeedUnit string
}

var DefaultRenderConfig = &RenderConfig{
	WindowSize:          5,
	WaypointInterval:    200,
	SegmentWeight:       2.5,
	SegmentOpacity:      1,
	WaypointRadius:      5,
	WaypointColor:       "yellow",
	WaypointFillOpacity: 1,
	SpeedUnit:           common.SpeedUnitMph,
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *RenderConfig) Validate() error {
	if err := c.ValidateWindow(); err != nil {
		return err
	}
	if c.WaypointInterval < 1 {
		return fmt.Errorf("%w: waypoint interval must be positive, got %d", ErrInvalidConfig, c.WaypointInterval)
	}
	switch c.SpeedUnit {
	case common.SpeedUnitMph, common.SpeedUnitKmh:
	default:
		return fmt.Errorf("%w: unknown speed unit %q", ErrInvalidConfig, c.SpeedUnit)
	}
	return nil
}

// ValidateWindow checks the segment window alone.
// A segment needs at least two points.
func (c *RenderConfig) ValidateWindow() error {
	if c.WindowSize < 2 {
		return fmt.Errorf("%w: window size must be at least 2, got %d", ErrInvalidConfig, c.WindowSize)
	}
	return nil
}

// PlaybackConfig configures the timestamped animation layer.
// Period and Duration are ISO 8601 durations.
type PlaybackConfig struct {
	Period               string
	Duration             string
	AddLastPoint         bool
	MinSpeed             float64
	MaxSpeed             float64
	TransitionTimeMillis int
	TimeSliderDragUpdate bool
	Loop                 bool
	AutoPlay             bool

	Icon     string
	IconID   string
	IconURL  string
	IconSize [2]int
}

// DefaultPlaybackConfig shows one keyframe per second, each vanishing as the next appears.
var DefaultPlaybackConfig = &PlaybackConfig{
	Period:               "PT1S",
	Duration:             "PT0S",
	AddLastPoint:         false,
	MinSpeed:             0.1,
	MaxSpeed:             10,
	TransitionTimeMillis: 1000,
	TimeSliderDragUpdate: true,
	Loop:                 true,
	AutoPlay:             true,
	Icon:                 "marker",
	IconID:               "vehicle",
	IconURL:              "https://cdn.icon-icons.com/icons2/3249/PNG/512/vehicle_car_filled_icon_199629.png",
	IconSize:             [2]int{20, 20},
}
