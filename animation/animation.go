// Package animation turns a session's accumulated samples into a timestamped
// GeoJSON layer: one keyframe per distinct second, played back in order.
package animation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/dashmap/params"
	"github.com/rotblauer/dashmap/render"
	"github.com/rotblauer/dashmap/trajectory"
	"github.com/rotblauer/dashmap/types/sample"
)

// Keyframe is one dated position of the animated marker.
type Keyframe struct {
	// Position is (lon, lat), the GeoJSON axis order.
	Position orb.Point
	Time     string
	Label    string
	Speed    float64
}

// Build maps samples to keyframes, keeping at most one per second.
// A sample is kept if it is the first, or if its formatted timestamp differs
// from the previous kept keyframe's.
// Samples must be in non-decreasing time order; they are not sorted here,
// so unordered input may repeat seconds.
// An empty input fails with trajectory.ErrMissingData.
// A malformed timestamp fails with sample.ErrFormat.
func Build(samples []sample.Sample, unit string) ([]Keyframe, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: nothing to animate, process a source first", trajectory.ErrMissingData)
	}
	out := make([]Keyframe, 0, len(samples))
	for i, s := range samples {
		ts, err := sample.FormatTimestamp(s.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if len(out) > 0 && out[len(out)-1].Time == ts {
			continue
		}
		out = append(out, Keyframe{
			Position: s.Point(),
			Time:     ts,
			Label:    SpeedLabel(s.Speed, unit),
			Speed:    s.Speed,
		})
	}
	return out, nil
}

// SpeedLabel formats a speed for a keyframe popup, eg. "Speed: 27.81 mph".
// Whole speeds keep one decimal place, "Speed: 30.0 mph".
func SpeedLabel(speed float64, unit string) string {
	v := strconv.FormatFloat(speed, 'f', -1, 64)
	if !strings.ContainsAny(v, ".NI") {
		v += ".0"
	}
	return fmt.Sprintf("Speed: %s %s", v, unit)
}

// Features returns the keyframes as a GeoJSON feature collection,
// each point feature carrying time, popup and icon properties.
func Features(keyframes []Keyframe, playback *params.PlaybackConfig) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, kf := range keyframes {
		f := geojson.NewFeature(kf.Position)
		f.Properties["time"] = kf.Time
		f.Properties["popup"] = kf.Label
		f.Properties["id"] = playback.IconID
		f.Properties["icon"] = playback.Icon
		f.Properties["iconstyle"] = map[string]interface{}{
			"iconUrl":  playback.IconURL,
			"iconSize": []int{playback.IconSize[0], playback.IconSize[1]},
		}
		fc.Append(f)
	}
	return fc
}

// Layer builds the animated layer for keyframes.
func Layer(keyframes []Keyframe, playback *params.PlaybackConfig) render.AnimatedLayer {
	if playback == nil {
		playback = params.DefaultPlaybackConfig
	}
	return render.AnimatedLayer{
		Features: Features(keyframes, playback),
		Playback: *playback,
	}
}

// Animate rebuilds the keyframes from everything in agg and registers
// them on surface as a single animated layer.
func Animate(agg *trajectory.Aggregate, surface render.Surface, unit string, playback *params.PlaybackConfig) ([]Keyframe, error) {
	var samples []sample.Sample
	if agg != nil {
		samples = agg.Samples()
	}
	keyframes, err := Build(samples, unit)
	if err != nil {
		return nil, err
	}
	if err := surface.AddAnimatedLayer(Layer(keyframes, playback)); err != nil {
		return nil, fmt.Errorf("add animated layer: %w", err)
	}
	return keyframes, nil
}
