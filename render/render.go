// Package render defines the drawing surface trajectories are rendered onto.
// Surfaces receive strictly sequential calls; none of them lock.
package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/dashmap/params"
)

// Surface receives draw calls for one rendering session and persists the result on Export.
type Surface interface {
	DrawPolyline(p Polyline) error
	DrawMarker(m Marker) error
	AddAnimatedLayer(layer AnimatedLayer) error

	// FitBounds asks the view to show every point in points.
	FitBounds(points orb.MultiPoint) error

	// Export persists the rendered view to dest.
	Export(dest string) error
}

// Polyline is one colored path segment.
// Points are orb points (lon, lat); surfaces swap axes as their format requires.
type Polyline struct {
	Points  orb.LineString
	Color   string
	Weight  float64
	Opacity float64
	Tooltip string

	// Speed is the numeric value the color was derived from.
	Speed float64
}

// MarkerStyle describes a circle marker.
type MarkerStyle struct {
	Radius      float64
	Color       string
	Fill        bool
	FillOpacity float64
}

// Marker is a circle marker at a point.
type Marker struct {
	Point   orb.Point
	Tooltip string
	Style   MarkerStyle
}

// AnimatedLayer is a collection of timestamped point features played back over time.
// Each feature carries "time", "popup" and "icon" properties.
type AnimatedLayer struct {
	Features *geojson.FeatureCollection
	Playback params.PlaybackConfig
}
