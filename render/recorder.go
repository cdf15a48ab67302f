package render

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Recorder is a Surface that keeps every call in memory.
// Exports are recorded, not written.
type Recorder struct {
	Polylines []Polyline
	Markers   []Marker
	Layers    []AnimatedLayer
	Fits      []orb.MultiPoint
	Exports   []string

	// FailExport, when set, is returned by Export.
	FailExport error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) DrawPolyline(p Polyline) error {
	r.Polylines = append(r.Polylines, p)
	return nil
}

func (r *Recorder) DrawMarker(m Marker) error {
	r.Markers = append(r.Markers, m)
	return nil
}

func (r *Recorder) AddAnimatedLayer(layer AnimatedLayer) error {
	r.Layers = append(r.Layers, layer)
	return nil
}

// FitBounds records a copy of points; callers may keep appending to theirs.
func (r *Recorder) FitBounds(points orb.MultiPoint) error {
	cp := make(orb.MultiPoint, len(points))
	copy(cp, points)
	r.Fits = append(r.Fits, cp)
	return nil
}

func (r *Recorder) Export(dest string) error {
	if r.FailExport != nil {
		return fmt.Errorf("export %s: %w", dest, r.FailExport)
	}
	r.Exports = append(r.Exports, dest)
	return nil
}

// LastFit returns the most recent FitBounds argument, or nil.
func (r *Recorder) LastFit() orb.MultiPoint {
	if len(r.Fits) == 0 {
		return nil
	}
	return r.Fits[len(r.Fits)-1]
}
