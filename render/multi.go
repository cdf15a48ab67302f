package render

import (
	"errors"

	"github.com/paulmach/orb"
)

// Multi fans every call out to each surface in order.
// All surfaces are called even if one fails; the errors are joined.
type Multi []Surface

func (m Multi) each(fn func(s Surface) error) error {
	var errs []error
	for _, s := range m {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) DrawPolyline(p Polyline) error {
	return m.each(func(s Surface) error { return s.DrawPolyline(p) })
}

func (m Multi) DrawMarker(mk Marker) error {
	return m.each(func(s Surface) error { return s.DrawMarker(mk) })
}

func (m Multi) AddAnimatedLayer(layer AnimatedLayer) error {
	return m.each(func(s Surface) error { return s.AddAnimatedLayer(layer) })
}

func (m Multi) FitBounds(points orb.MultiPoint) error {
	return m.each(func(s Surface) error { return s.FitBounds(points) })
}

func (m Multi) Export(dest string) error {
	return m.each(func(s Surface) error { return s.Export(dest) })
}
