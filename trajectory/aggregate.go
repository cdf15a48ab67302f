package trajectory

import (
	"github.com/paulmach/orb"
	"github.com/rotblauer/dashmap/types/sample"
)

// Aggregate accumulates every accepted point and sample of one rendering session,
// across all sources, in processing order.
// Points[i] is the position of Samples[i].
type Aggregate struct {
	points  orb.MultiPoint
	samples []sample.Sample
}

func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// Points returns the accumulated points. The slice must not be modified.
func (a *Aggregate) Points() orb.MultiPoint {
	return a.points
}

// Samples returns the accumulated samples. The slice must not be modified.
func (a *Aggregate) Samples() []sample.Sample {
	return a.samples
}

func (a *Aggregate) Len() int {
	return len(a.samples)
}

func (a *Aggregate) IsEmpty() bool {
	return a == nil || len(a.samples) == 0
}

// Bound returns the bounding box of all accumulated points.
func (a *Aggregate) Bound() orb.Bound {
	return a.points.Bound()
}

func (a *Aggregate) append(points []orb.Point, samples []sample.Sample) {
	a.points = append(a.points, points...)
	a.samples = append(a.samples, samples...)
}
