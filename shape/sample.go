package shape

import (
	"fmt"

	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
	"github.com/npillmayer/curve3d/track"
	"github.com/ungerik/go3d/float64/vec3"
)

// Attributes are the values of all tracks at a point on the curve.
type Attributes struct {
	bezier.PointOnCurve
	Size      float64
	Rotation  float64 // degrees
	Arc       float64 // degrees
	Thickness float64
	Color     track.RGBA
}

func (a Attributes) String() string {
	return fmt.Sprintf("%v size=%.4f rot=%.2f arc=%.2f thick=%.4f color=%s",
		a.PointOnCurve, a.Size, a.Rotation, a.Arc, a.Thickness, a.Color.Hex())
}

// AttributesAt evaluates the curve and every scalar and color track at
// distance d.
func (s *Shape) AttributesAt(d float64) (Attributes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attributesAt(d)
}

func (s *Shape) attributesAt(d float64) (Attributes, error) {
	var a Attributes
	var err error
	if a.PointOnCurve, err = s.curve.PointAtDistance(d); err != nil {
		return a, err
	}
	values := []*float64{&a.Size, &a.Rotation, &a.Arc, &a.Thickness}
	for i, tr := range s.scalars() {
		if *values[i], err = tr.ValueAtDistance(s.curve, d); err != nil {
			return a, fmt.Errorf("track %q: %w", tr.Label(), err)
		}
	}
	if a.Color, err = s.color.ValueAtDistance(s.curve, d); err != nil {
		return a, fmt.Errorf("track %q: %w", s.color.Label(), err)
	}
	return a, nil
}

// CrossSectionPoint maps the point at fraction ∈ [0,1] of the extrusion
// profile at distance d into world space. The profile is scaled by the size
// track and rotated by the rotation track, then placed in the curve's frame.
func (s *Shape) CrossSectionPoint(d, fraction float64) (vec3.T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, err := s.attributesAt(d)
	if err != nil {
		return vec3.T{}, err
	}
	sample, err := s.extrude.SampleCrossSection(s.curve, d, fraction)
	if err != nil {
		return vec3.T{}, err
	}
	m := curve3d.Scaling(a.Size, a.Size).Then(curve3d.Rotation(a.Rotation * curve3d.Deg2Rad))
	return a.Frame.PlaceTransformed(m, curve3d.P(sample.Position[0], sample.Position[1])), nil
}

// Ring returns n points of the outer and the inner rim of a tube section at
// distance d. The rims span the arc track's angle, centered on the rotation
// track's angle; the outer radius is half the size, the inner one is
// smaller by the thickness (but not negative). A full circle does not
// repeat its first point.
func (s *Shape) Ring(d float64, n int) (outer, inner []vec3.T, err error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("%w: ring of %d points", curve3d.ErrOutOfRange, n)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, err := s.attributesAt(d)
	if err != nil {
		return nil, nil, err
	}
	r := a.Size / 2
	ri := max(r-a.Thickness, 0)
	steps := n - 1
	if curve3d.Is0(a.Arc-360) || steps == 0 {
		steps = n
	}
	start := a.Rotation - a.Arc/2
	outer, inner = make([]vec3.T, n), make([]vec3.T, n)
	for i := range n {
		angle := start + a.Arc*float64(i)/float64(steps)
		outer[i] = a.Frame.RingPoint(angle, r)
		inner[i] = a.Frame.RingPoint(angle, ri)
	}
	return outer, inner, nil
}
