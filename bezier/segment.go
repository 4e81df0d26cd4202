package bezier

import (
	"fmt"
	"sort"

	"github.com/npillmayer/curve3d"
	"github.com/ungerik/go3d/float64/vec3"
)

// Cubic is the control polygon of a cubic Bézier arc.
type Cubic [4]vec3.T

// CubicBetween returns the control polygon of the segment from start to end.
func CubicBetween(start, end *ControlPoint) Cubic {
	return Cubic{start.position, start.WorldRight(), end.WorldLeft(), end.position}
}

// Eval evaluates the cubic at time t.
func (c Cubic) Eval(t float64) vec3.T {
	u := 1 - t
	b0, b1, b2, b3 := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	var p vec3.T
	for i := range p {
		p[i] = b0*c[0][i] + b1*c[1][i] + b2*c[2][i] + b3*c[3][i]
	}
	return p
}

// Derivative is the first derivative of the cubic at time t.
func (c Cubic) Derivative(t float64) vec3.T {
	u := 1 - t
	d0, d1, d2 := 3*u*u, 6*u*t, 3*t*t
	var p vec3.T
	for i := range p {
		p[i] = d0*(c[1][i]-c[0][i]) + d1*(c[2][i]-c[1][i]) + d2*(c[3][i]-c[2][i])
	}
	return p
}

// Tangent returns the unit tangent at time t. Where the derivative vanishes
// (coincident handles), the direction is estimated from nearby points or
// from the chord. The flag is false for arcs collapsed to a single point.
func (c Cubic) Tangent(t float64) (vec3.T, bool) {
	if tan, ok := curve3d.Unit(c.Derivative(t)); ok {
		return tan, true
	}
	const h = 1e-3
	lo, hi := curve3d.Clamp(t-h, 0, 1), curve3d.Clamp(t+h, 0, 1)
	if tan, ok := curve3d.Unit(curve3d.SubV(c.Eval(hi), c.Eval(lo))); ok {
		return tan, true
	}
	return curve3d.Unit(curve3d.SubV(c[3], c[0]))
}

// Split divides the cubic at time t (de Casteljau).
func (c Cubic) Split(t float64) (Cubic, Cubic) {
	p01 := curve3d.LerpV(c[0], c[1], t)
	p12 := curve3d.LerpV(c[1], c[2], t)
	p23 := curve3d.LerpV(c[2], c[3], t)
	p012 := curve3d.LerpV(p01, p12, t)
	p123 := curve3d.LerpV(p12, p23, t)
	m := curve3d.LerpV(p012, p123, t)
	return Cubic{c[0], p01, p012, m}, Cubic{m, p123, p23, c[3]}
}

func (c Cubic) String() string {
	return fmt.Sprintf("%s..%s..%s..%s", curve3d.VString(c[0]), curve3d.VString(c[1]),
		curve3d.VString(c[2]), curve3d.VString(c[3]))
}

// --- Segments --------------------------------------------------------------

// Sample is one row of a segment's arc-length table.
type Sample struct {
	Time      float64 // parameter of the sample, i/K
	Length    float64 // arc length from the segment start
	Position  vec3.T
	Tangent   vec3.T // unit tangent
	Reference vec3.T // unit, perpendicular to Tangent; maintained by the curve
}

// Segment is the arc between two consecutive control points, together with
// its arc-length table. Segments are rebuilt by their curve.
type Segment struct {
	cubic   Cubic
	samples []Sample
	length  float64
}

// newSegment creates a segment and builds its table with k steps.
func newSegment(start, end *ControlPoint, k int) *Segment {
	s := &Segment{}
	s.rebuild(start, end, k)
	return s
}

// rebuild re-samples the arc at k+1 equally spaced times, accumulating
// chord lengths.
func (s *Segment) rebuild(start, end *ControlPoint, k int) {
	s.cubic = CubicBetween(start, end)
	if cap(s.samples) < k+1 {
		s.samples = make([]Sample, k+1)
	}
	s.samples = s.samples[:k+1]
	var length float64
	var prev vec3.T
	for i := 0; i <= k; i++ {
		t := float64(i) / float64(k)
		p := s.cubic.Eval(t)
		if i > 0 {
			length += curve3d.Dist(prev, p)
		}
		tan, _ := s.cubic.Tangent(t)
		s.samples[i] = Sample{Time: t, Length: length, Position: p, Tangent: tan}
		prev = p
	}
	s.length = length
}

// Length is the approximate arc length of the segment.
func (s *Segment) Length() float64 {
	return s.length
}

// Cubic returns the control polygon of the segment.
func (s *Segment) Cubic() Cubic {
	return s.cubic
}

// Samples returns the arc-length table. Clients must not modify it.
func (s *Segment) Samples() []Sample {
	return s.samples
}

// TimeAtLength maps an arc length within the segment to a curve parameter,
// interpolating linearly between table rows. Lengths outside [0, Length]
// are an error.
func (s *Segment) TimeAtLength(l float64) (float64, error) {
	if l < -curve3d.Epsilon || l > s.length+curve3d.Epsilon {
		return 0, fmt.Errorf("%w: length %g not in [0,%g]", curve3d.ErrOutOfRange, l, s.length)
	}
	n := len(s.samples)
	i := sort.Search(n, func(i int) bool { return s.samples[i].Length >= l })
	if i == 0 {
		return 0, nil
	}
	if i == n {
		return 1, nil
	}
	lo, hi := s.samples[i-1], s.samples[i]
	piece := hi.Length - lo.Length
	if piece <= 0 {
		return hi.Time, nil
	}
	return curve3d.Lerp(lo.Time, hi.Time, (l-lo.Length)/piece), nil
}

// LengthAtTime maps a curve parameter to an arc length within the segment.
// Times outside [0,1] are an error.
func (s *Segment) LengthAtTime(t float64) (float64, error) {
	if t < -curve3d.Epsilon || t > 1+curve3d.Epsilon {
		return 0, fmt.Errorf("%w: time %g not in [0,1]", curve3d.ErrOutOfRange, t)
	}
	n := len(s.samples)
	i := sort.Search(n, func(i int) bool { return s.samples[i].Time >= t })
	if i == 0 {
		return 0, nil
	}
	if i == n {
		return s.length, nil
	}
	lo, hi := s.samples[i-1], s.samples[i]
	return curve3d.Lerp(lo.Length, hi.Length, (t-lo.Time)/(hi.Time-lo.Time)), nil
}

// referenceAt interpolates the sampled reference vectors at time t.
func (s *Segment) referenceAt(t float64) vec3.T {
	n := len(s.samples)
	i := sort.Search(n, func(i int) bool { return s.samples[i].Time >= t })
	switch {
	case i == 0:
		return s.samples[0].Reference
	case i == n:
		return s.samples[n-1].Reference
	}
	lo, hi := s.samples[i-1], s.samples[i]
	return curve3d.LerpV(lo.Reference, hi.Reference, (t-lo.Time)/(hi.Time-lo.Time))
}

// tangentAt is the unit tangent at t, falling back to the sampled tangents
// for collapsed arcs.
func (s *Segment) tangentAt(t float64) vec3.T {
	if tan, ok := s.cubic.Tangent(t); ok {
		return tan
	}
	i := int(curve3d.Clamp(t, 0, 1) * float64(len(s.samples)-1))
	return s.samples[i].Tangent
}

func (s *Segment) clone() *Segment {
	c := &Segment{cubic: s.cubic, length: s.length}
	c.samples = make([]Sample, len(s.samples))
	copy(c.samples, s.samples)
	return c
}

func (s *Segment) String() string {
	return fmt.Sprintf("<segment %s, length=%.4f>", s.cubic, s.length)
}
