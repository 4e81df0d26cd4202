package curve3d

import (
	"github.com/ungerik/go3d/float64/vec3"
)

// Frame is a point on a curve together with an orthonormal basis: the
// (unit) tangent, a reference vector perpendicular to it, and the binormal
// tangent × reference.
//
// Profiles are 2D shapes living in the plane spanned by reference and
// binormal. Place maps profile coordinates into world space.
type Frame struct {
	Origin    vec3.T
	Tangent   vec3.T
	Reference vec3.T
	Binormal  vec3.T
}

// NewFrame creates a frame from a position, a tangent and a reference hint.
// The reference is made orthogonal to the tangent; if the hint is parallel
// to the tangent, some perpendicular vector is chosen instead.
func NewFrame(origin, tangent, reference vec3.T) Frame {
	t, ok := Unit(tangent)
	if !ok {
		t = vec3.UnitZ
	}
	r, ok := Orthogonalize(reference, t)
	if !ok {
		r = Perpendicular(t)
	}
	return Frame{
		Origin:    origin,
		Tangent:   t,
		Reference: r,
		Binormal:  Cross(t, r),
	}
}

// Place maps a profile point p into world space: p.X runs along the
// reference, p.Y along the binormal.
func (f Frame) Place(p Pair) vec3.T {
	v := AddV(ScaleV(f.Reference, p.X()), ScaleV(f.Binormal, p.Y()))
	return AddV(f.Origin, v)
}

// PlaceTransformed applies m to p before placing it.
func (f Frame) PlaceTransformed(m Transform, p Pair) vec3.T {
	return f.Place(m.Apply(p))
}

// RingPoint returns the point at distance radius from the origin, rotated
// by angle (degrees) around the tangent, starting at the reference.
func (f Frame) RingPoint(angle, radius float64) vec3.T {
	return f.Place(P(radius, 0).Rotated(angle * Deg2Rad))
}
