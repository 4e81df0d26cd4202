package curve3d

import (
	"fmt"
	"math"
	"math/cmplx"
)

// === Pair Data Type ========================================================

// Pair is a 2D coordinate, used for points of planar profiles. It is a
// complex number underneath, which makes rotations a multiplication.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// C2P returns a Pair from a complex number. NaN and Inf map to the origin.
func C2P(c complex128) Pair {
	if cmplx.IsNaN(c) || cmplx.IsInf(c) {
		tracer().Errorf("created pair for complex NaN/Inf")
		return Origin
	}
	return Pair(c)
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// Zap rounds x-part and y-part to Epsilon.
func (p Pair) Zap() Pair {
	return P(Zap(p.X()), Zap(p.Y()))
}

// Equal compares two pairs within ε.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Abs is the distance of p from the origin.
func (p Pair) Abs() float64 {
	return cmplx.Abs(p.C())
}

// Angle is the phase of p, in radians.
func (p Pair) Angle() float64 {
	return cmplx.Phase(p.C())
}

// Rotated returns a new pair rotated around origin by theta (counterclockwise).
func (p Pair) Rotated(theta float64) Pair {
	return C2P(p.C() * cmplx.Rect(1, theta)).Zap()
}

// === Affine transforms of the plane ========================================

// Transform is an affine transform of the plane, i.e. the upper two rows of a
// 3x3 matrix
//
//	| a b c |
//	| d e f |
//	| 0 0 1 |
type Transform struct {
	a, b, c float64
	d, e, f float64
}

// Identity transform. Will transform a point onto itself.
func Identity() Transform {
	return Transform{a: 1, e: 1}
}

// Translation transform. Translate a point by v.
func Translation(v Pair) Transform {
	return Transform{a: 1, c: v.X(), e: 1, f: v.Y()}
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) Transform {
	sin, cos := math.Sincos(theta)
	return Transform{a: cos, b: -sin, d: sin, e: cos}
}

// Scaling transform, scaling x by sx and y by sy.
func Scaling(sx, sy float64) Transform {
	return Transform{a: sx, e: sy}
}

// Then returns the transform which applies m first, then n.
func (m Transform) Then(n Transform) Transform {
	return Transform{
		a: n.a*m.a + n.b*m.d,
		b: n.a*m.b + n.b*m.e,
		c: n.a*m.c + n.b*m.f + n.c,
		d: n.d*m.a + n.e*m.d,
		e: n.d*m.b + n.e*m.e,
		f: n.d*m.c + n.e*m.f + n.f,
	}
}

// Apply transforms a 2D-point. The argument is unchanged and a new pair is
// returned.
func (m Transform) Apply(p Pair) Pair {
	x, y := p.X(), p.Y()
	return P(m.a*x+m.b*y+m.c, m.d*x+m.e*y+m.f)
}

// Debug Stringer for an affine transform.
func (m Transform) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g,%g,%g|0,0,1]", m.a, m.b, m.c, m.d, m.e, m.f)
}
