package curve3d

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// === 3D vectors ============================================================

// V is a quick notation for constructing a 3D vector from floats.
func V(x, y, z float64) vec3.T {
	return vec3.T{x, y, z}
}

// AddV returns a + b.
func AddV(a, b vec3.T) vec3.T {
	return vec3.Add(&a, &b)
}

// SubV returns a - b.
func SubV(a, b vec3.T) vec3.T {
	return vec3.Sub(&a, &b)
}

// ScaleV returns v scaled by f.
func ScaleV(v vec3.T, f float64) vec3.T {
	return v.Scaled(f)
}

// NegV returns -v.
func NegV(v vec3.T) vec3.T {
	return v.Scaled(-1)
}

// LerpV interpolates linearly between a and b.
func LerpV(a, b vec3.T, t float64) vec3.T {
	return vec3.Interpolate(&a, &b, t)
}

// Dot is the scalar product of a and b.
func Dot(a, b vec3.T) float64 {
	return vec3.Dot(&a, &b)
}

// Cross is the vector product a × b.
func Cross(a, b vec3.T) vec3.T {
	return vec3.Cross(&a, &b)
}

// Dist is the euclidean distance between a and b.
func Dist(a, b vec3.T) float64 {
	return vec3.Distance(&a, &b)
}

// Len is the length of v.
func Len(v vec3.T) float64 {
	return v.Length()
}

// IsZeroV is a predicate: is v = (0,0,0) within ε ?
func IsZeroV(v vec3.T) bool {
	return Is0(v.Length())
}

// EqualV compares two vectors component-wise within ε.
func EqualV(a, b vec3.T) bool {
	return Is0(a[0]-b[0]) && Is0(a[1]-b[1]) && Is0(a[2]-b[2])
}

// ZapV rounds every component of v to 0 if it "means" to be zero.
func ZapV(v vec3.T) vec3.T {
	return vec3.T{Zap(v[0]), Zap(v[1]), Zap(v[2])}
}

// Unit returns v normalized. The flag is false for (near) zero vectors, in
// which case the zero vector is returned.
func Unit(v vec3.T) (vec3.T, bool) {
	l := v.Length()
	if l <= Epsilon || math.IsNaN(l) {
		return vec3.T{}, false
	}
	return v.Scaled(1 / l), true
}

// Orthogonalize removes the component of v along the unit vector axis and
// normalizes the rest. The flag is false if v is (nearly) parallel to axis.
func Orthogonalize(v, axis vec3.T) (vec3.T, bool) {
	return Unit(SubV(v, ScaleV(axis, Dot(v, axis))))
}

// Perpendicular returns some unit vector perpendicular to the unit vector v,
// built from the world axis least aligned with v.
func Perpendicular(v vec3.T) vec3.T {
	axis := vec3.UnitX
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	if ay <= ax && ay <= az {
		axis = vec3.UnitY
	} else if az <= ax && az <= ay {
		axis = vec3.UnitZ
	}
	if p, ok := Orthogonalize(axis, v); ok {
		return p
	}
	return vec3.UnitZ
}

// VString is a pretty Stringer for 3D vectors.
func VString(v vec3.T) string {
	return fmt.Sprintf("(%g,%g,%g)", Round(v[0]), Round(v[1]), Round(v[2]))
}

// === Axis locks ============================================================

// AxisLock restricts edits of a curve to a plane by zeroing one coordinate of
// every written vector.
type AxisLock int

// Axis lock modes.
const (
	LockNone AxisLock = iota
	LockX
	LockY
	LockZ
)

func (l AxisLock) String() string {
	switch l {
	case LockNone:
		return "none"
	case LockX:
		return "x"
	case LockY:
		return "y"
	case LockZ:
		return "z"
	}
	return fmt.Sprintf("AxisLock(%d)", int(l))
}

// ParseAxisLock maps "none", "x", "y", "z" to an AxisLock.
func ParseAxisLock(s string) (AxisLock, error) {
	switch s {
	case "", "none":
		return LockNone, nil
	case "x", "X":
		return LockX, nil
	case "y", "Y":
		return LockY, nil
	case "z", "Z":
		return LockZ, nil
	}
	return LockNone, fmt.Errorf("%w: unknown axis lock %q", ErrOutOfRange, s)
}

// Project zeroes the locked coordinate of v.
func (l AxisLock) Project(v vec3.T) vec3.T {
	switch l {
	case LockX:
		v[0] = 0
	case LockY:
		v[1] = 0
	case LockZ:
		v[2] = 0
	}
	return v
}

// Normal returns the unit normal of the lock plane. The flag is false for
// LockNone.
func (l AxisLock) Normal() (vec3.T, bool) {
	switch l {
	case LockX:
		return vec3.UnitX, true
	case LockY:
		return vec3.UnitY, true
	case LockZ:
		return vec3.UnitZ, true
	}
	return vec3.T{}, false
}

// Flatten maps v to 2D coordinates within the lock plane. The locked
// coordinate is dropped, the remaining two keep their (cyclic) order:
// z-lock → (x,y), x-lock → (y,z), y-lock → (z,x).
func (l AxisLock) Flatten(v vec3.T) Pair {
	switch l {
	case LockX:
		return P(v[1], v[2])
	case LockY:
		return P(v[2], v[0])
	}
	return P(v[0], v[1])
}

// Lift is the inverse of Flatten: it places a plane coordinate back into 3D
// with the locked coordinate set to 0.
func (l AxisLock) Lift(p Pair) vec3.T {
	switch l {
	case LockX:
		return V(0, p.X(), p.Y())
	case LockY:
		return V(p.Y(), 0, p.X())
	}
	return V(p.X(), p.Y(), 0)
}
