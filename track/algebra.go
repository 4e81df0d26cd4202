package track

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
)

// Interpolator is the capability set every track value type has to provide.
type Interpolator[T any] interface {
	// Lerp interpolates linearly between a and b, frac ∈ [0,1].
	Lerp(a, b T, frac float64) T
	// Clone copies a value, so keyframes never share mutable state.
	Clone(v T) T
}

// Arithmetic value types support offsets.
type Arithmetic[T any] interface {
	Zero() T
	Add(a, b T) T
	Sub(a, b T) T
}

// Constrained value types restrict the range of values, e.g. a non-negative
// size.
type Constrained[T any] interface {
	Clamp(v T) T
}

// clamp applies the constraints of alg, if any.
func clamp[T any](alg Interpolator[T], v T) T {
	if c, ok := alg.(Constrained[T]); ok {
		return c.Clamp(v)
	}
	return v
}

// === Scalars ===============================================================

// Scalar is the algebra of float64 values within [Min,Max].
type Scalar struct {
	Min, Max float64
}

// Unbounded is the scalar algebra without constraints.
func Unbounded() Scalar {
	return Scalar{Min: math.Inf(-1), Max: math.Inf(1)}
}

// AtLeast is the scalar algebra for values ≥ min.
func AtLeast(min float64) Scalar {
	return Scalar{Min: min, Max: math.Inf(1)}
}

// Between is the scalar algebra for values in [min,max].
func Between(min, max float64) Scalar {
	return Scalar{Min: min, Max: max}
}

func (Scalar) Zero() float64 { return 0 }
func (Scalar) Add(a, b float64) float64 { return a + b }
func (Scalar) Sub(a, b float64) float64 { return a - b }
func (Scalar) Lerp(a, b float64, frac float64) float64 { return curve3d.Lerp(a, b, frac) }
func (Scalar) Clone(v float64) float64 { return v }

// Clamp restricts v to [Min,Max].
func (s Scalar) Clamp(v float64) float64 {
	return curve3d.Clamp(v, s.Min, s.Max)
}

// === Colors ================================================================

// RGBA is a color with opacity.
type RGBA struct {
	colorful.Color
	A float64
}

// NewRGBA creates a color from components in [0,1].
func NewRGBA(r, g, b, a float64) RGBA {
	return RGBA{Color: colorful.Color{R: r, G: g, B: b}, A: a}
}

// White is opaque white.
func White() RGBA {
	return NewRGBA(1, 1, 1, 1)
}

// Colors is the algebra of RGBA values. Interpolation blends in RGB space.
type Colors struct{}

func (Colors) Zero() RGBA { return RGBA{} }

func (Colors) Add(a, b RGBA) RGBA {
	return NewRGBA(a.R+b.R, a.G+b.G, a.B+b.B, a.A+b.A)
}

func (Colors) Sub(a, b RGBA) RGBA {
	return NewRGBA(a.R-b.R, a.G-b.G, a.B-b.B, a.A-b.A)
}

func (Colors) Lerp(a, b RGBA, frac float64) RGBA {
	return RGBA{Color: a.Color.BlendRgb(b.Color, frac), A: curve3d.Lerp(a.A, b.A, frac)}
}

func (Colors) Clone(v RGBA) RGBA { return v }

// Clamp keeps every component within [0,1].
func (Colors) Clamp(v RGBA) RGBA {
	return RGBA{Color: v.Color.Clamped(), A: curve3d.Clamp(v.A, 0, 1)}
}

// === Curves ================================================================

// Curves is the algebra of nested curves.
//
// Curves with the same number of control points and the same topology are
// interpolated point by point. Otherwise there is no sensible blend, and
// Lerp returns a copy of the nearer one. Results are recalculated.
type Curves struct{}

// Clone copies a curve, with fresh identities.
func (Curves) Clone(v *bezier.Curve) *bezier.Curve {
	if v == nil {
		return nil
	}
	return v.Clone(true)
}

func (cs Curves) Lerp(a, b *bezier.Curve, frac float64) *bezier.Curve {
	switch {
	case a == nil:
		return cs.Clone(b)
	case b == nil || a.N() != b.N() || a.IsClosed() != b.IsClosed():
		if frac < 0.5 || b == nil {
			return cs.Clone(a)
		}
		return cs.Clone(b)
	}
	c := a.Clone(true)
	for i, p := range a.Points() {
		q := b.Points()[i]
		_ = c.SetTangentsLocked(i, p.TangentsLocked() && q.TangentsLocked())
		_ = c.SetPosition(i, curve3d.LerpV(p.Position(), q.Position(), frac))
		_ = c.SetLeftTangent(i, curve3d.LerpV(p.LeftTangent(), q.LeftTangent(), frac))
		if !c.Points()[i].TangentsLocked() {
			_ = c.SetRightTangent(i, curve3d.LerpV(p.RightTangent(), q.RightTangent(), frac))
		}
	}
	if err := c.Recalculate(); err != nil {
		tracer().Errorf("interpolated curve: %v", err)
	}
	return c
}
