package bezier

import (
	"fmt"
	"iter"
	"math"

	"github.com/npillmayer/curve3d"
	"github.com/ungerik/go3d/float64/vec3"
)

// PointOnCurve is the result of a distance query: a frame located on the
// curve, together with the segment coordinates of the location.
type PointOnCurve struct {
	curve3d.Frame
	SegmentIndex int
	Time         float64
	Distance     float64
}

// Position is the location on the curve.
func (p PointOnCurve) Position() vec3.T {
	return p.Origin
}

func (p PointOnCurve) String() string {
	return fmt.Sprintf("<%s @ %d/%.4f d=%.4f>", curve3d.VString(p.Origin),
		p.SegmentIndex, p.Time, p.Distance)
}

// NormalizeDistance maps a distance into the curve's domain: modulo the
// length for closed curves, clamped to [0, Length] for open ones.
func (c *Curve) NormalizeDistance(d float64) float64 {
	if c.closed {
		return curve3d.Wrap(d, c.length)
	}
	return curve3d.Clamp(d, 0, c.length)
}

// PointAtDistance locates the point at arc length d from the curve's start.
// Distances outside the curve are normalized, see NormalizeDistance.
func (c *Curve) PointAtDistance(d float64) (PointOnCurve, error) {
	if err := c.ready(); err != nil {
		return PointOnCurve{}, err
	}
	if math.IsNaN(d) {
		return PointOnCurve{}, fmt.Errorf("%w: distance is NaN", curve3d.ErrOutOfRange)
	}
	d = c.NormalizeDistance(d)
	seg, local := c.locate(d)
	s := c.segments[seg]
	t, err := s.TimeAtLength(curve3d.Clamp(local, 0, s.length))
	if err != nil {
		return PointOnCurve{}, err
	}
	return c.pointAt(seg, t, d), nil
}

// PointAtSegmentTime locates the point at time t on segment seg.
func (c *Curve) PointAtSegmentTime(seg int, t float64) (PointOnCurve, error) {
	d, err := c.DistanceAtSegmentTime(seg, t)
	if err != nil {
		return PointOnCurve{}, err
	}
	return c.pointAt(seg, curve3d.Clamp(t, 0, 1), d), nil
}

// DistanceAtSegmentTime is the arc length from the curve's start to time t
// on segment seg.
func (c *Curve) DistanceAtSegmentTime(seg int, t float64) (float64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	if seg < 0 || seg >= len(c.segments) {
		return 0, fmt.Errorf("%w: segment %d of %d", curve3d.ErrOutOfRange, seg, len(c.segments))
	}
	l, err := c.segments[seg].LengthAtTime(t)
	if err != nil {
		return 0, err
	}
	return c.starts[seg] + l, nil
}

// SegmentTimeAtDistance is the inverse of DistanceAtSegmentTime.
func (c *Curve) SegmentTimeAtDistance(d float64) (int, float64, error) {
	p, err := c.PointAtDistance(d)
	if err != nil {
		return 0, 0, err
	}
	return p.SegmentIndex, p.Time, nil
}

// WrappedDistanceBetween is the shorter way between two distances: along
// the curve for open curves, either way around for closed ones.
func (c *Curve) WrappedDistanceBetween(d1, d2 float64) float64 {
	if !c.closed {
		return math.Abs(d1 - d2)
	}
	diff := math.Abs(c.NormalizeDistance(d1) - c.NormalizeDistance(d2))
	return math.Min(diff, c.length-diff)
}

// Along iterates over points spaced step apart, starting at 0. For open
// curves the end point is always included; closed curves stop short of the
// start point. Iteration stops early on a stale or degenerate curve.
func (c *Curve) Along(step float64) iter.Seq[PointOnCurve] {
	return func(yield func(PointOnCurve) bool) {
		if c.ready() != nil || step <= 0 {
			return
		}
		n := int(math.Ceil(c.length/step - curve3d.Epsilon))
		if n < 1 {
			n = 1
		}
		last := n
		if c.closed {
			last = n - 1
		}
		for i := 0; i <= last; i++ {
			d := math.Min(float64(i)*step, c.length)
			p, err := c.PointAtDistance(d)
			if err != nil || !yield(p) {
				return
			}
		}
	}
}

// locate finds the segment containing distance d, which must already be
// normalized, and the remaining length into that segment.
func (c *Curve) locate(d float64) (int, float64) {
	k, v := c.index.Floor(d)
	if k == nil {
		return 0, d
	}
	seg := v.(int)
	return seg, d - k.(float64)
}

func (c *Curve) pointAt(seg int, t float64, d float64) PointOnCurve {
	s := c.segments[seg]
	pos := s.cubic.Eval(t)
	return PointOnCurve{
		Frame:        curve3d.NewFrame(pos, s.tangentAt(t), s.referenceAt(t)),
		SegmentIndex: seg,
		Time:         t,
		Distance:     d,
	}
}
