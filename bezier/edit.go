package bezier

import (
	"fmt"

	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/smooth"
	"github.com/ungerik/go3d/float64/vec3"
)

// Edits change control points and mark the affected segments dirty. None of
// them recomputes any table; call Recalculate after a batch of edits.

// markPoint marks the segments adjacent to control point i.
func (c *Curve) markPoint(i int) {
	n := c.SegmentCount()
	if i < n {
		c.dirty.Add(i)
	}
	if i > 0 && i-1 < n {
		c.dirty.Add(i - 1)
	} else if i == 0 && c.closed && n > 0 {
		c.dirty.Add(n - 1) // the wrap segment ends at point 0
	}
}

func (c *Curve) touchTopology() {
	c.topology = true
	c.dirty.Clear()
}

func (c *Curve) point(i int) (*ControlPoint, error) {
	if i < 0 || i >= len(c.points) {
		return nil, fmt.Errorf("%w: control point %d of %d", curve3d.ErrOutOfRange, i, len(c.points))
	}
	return c.points[i], nil
}

// SetPosition moves control point i. Tangents move along with it.
func (c *Curve) SetPosition(i int, position vec3.T) error {
	return c.SetHandle(i, HandlePosition, position)
}

// MovePoint translates control point i by offset.
func (c *Curve) MovePoint(i int, offset vec3.T) error {
	cp, err := c.point(i)
	if err != nil {
		return err
	}
	return c.SetHandle(i, HandlePosition, curve3d.AddV(cp.position, offset))
}

// SetHandle moves one handle of control point i to a position given in curve
// space. The axis lock applies, and for locked tangents the opposite handle
// is mirrored.
func (c *Curve) SetHandle(i int, h Handle, world vec3.T) error {
	cp, err := c.point(i)
	if err != nil {
		return err
	}
	cp.setWorld(h, world, c.lock)
	c.markPoint(i)
	return nil
}

// SetLeftTangent sets the incoming tangent of point i, relative to its
// position.
func (c *Curve) SetLeftTangent(i int, tangent vec3.T) error {
	cp, err := c.point(i)
	if err != nil {
		return err
	}
	return c.SetHandle(i, HandleLeft, curve3d.AddV(cp.position, tangent))
}

// SetRightTangent sets the outgoing tangent of point i, relative to its
// position.
func (c *Curve) SetRightTangent(i int, tangent vec3.T) error {
	cp, err := c.point(i)
	if err != nil {
		return err
	}
	return c.SetHandle(i, HandleRight, curve3d.AddV(cp.position, tangent))
}

// SetTangentsLocked switches tangent mirroring of point i. Locking derives
// the right tangent from the left one.
func (c *Curve) SetTangentsLocked(i int, locked bool) error {
	cp, err := c.point(i)
	if err != nil {
		return err
	}
	cp.setLocked(locked)
	c.markPoint(i)
	return nil
}

// InsertPoint inserts cp at index i, 0 ≤ i ≤ N. The point is projected if the
// curve has an axis lock.
func (c *Curve) InsertPoint(i int, cp *ControlPoint) error {
	if i < 0 || i > len(c.points) {
		return fmt.Errorf("%w: insert at %d of %d", curve3d.ErrOutOfRange, i, len(c.points))
	}
	cp.project(c.lock)
	c.points = append(c.points, nil)
	copy(c.points[i+1:], c.points[i:])
	c.points[i] = cp
	c.touchTopology()
	return nil
}

// AppendPoint adds cp at the end of the curve.
func (c *Curve) AppendPoint(cp *ControlPoint) {
	_ = c.InsertPoint(len(c.points), cp)
}

// PrependPoint adds cp at the start of the curve.
func (c *Curve) PrependPoint(cp *ControlPoint) {
	_ = c.InsertPoint(0, cp)
}

// RemovePoint deletes control point i and returns it.
func (c *Curve) RemovePoint(i int) (*ControlPoint, error) {
	cp, err := c.point(i)
	if err != nil {
		return nil, err
	}
	c.points = append(c.points[:i], c.points[i+1:]...)
	c.touchTopology()
	return cp, nil
}

// SetClosedLoop opens or closes the curve.
func (c *Curve) SetClosedLoop(closed bool) {
	if c.closed != closed {
		c.closed = closed
		c.touchTopology()
	}
}

// SetAxisLock locks the curve to a plane, projecting every control point.
func (c *Curve) SetAxisLock(lock curve3d.AxisLock) {
	c.lock = lock
	for _, cp := range c.points {
		cp.project(lock)
	}
	c.touchTopology()
}

// SetSamplesPerSegment sets the arc-length table resolution K ≥ 1.
func (c *Curve) SetSamplesPerSegment(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: %d samples per segment", curve3d.ErrOutOfRange, k)
	}
	if k != c.resolution {
		c.resolution = k
		c.touchTopology()
	}
	return nil
}

// === Splitting =============================================================

// SplitPolicy decides what happens to the neighbours of a new control point
// inserted by SplitSegment.
type SplitPolicy int

const (
	// SplitKeepNeighbours leaves the adjacent control points untouched. The
	// new point gets the tangents of the subdivided arc, the curve shape
	// changes slightly.
	SplitKeepNeighbours SplitPolicy = iota
	// SplitPreserveShape shortens the tangents of the adjacent control
	// points as well, so the two new segments trace the old one exactly
	// (unless a neighbour has locked tangents).
	SplitPreserveShape
)

// SplitSegment inserts a control point at time t of segment seg, with
// 0 < t < 1. It returns the index of the new control point.
func (c *Curve) SplitSegment(seg int, t float64, policy SplitPolicy) (int, error) {
	n := c.SegmentCount()
	if n == 0 {
		return 0, curve3d.ErrDegenerateCurve
	}
	if seg < 0 || seg >= n {
		return 0, fmt.Errorf("%w: segment %d of %d", curve3d.ErrOutOfRange, seg, n)
	}
	if t <= curve3d.Epsilon || t >= 1-curve3d.Epsilon {
		return 0, fmt.Errorf("%w: split time %g not in (0,1)", curve3d.ErrOutOfRange, t)
	}
	start, end := c.endpoints(seg)
	a, b := CubicBetween(start, end).Split(t)
	mid := a[3]
	cp := NewControlPoint(mid, curve3d.SubV(a[2], mid), curve3d.SubV(b[1], mid), false)
	if policy == SplitPreserveShape {
		start.setRight(curve3d.SubV(a[1], a[0]))
		end.setLeft(curve3d.SubV(b[2], b[3]))
	}
	if err := c.InsertPoint(seg+1, cp); err != nil {
		return 0, err
	}
	tracer().Debugf("curve %s: split segment %d at t=%.4f", c.id, seg, t)
	return seg + 1, nil
}

// === Anchor remapping ======================================================

// Remap translates a (segment, time) anchor across a structural edit.
type Remap func(seg int, t float64) (int, float64)

// SplitRemap maps anchors across SplitSegment(seg, at, ...).
func SplitRemap(seg int, at float64) Remap {
	return func(s int, t float64) (int, float64) {
		switch {
		case s < seg:
			return s, t
		case s > seg:
			return s + 1, t
		case t <= at:
			return s, t / at
		}
		return s + 1, (t - at) / (1 - at)
	}
}

// InsertRemap maps anchors across InsertPoint(i, ...). Anchors on the
// segment the new point lands in stay with its first half.
func InsertRemap(i int) Remap {
	return func(s int, t float64) (int, float64) {
		if s >= i {
			return s + 1, t
		}
		return s, t
	}
}

// RemoveRemap maps anchors across RemovePoint(i) on a curve which had n
// control points before the removal. The two segments meeting at the removed
// point merge into one.
func RemoveRemap(i, n int, closed bool) Remap {
	return func(s int, t float64) (int, float64) {
		switch {
		case closed && i == 0:
			if s == 0 {
				return max(n-2, 0), 0.5 + t/2
			} else if s == n-1 {
				return max(n-2, 0), t / 2
			}
			return s - 1, t
		case i == 0: // open, first segment vanishes
			if s == 0 {
				return 0, 0
			}
			return s - 1, t
		case !closed && i == n-1: // open, last segment vanishes
			if s == n-2 {
				return max(n-3, 0), 1
			} else if s > n-2 {
				return s - 1, t
			}
			return s, t
		case s == i-1:
			return s, t / 2
		case s == i:
			return i - 1, 0.5 + t/2
		case s > i:
			return s - 1, t
		}
		return s, t
	}
}

// === Smoothing =============================================================

// Smooth replaces the tangents of all control points by the ones of a
// smooth interpolating spline through the point positions (John Hobby's
// algorithm, as used by MetaFont). The curve has to be locked to a plane.
// Locked tangents stay mirrored.
func (c *Curve) Smooth() error {
	if len(c.points) < 2 {
		return curve3d.ErrDegenerateCurve
	}
	if _, ok := c.lock.Normal(); !ok {
		return curve3d.ErrNotPlanar
	}
	knots := make([]curve3d.Pair, len(c.points))
	for i, cp := range c.points {
		knots[i] = c.lock.Flatten(cp.position)
	}
	pre, post, err := smooth.Controls(knots, c.closed)
	if err != nil {
		return err
	}
	n := len(c.points)
	for i, cp := range c.points {
		if c.closed || i > 0 {
			cp.setLeft(curve3d.SubV(c.lock.Lift(pre[i]), cp.position))
		}
		if c.closed || i < n-1 {
			cp.setRight(curve3d.SubV(c.lock.Lift(post[i]), cp.position))
		}
		cp.project(c.lock)
	}
	c.touchTopology()
	return nil
}
