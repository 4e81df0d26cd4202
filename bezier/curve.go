package bezier

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/curve3d"
	"github.com/ungerik/go3d/float64/vec3"
)

// Curve is an editable, piecewise cubic Bézier curve in 3D.
//
// A curve with N control points has N-1 segments if it is open and N
// segments if it is closed. Curves with fewer than 2 points are legal (they
// are built point by point), but every segment operation on them fails with
// curve3d.ErrDegenerateCurve.
type Curve struct {
	id         curve3d.ID
	points     []*ControlPoint
	closed     bool
	lock       curve3d.AxisLock
	resolution int // samples per segment

	segments []*Segment
	starts   []float64    // start distance of each segment
	index    *treemap.Map // start distance -> segment index
	length   float64

	dirty    *SegmentSet
	topology bool // rebuild every segment

	hint         *vec3.T // initial reference
	endReference vec3.T
}

// NewCurve creates an empty open curve. Use the builder methods to add
// control points:
//
//	c := NewCurve().Knot(p0).Knot(p1).Knot(p2).Cycle()
func NewCurve() *Curve {
	return &Curve{
		id:         curve3d.NewID(),
		resolution: DefaultSamplesPerSegment,
		index:      treemap.NewWith(utils.Float64Comparator),
		dirty:      NewSegmentSet(),
		topology:   true,
	}
}

// === Builder ===============================================================

// Knot appends a control point with zero tangents.
func (c *Curve) Knot(position vec3.T) *Curve {
	return c.TangentKnot(position, vec3.T{}, vec3.T{})
}

// TangentKnot appends a control point with free tangents.
func (c *Curve) TangentKnot(position, left, right vec3.T) *Curve {
	c.AppendPoint(NewControlPoint(position, left, right, false))
	return c
}

// LockedKnot appends a control point with mirrored tangents, right being the
// outgoing one.
func (c *Curve) LockedKnot(position, right vec3.T) *Curve {
	c.AppendPoint(NewControlPoint(position, curve3d.NegV(right), right, true))
	return c
}

// Resolution sets the number of arc-length samples per segment.
// It will panic if k < 1.
func (c *Curve) Resolution(k int) *Curve {
	if err := c.SetSamplesPerSegment(k); err != nil {
		panic(err)
	}
	return c
}

// Lock locks the curve to a plane. Control points already present are
// projected.
func (c *Curve) Lock(lock curve3d.AxisLock) *Curve {
	c.SetAxisLock(lock)
	return c
}

// Cycle closes the curve. The builder chain ends here.
func (c *Curve) Cycle() *Curve {
	c.SetClosedLoop(true)
	return c
}

// End finishes an open curve. It is a no-op for symmetry with Cycle.
func (c *Curve) End() *Curve {
	return c
}

// === Accessors =============================================================

// ID returns the identity token of a curve.
func (c *Curve) ID() curve3d.ID {
	return c.id
}

// N is the number of control points.
func (c *Curve) N() int {
	return len(c.points)
}

// IsClosed is a predicate: does the curve have a wrap segment?
func (c *Curve) IsClosed() bool {
	return c.closed
}

// AxisLock returns the plane lock of a curve.
func (c *Curve) AxisLock() curve3d.AxisLock {
	return c.lock
}

// SamplesPerSegment returns the arc-length table resolution.
func (c *Curve) SamplesPerSegment() int {
	return c.resolution
}

// SegmentCount is N-1 for open curves and N for closed ones (0 for N < 2).
func (c *Curve) SegmentCount() int {
	return segmentCount(len(c.points), c.closed)
}

func segmentCount(n int, closed bool) int {
	switch {
	case n < 2:
		return 0
	case closed:
		return n
	}
	return n - 1
}

// Point returns control point i.
func (c *Curve) Point(i int) (*ControlPoint, error) {
	if i < 0 || i >= len(c.points) {
		return nil, fmt.Errorf("%w: control point %d of %d", curve3d.ErrOutOfRange, i, len(c.points))
	}
	return c.points[i], nil
}

// Points returns the control points in order. The slice is a copy, the
// control points are not.
func (c *Curve) Points() []*ControlPoint {
	r := make([]*ControlPoint, len(c.points))
	copy(r, c.points)
	return r
}

// IndexOf returns the index of the control point with identity id, or -1.
func (c *Curve) IndexOf(id curve3d.ID) int {
	for i, cp := range c.points {
		if cp.id == id {
			return i
		}
	}
	return -1
}

// Segment returns segment i. The segment's table reflects the last
// recalculation.
func (c *Curve) Segment(i int) (*Segment, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(c.segments) {
		return nil, fmt.Errorf("%w: segment %d of %d", curve3d.ErrOutOfRange, i, len(c.segments))
	}
	return c.segments[i], nil
}

// SegmentStart is the distance along the curve where segment i starts.
func (c *Curve) SegmentStart(i int) (float64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	if i < 0 || i >= len(c.starts) {
		return 0, fmt.Errorf("%w: segment %d of %d", curve3d.ErrOutOfRange, i, len(c.starts))
	}
	return c.starts[i], nil
}

// Length is the total arc length as of the last recalculation.
func (c *Curve) Length() float64 {
	return c.length
}

// IsStale is a predicate: are there edits not yet recalculated?
func (c *Curve) IsStale() bool {
	return c.topology || !c.dirty.Empty()
}

// DirtySegments returns the segments scheduled for rebuilding.
func (c *Curve) DirtySegments() []int {
	if c.topology {
		r := make([]int, c.SegmentCount())
		for i := range r {
			r[i] = i
		}
		return r
	}
	return c.dirty.Indices()
}

// ready checks that segment queries may proceed.
func (c *Curve) ready() error {
	if len(c.points) < 2 {
		return curve3d.ErrDegenerateCurve
	}
	if c.IsStale() {
		return curve3d.ErrStale
	}
	return nil
}

// Clone creates a deep copy of a curve, including its tables and pending
// edits. With freshIDs set, the copy and all of its control points get new
// identities.
func (c *Curve) Clone(freshIDs bool) *Curve {
	cc := &Curve{
		id:           c.id,
		closed:       c.closed,
		lock:         c.lock,
		resolution:   c.resolution,
		length:       c.length,
		dirty:        c.dirty.clone(),
		topology:     c.topology,
		endReference: c.endReference,
		index:        treemap.NewWith(utils.Float64Comparator),
	}
	if freshIDs {
		cc.id = curve3d.NewID()
	}
	if c.hint != nil {
		h := *c.hint
		cc.hint = &h
	}
	cc.points = make([]*ControlPoint, len(c.points))
	for i, cp := range c.points {
		cc.points[i] = cp.Clone(freshIDs)
	}
	cc.segments = make([]*Segment, len(c.segments))
	for i, s := range c.segments {
		cc.segments[i] = s.clone()
	}
	cc.starts = append([]float64(nil), c.starts...)
	for i, d := range cc.starts {
		cc.index.Put(d, i)
	}
	return cc
}

func (c *Curve) String() string {
	var sb strings.Builder
	sb.WriteString("<curve ")
	for i, cp := range c.points {
		if i > 0 {
			sb.WriteString(" .. ")
		}
		sb.WriteString(curve3d.VString(cp.position))
	}
	if c.closed {
		sb.WriteString(" .. cycle")
	}
	sb.WriteString(">")
	return sb.String()
}
