package bezier

import (
	"fmt"

	"github.com/npillmayer/curve3d"
	"github.com/ungerik/go3d/float64/vec3"
)

// Recalculate brings the arc-length tables up to date. Segments marked dirty
// by edits are rebuilt, together with any segments passed in explicitly.
// After a topology change (inserted or removed points, closing or opening
// the loop, a new resolution or axis lock) every segment is rebuilt.
//
// The cumulative distance table and the reference frames are always
// rebuilt, as they depend on every segment before them.
func (c *Curve) Recalculate(segments ...int) error {
	n := c.SegmentCount()
	for _, i := range segments {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: segment %d of %d", curve3d.ErrOutOfRange, i, n)
		}
	}
	if c.topology || len(c.segments) != n {
		c.segments = c.segments[:0]
		for i := 0; i < n; i++ {
			start, end := c.endpoints(i)
			c.segments = append(c.segments, newSegment(start, end, c.resolution))
		}
		tracer().Debugf("curve %s: rebuilt all %d segments", c.id, n)
	} else {
		c.dirty.Add(segments...)
		for _, i := range c.dirty.Indices() {
			if i >= n {
				continue
			}
			start, end := c.endpoints(i)
			c.segments[i].rebuild(start, end, c.resolution)
		}
		if !c.dirty.Empty() {
			tracer().Debugf("curve %s: rebuilt segments %v", c.id, c.dirty.Indices())
		}
	}
	c.dirty.Clear()
	c.topology = false
	c.rebuildIndex()
	c.propagateReferences()
	return nil
}

// endpoints returns the control points bounding segment i.
func (c *Curve) endpoints(i int) (*ControlPoint, *ControlPoint) {
	return c.points[i], c.points[(i+1)%len(c.points)]
}

// rebuildIndex recomputes segment start distances and the total length.
func (c *Curve) rebuildIndex() {
	c.index.Clear()
	c.starts = c.starts[:0]
	var d float64
	for i, s := range c.segments {
		c.starts = append(c.starts, d)
		c.index.Put(d, i) // zero-length segments give way to their successor
		d += s.length
	}
	c.length = d
	tracer().Debugf("curve %s: %d segments, length=%.4f", c.id, len(c.segments), d)
}

// === Reference frames ======================================================

// SetReferenceHint sets the reference vector the frame propagation starts
// with. A zero vector removes the hint. Changing the hint does not mark
// segments dirty; it takes effect with the next recalculation.
func (c *Curve) SetReferenceHint(ref vec3.T) {
	if curve3d.IsZeroV(ref) {
		c.hint = nil
		return
	}
	c.hint = &ref
}

// ReferenceHint returns the current hint, if any.
func (c *Curve) ReferenceHint() (vec3.T, bool) {
	if c.hint == nil {
		return vec3.T{}, false
	}
	return *c.hint, true
}

// EndReference is the reference vector at the end of the curve, as of the
// last recalculation. It serves as a hint for a following curve.
func (c *Curve) EndReference() vec3.T {
	return c.endReference
}

// propagateReferences carries a reference vector through all samples of all
// segments, re-orthogonalizing it against each tangent.
func (c *Curve) propagateReferences() {
	var ref, lastTangent vec3.T
	haveRef, haveTangent := false, false
	if c.hint != nil {
		ref, haveRef = *c.hint, true
	} else if normal, ok := c.lock.Normal(); ok {
		ref, haveRef = normal, true
	}
	// collapsed leading segments borrow the first proper tangent
	for _, s := range c.segments {
		for _, sample := range s.samples {
			if !curve3d.IsZeroV(sample.Tangent) {
				lastTangent, haveTangent = sample.Tangent, true
				break
			}
		}
		if haveTangent {
			break
		}
	}
	if !haveTangent {
		lastTangent = vec3.UnitX
	}
	for _, s := range c.segments {
		for j := range s.samples {
			sample := &s.samples[j]
			if curve3d.IsZeroV(sample.Tangent) {
				sample.Tangent = lastTangent
			}
			lastTangent = sample.Tangent
			if !haveRef {
				ref, haveRef = curve3d.Perpendicular(sample.Tangent), true
			}
			r, ok := curve3d.Orthogonalize(ref, sample.Tangent)
			if !ok {
				r = curve3d.Perpendicular(sample.Tangent)
			}
			sample.Reference = r
			ref = r
		}
	}
	c.endReference = ref
}
