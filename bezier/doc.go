/*
Package bezier implements editable, piecewise cubic 3D Bézier curves with an
arc-length parameterization.

A Curve is a sequence of control points. Each control point carries a
position and two tangent handles, stored relative to the position. Two
adjacent control points span a Segment, a cubic Bézier arc with the
control polygon

	p0 = start.Position
	p1 = start.Position + start.RightTangent
	p2 = end.Position + end.LeftTangent
	p3 = end.Position

A closed curve adds one more segment, running from the last control point
back to the first.

Arc length

Cubic Bézier arcs are not parameterized by arc length. Every segment
therefore keeps a small lookup table: the cubic is evaluated at K+1 equally
spaced times (K = 10 unless configured otherwise) and the straight-line
distances between consecutive evaluations are summed up. Distance ⇄ time
conversions interpolate linearly within this table. The curve itself keeps
the start distance of every segment, so a distance along the whole curve
maps to a (segment, time) pair and back.

Edits and recalculation

Edits never recompute tables. They mark segments dirty, and a subsequent
call to Recalculate rebuilds exactly those segments (all of them after a
topology change), followed by the cumulative table and the reference frames.
A batch of edits within one frame of an interactive tool thus costs a single
rebuild. Queries against a curve with pending edits fail with
curve3d.ErrStale.

	c := bezier.NewCurve().
		Knot(curve3d.V(0, 0, 0)).
		TangentKnot(curve3d.V(10, 0, 0), curve3d.V(-3, 2, 0), curve3d.V(3, -2, 0)).
		Knot(curve3d.V(20, 5, 0)).End()
	if err := c.Recalculate(); err != nil { ... }
	p, err := c.PointAtDistance(c.Length() / 2)

Reference frames

Every point on a curve comes with a reference vector perpendicular to the
tangent. References are carried from sample to sample along the curve
(projecting the previous reference onto the plane normal to the next
tangent), so they never flip between neighbouring samples. Curves locked to
a plane use the plane's normal as their reference. A reference hint may be
set to start the propagation, which is how consecutive profile curves are
kept consistent.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bezier

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bezier'
func tracer() tracing.Trace {
	return tracing.Select("bezier")
}

// DefaultSamplesPerSegment is the arc-length table resolution K.
const DefaultSamplesPerSegment = 10
