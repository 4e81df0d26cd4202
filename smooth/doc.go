/*
Package smooth finds tangent handles for a smooth spline through a sequence
of planar knots, using John Hobby's algorithm.

Hobby's splines are the ones MetaFont and MetaPost draw for a path like

	(0,0)..(2,3)..(5,3)..(3,-1)..cycle

The primary source of information is

	Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
	Computer Science Dept. Stanford University
	Report No. STAN-CS-85-1047, Jan 1985

and the practical algorithm is explained in Knuth's Computers & Typesetting,
Vol. B & D. The notation used here sticks to MetaFont's.

This package solves paths with a uniform tension and curl at every knot,
which is what an editor needs to "auto-smooth" a curve. Results are cubic
Bézier control points: for knot i, Pre(i) is the control point of the
incoming arc and Post(i) the one of the outgoing arc.

	pre, post, err := smooth.Controls(knots, true)

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package smooth

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'smooth'
func tracer() tracing.Trace {
	return tracing.Select("smooth")
}

var (
	// ErrTooFewKnots indicates that the knot count is insufficient for solving.
	ErrTooFewKnots = errors.New("too few knots")
	// ErrInvalidKnot indicates a knot coordinate containing NaN/Inf.
	ErrInvalidKnot = errors.New("invalid knot coordinate")
	// ErrDegenerateSegment indicates two consecutive knots collapsing to one point.
	ErrDegenerateSegment = errors.New("degenerate segment")
	// ErrInvalidTension indicates a tension below 3/4, as MetaFont requires.
	ErrInvalidTension = errors.New("tension must be at least 0.75")
)

const _epsilon = 0.0000001
