/*
Package outline flattens planar curves into polygons and combines them.

Profile curves of a shape live in a plane (they are locked to an axis). For
previews, hit testing and cheap size estimates, their outlines are turned
into polygons, using the arc-length tables of the curve as vertices, and
combined with polygon clipping.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package outline

import (
	"fmt"
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'outline'
func tracer() tracing.Trace {
	return tracing.Select("outline")
}

// Contour flattens a curve to a polygon contour in the curve's lock plane
// (the xy-plane for unlocked curves). Vertices are the sample positions of
// the arc-length tables, with consecutive vertices closer than ε merged.
// Open curves are closed implicitly.
func Contour(c *bezier.Curve) (polyclip.Contour, error) {
	n := c.SegmentCount()
	if n == 0 {
		return nil, curve3d.ErrDegenerateCurve
	}
	lock := c.AxisLock()
	var contour polyclip.Contour
	var last curve3d.Pair
	for i := 0; i < n; i++ {
		seg, err := c.Segment(i)
		if err != nil {
			return nil, err
		}
		samples := seg.Samples()
		if i < n-1 || c.IsClosed() { // next segment repeats the end point
			samples = samples[:len(samples)-1]
		}
		for _, s := range samples {
			p := lock.Flatten(s.Position)
			if len(contour) > 0 && p.Equal(last) {
				continue
			}
			contour.Add(polyclip.Point{X: p.X(), Y: p.Y()})
			last = p
		}
	}
	// an open curve may end where it started
	if k := len(contour); k > 1 && last.Equal(curve3d.P(contour[0].X, contour[0].Y)) {
		contour = contour[:k-1]
	}
	if len(contour) < 3 {
		return nil, fmt.Errorf("%w: outline has %d distinct vertices", curve3d.ErrDegenerateCurve, len(contour))
	}
	return contour, nil
}

// Envelope unites the outlines of curves. Curves which cannot be flattened
// are an error.
func Envelope(curves ...*bezier.Curve) (polyclip.Polygon, error) {
	var env polyclip.Polygon
	for i, c := range curves {
		contour, err := Contour(c)
		if err != nil {
			return nil, fmt.Errorf("curve #%d: %w", i, err)
		}
		if env == nil {
			env = polyclip.Polygon{contour}
			continue
		}
		env = env.Construct(polyclip.UNION, polyclip.Polygon{contour})
	}
	tracer().Debugf("envelope of %d curves has %d contours", len(curves), len(env))
	return env, nil
}

// Area returns the area covered by a polygon. Contours nested inside an odd
// number of other contours count as holes.
func Area(p polyclip.Polygon) float64 {
	var area float64
	for i, c := range p {
		a := math.Abs(signedArea(c))
		if len(c) > 0 && depth(p, i)%2 == 1 {
			a = -a
		}
		area += a
	}
	return area
}

// Contains is a predicate: is pt inside the polygon (even-odd rule)?
func Contains(p polyclip.Polygon, pt curve3d.Pair) bool {
	v := polyclip.Point{X: pt.X(), Y: pt.Y()}
	inside := false
	for _, c := range p {
		if c.Contains(v) {
			inside = !inside
		}
	}
	return inside
}

// Extent returns the lower left and upper right corners of the bounding box
// of a polygon.
func Extent(p polyclip.Polygon) (curve3d.Pair, curve3d.Pair) {
	if p.NumVertices() == 0 {
		return curve3d.Origin, curve3d.Origin
	}
	box := p.BoundingBox()
	return curve3d.P(box.Min.X, box.Min.Y), curve3d.P(box.Max.X, box.Max.Y)
}

func signedArea(c polyclip.Contour) float64 {
	var a float64
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return a / 2
}

// depth counts the contours enclosing contour i.
func depth(p polyclip.Polygon, i int) int {
	d := 0
	for j, c := range p {
		if j != i && c.Contains(p[i][0]) {
			d++
		}
	}
	return d
}
