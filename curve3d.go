/*
Package curve3d is the root of a small toolkit for editable 3D Bézier curves
carrying distance-keyed tracks of data.

The root package holds what every other package needs: numeric helpers,
3D vector helpers on top of go3d, 2D profile coordinates (Pair) with affine
transforms, orthonormal frames, axis locks, identity tokens and the error
kinds shared across packages.

Sub-packages are

	bezier    control points, segments and curves with arc-length tables
	track     keyframe tracks evaluated by distance along a curve
	smooth    Hobby-style automatic tangents for planar curves
	outline   polygon outlines of (profile) curves
	shape     the aggregate of a position curve and its tracks

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curve3d

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'curve3d'
func tracer() tracing.Trace {
	return tracing.Select("curve3d")
}

// === Errors ================================================================

var (
	// ErrOutOfRange flags a distance, time or index outside its valid domain.
	ErrOutOfRange = errors.New("argument out of range")
	// ErrDegenerateCurve flags a segment operation on a curve with fewer than 2 points.
	ErrDegenerateCurve = errors.New("curve has too few control points")
	// ErrStale flags a query against a curve with pending edits (recalculate first).
	ErrStale = errors.New("curve has not been recalculated after edit")
	// ErrForeignCurve flags a track being evaluated against a curve it is not bound to.
	ErrForeignCurve = errors.New("track is bound to a different curve")
	// ErrNotPlanar flags an operation which needs an axis-locked (planar) curve.
	ErrNotPlanar = errors.New("curve is not locked to a plane")
)

// === Numeric helpers =======================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// Clamp restricts n to [lo,hi].
func Clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Wrap reduces n modulo m into [0,m). For m ≤ 0, Wrap returns 0.
func Wrap(n, m float64) float64 {
	if m <= 0 {
		return 0
	}
	r := math.Mod(n, m)
	if r < 0 {
		r += m
	}
	if r >= m { // math.Mod rounding may land exactly on m for tiny negative n
		r = 0
	}
	return r
}

// === Identity tokens =======================================================

// ID is an opaque identity token for selectable things: control points,
// keyframes and curves. IDs survive clones unless fresh IDs are requested.
type ID = uuid.UUID

// NilID is the zero identity. It is never handed out by NewID.
var NilID = uuid.Nil

// NewID allocates identity tokens. Hosts with their own identity scheme
// (e.g. a persistence layer) may replace it.
var NewID = func() ID {
	return uuid.New()
}
