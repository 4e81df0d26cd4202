/*
Package track attaches data to a curve: keyframes anchored at positions on
the curve, carrying values of any type, evaluable at any distance along the
curve by interpolation.

Keyframes are anchored by (segment index, time) rather than by distance.
Distances are derived from the live curve on every query, so keyframes stay
on their spot while control points move and segment lengths change.

Track is generic over its value type. Values are combined through an
Interpolator, which every value type has to provide; value types supporting
arithmetic (Arithmetic) or constraints (Constrained) unlock value offsets
and clamping. This package provides algebras for scalars (Scalar), colors
(Colors) and nested curves (Curves). CurveTrack is a track of nested curves,
adding cross-section sampling.

Keyframes have an interpolation mode. The mode of the earlier keyframe
governs the gap up to the next keyframe: Linear interpolates, Flat holds
the earlier value. On closed curves, the last keyframe's mode governs the
gap across the curve's start point.

A track is built against one curve. It remembers the curve's identity, not
the curve itself, and refuses to be evaluated against a different curve.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package track

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'track'
func tracer() tracing.Trace {
	return tracing.Select("track")
}

var (
	// ErrNotArithmetic flags a value operation which needs an Arithmetic algebra.
	ErrNotArithmetic = errors.New("track values do not support arithmetic")
	// ErrUnknownKeyframe flags a keyframe identity not present in a track.
	ErrUnknownKeyframe = errors.New("no keyframe with this identity")
)
