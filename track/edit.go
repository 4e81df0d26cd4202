package track

import (
	"fmt"
	"math"
	"slices"

	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
)

// MoveKeyframes drags the keyframes with the given identities by offset
// along c. On open curves the offset is reduced so that no keyframe leaves
// the curve; on closed curves keyframes wrap around the start point.
func (tr *Track[T]) MoveKeyframes(c *bezier.Curve, offset float64, ids ...curve3d.ID) error {
	if err := tr.check(c); err != nil {
		return err
	}
	var moving []*Keyframe[T]
	var dists []float64
	for _, k := range tr.keyframes {
		if !slices.Contains(ids, k.id) {
			continue
		}
		d, err := c.DistanceAtSegmentTime(k.seg, k.time)
		if err != nil {
			return err
		}
		moving = append(moving, k)
		dists = append(dists, d)
	}
	if len(moving) == 0 {
		return nil
	}
	if !c.IsClosed() {
		offset = clampOffset(dists, offset, c.Length())
	}
	for i, k := range moving {
		seg, t, err := c.SegmentTimeAtDistance(dists[i] + offset)
		if err != nil {
			return err
		}
		k.seg, k.time = seg, t
	}
	tracer().Debugf("track %q: moved %d keyframes by %.4f", tr.label, len(moving), offset)
	return tr.Sort(c)
}

// clampOffset reduces offset so that every distance stays within [0,length].
func clampOffset(dists []float64, offset, length float64) float64 {
	lo, hi := slices.Min(dists), slices.Max(dists)
	return curve3d.Clamp(offset, -lo, length-hi)
}

// SetKeyframeDistance moves a single keyframe to distance d.
func (tr *Track[T]) SetKeyframeDistance(c *bezier.Curve, id curve3d.ID, d float64) error {
	if err := tr.check(c); err != nil {
		return err
	}
	k, ok := tr.Keyframe(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKeyframe, id)
	}
	seg, t, err := c.SegmentTimeAtDistance(d)
	if err != nil {
		return err
	}
	k.seg, k.time = seg, t
	return tr.Sort(c)
}

// OffsetValues adds delta to the values of the keyframes with the given
// identities. Without identities, delta applies to the constant value. The
// offset is shared: if constraints would clip it for any of the values, it
// is reduced for all of them. Value types without arithmetic are an error.
func (tr *Track[T]) OffsetValues(delta T, ids ...curve3d.ID) error {
	ar, ok := tr.alg.(Arithmetic[T])
	if !ok {
		return fmt.Errorf("%w: track %q", ErrNotArithmetic, tr.label)
	}
	if len(ids) == 0 {
		tr.constant = clamp(tr.alg, ar.Add(tr.constant, delta))
		return nil
	}
	var targets []*Keyframe[T]
	for _, k := range tr.keyframes {
		if slices.Contains(ids, k.id) {
			targets = append(targets, k)
		}
	}
	// shrink delta until no target is clipped by constraints
	for _, k := range targets {
		want := ar.Add(k.Value, delta)
		got := clamp(tr.alg, want)
		delta = ar.Sub(got, k.Value)
	}
	for _, k := range targets {
		k.Value = clamp(tr.alg, ar.Add(k.Value, delta))
	}
	return nil
}

// Reanchor moves every keyframe through remap, after a structural edit of
// c (split, insertion or removal of control points), and re-sorts.
func (tr *Track[T]) Reanchor(c *bezier.Curve, remap bezier.Remap) error {
	if err := tr.check(c); err != nil {
		return err
	}
	for _, k := range tr.keyframes {
		seg, t := remap(k.seg, k.time)
		k.seg, k.time = max(seg, 0), curve3d.Clamp(t, 0, 1)
		if math.IsNaN(k.time) {
			k.time = 0
		}
	}
	return tr.Sort(c)
}
