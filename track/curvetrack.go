package track

import (
	"fmt"
	"sync"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
	"github.com/npillmayer/curve3d/outline"
	"github.com/ungerik/go3d/float64/vec3"
)

// CurveTrack is a track of nested curves: cross-section profiles along a
// primary curve. Profiles are planar, locked to the z axis, with profile
// x running along the primary curve's reference and profile y along its
// binormal.
type CurveTrack struct {
	*Track[*bezier.Curve]
}

// DefaultProfile is a flat unit line, centered at the origin.
func DefaultProfile() *bezier.Curve {
	c := bezier.NewCurve().Lock(curve3d.LockZ).
		Knot(curve3d.V(-0.5, 0, 0)).
		Knot(curve3d.V(0.5, 0, 0)).End()
	_ = c.Recalculate()
	return c
}

// NewCurveTrack creates a track of profiles, using profile as the constant
// value. A nil profile selects DefaultProfile.
func NewCurveTrack(label string, profile *bezier.Curve) *CurveTrack {
	if profile == nil {
		profile = DefaultProfile()
	}
	ct := &CurveTrack{Track: New[*bezier.Curve](label, Curves{}, profile)}
	ct.seed = ct.nearestProfile
	return ct
}

// nearestProfile seeds new keyframes with a copy of the profile nearest to
// d, or of the constant profile.
func (ct *CurveTrack) nearestProfile(c *bezier.Curve, d float64) (*bezier.Curve, error) {
	src := ct.constant
	if ct.useKeyframes {
		pts, err := ct.points(c)
		if err != nil {
			return nil, err
		}
		if len(pts) > 0 {
			src = nearest(pts, d, c.WrappedDistanceBetween).Value
		}
	}
	p := src.Clone(true)
	p.SetAxisLock(curve3d.LockZ)
	if err := p.Recalculate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Sample is a point on a profile, in profile space.
type Sample struct {
	Position  vec3.T
	Reference vec3.T
	Tangent   vec3.T
}

// Place maps a profile sample into world space, using frame f of the
// primary curve.
func (s Sample) Place(f curve3d.Frame) vec3.T {
	return f.Place(curve3d.P(s.Position[0], s.Position[1]))
}

// SampleCrossSection samples the profile at distance d along c, at fraction
// ∈ [0,1] of the profile's length. Between keyframes the samples of both
// neighbouring profiles are blended; a Flat lower keyframe is sampled alone.
// Profiles with less than two control points sample as DefaultProfile.
func (ct *CurveTrack) SampleCrossSection(c *bezier.Curve, d, fraction float64) (Sample, error) {
	if fraction < 0 || fraction > 1 {
		return Sample{}, fmt.Errorf("%w: profile fraction %g", curve3d.ErrOutOfRange, fraction)
	}
	b, err := ct.bracketAt(c, d)
	if err != nil {
		return Sample{}, err
	}
	if b.lower == nil {
		return sampleProfile(ct.constant, fraction)
	}
	lo, err := sampleProfile(b.lower.Value, fraction)
	if err != nil || b.upper == nil {
		return lo, err
	}
	hi, err := sampleProfile(b.upper.Value, fraction)
	if err != nil {
		return Sample{}, err
	}
	return blend(lo, hi, b.frac), nil
}

// fallbackProfile stands in for profiles without a segment.
var fallbackProfile = sync.OnceValue(DefaultProfile)

func sampleProfile(p *bezier.Curve, fraction float64) (Sample, error) {
	if p == nil || p.N() < 2 {
		p = fallbackProfile()
	}
	q, err := p.PointAtDistance(fraction * p.Length())
	if err != nil {
		return Sample{}, err
	}
	return Sample{Position: q.Origin, Reference: q.Reference, Tangent: q.Tangent}, nil
}

func blend(a, b Sample, frac float64) Sample {
	s := Sample{
		Position:  curve3d.LerpV(a.Position, b.Position, frac),
		Reference: curve3d.LerpV(a.Reference, b.Reference, frac),
		Tangent:   curve3d.LerpV(a.Tangent, b.Tangent, frac),
	}
	if t, ok := curve3d.Unit(s.Tangent); ok {
		s.Tangent = t
	}
	if r, ok := curve3d.Unit(s.Reference); ok {
		s.Reference = r
	}
	return s
}

// RecalculateProfiles recalculates the constant profile and every keyframe
// profile, in anchor order. Each profile starts its reference frame where
// the previous one ended, beginning with hint.
func (ct *CurveTrack) RecalculateProfiles(hint vec3.T) error {
	profiles := append([]*bezier.Curve{ct.constant}, ct.values()...)
	for i, p := range profiles {
		p.SetReferenceHint(hint)
		if err := p.Recalculate(); err != nil {
			return fmt.Errorf("profile #%d: %w", i, err)
		}
		hint = p.EndReference()
	}
	return nil
}

func (ct *CurveTrack) values() []*bezier.Curve {
	r := make([]*bezier.Curve, len(ct.keyframes))
	for i, k := range ct.keyframes {
		r[i] = k.Value
	}
	return r
}

// Delete removes keyframes as well as control points of profiles with the
// given identities. Profiles keep at least two control points. Delete
// returns true if anything was removed.
func (ct *CurveTrack) Delete(c *bezier.Curve, ids ...curve3d.ID) bool {
	removed := ct.Track.Delete(c, ids...)
	for _, p := range append([]*bezier.Curve{ct.constant}, ct.values()...) {
		for _, id := range ids {
			if p.N() <= 2 {
				break
			}
			if i := p.IndexOf(id); i >= 0 {
				_, _ = p.RemovePoint(i)
				removed = true
			}
		}
		if p.IsStale() {
			if err := p.Recalculate(); err != nil {
				tracer().Errorf("track %q: %v", ct.label, err)
			}
		}
	}
	return removed
}

// SelectAll returns the identities of the visible keyframes, followed by
// the identities of their profiles' control points.
func (ct *CurveTrack) SelectAll(c *bezier.Curve) []curve3d.ID {
	ids := ct.Track.SelectAll(c)
	for _, k := range ct.Visible(c) {
		for _, cp := range k.Value.Points() {
			ids = append(ids, cp.ID())
		}
	}
	return ids
}

// Envelope unites the outlines of all profiles visible on c, or returns the
// outline of the constant profile if there are none.
func (ct *CurveTrack) Envelope(c *bezier.Curve) (polyclip.Polygon, error) {
	profiles := []*bezier.Curve{ct.constant}
	if ct.useKeyframes {
		if vis := ct.Visible(c); len(vis) > 0 {
			profiles = profiles[:0]
			for _, k := range vis {
				profiles = append(profiles, k.Value)
			}
		}
	}
	return outline.Envelope(profiles...)
}

// Clone copies a track with all of its profiles.
func (ct *CurveTrack) Clone() *CurveTrack {
	cc := &CurveTrack{Track: ct.Track.Clone()}
	cc.seed = cc.nearestProfile
	return cc
}

// Profiles returns the profiles of all keyframes, in anchor order.
func (ct *CurveTrack) Profiles() []*bezier.Curve {
	return ct.values()
}
