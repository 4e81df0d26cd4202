package track

import (
	"fmt"
	"math"
	"slices"

	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
)

// Track is an ordered sequence of keyframes along a curve.
//
// A track either uses its keyframes or a constant value. Keyframes are kept
// sorted by anchor. Which keyframes are visible depends on the curve's
// topology: an open curve has no wrap segment, so keyframes anchored there
// (meaningful only when the curve is closed) are hidden, but not deleted.
type Track[T any] struct {
	label        string
	alg          Interpolator[T]
	keyframes    []*Keyframe[T]
	constant     T
	useKeyframes bool
	curve        curve3d.ID // curve the track is built against
	view         view
	seed         func(c *bezier.Curve, d float64) (T, error)
}

// view caches the indices of visible keyframes for a curve topology.
type view struct {
	valid   bool
	key     viewKey
	indices []int
}

type viewKey struct {
	segments int
}

func keyFor(c *bezier.Curve) viewKey {
	return viewKey{segments: c.SegmentCount()}
}

// New creates a track with a constant value. Keyframes are consulted only
// after a call to SetUseKeyframes(true); inserting keyframes leaves this
// switch untouched.
func New[T any](label string, alg Interpolator[T], constant T) *Track[T] {
	return &Track[T]{
		label:    label,
		alg:      alg,
		constant: clamp(alg, constant),
	}
}

// Label returns the name of a track.
func (tr *Track[T]) Label() string {
	return tr.label
}

// Algebra returns the interpolator of a track.
func (tr *Track[T]) Algebra() Interpolator[T] {
	return tr.alg
}

// Constant is the value of the track if it does not use keyframes.
func (tr *Track[T]) Constant() T {
	return tr.constant
}

// SetConstant sets the constant value, respecting constraints.
func (tr *Track[T]) SetConstant(v T) {
	tr.constant = clamp(tr.alg, v)
}

// UsesKeyframes is a predicate.
func (tr *Track[T]) UsesKeyframes() bool {
	return tr.useKeyframes
}

// SetUseKeyframes switches between keyframes and the constant value.
// Keyframes are kept while the track uses the constant value.
func (tr *Track[T]) SetUseKeyframes(use bool) {
	tr.useKeyframes = use
}

// Bind ties a track to a curve. A track is bound to the first curve it is
// edited against; evaluating it against another curve is an error.
func (tr *Track[T]) Bind(c *bezier.Curve) {
	if tr.curve != c.ID() {
		tr.curve = c.ID()
		tr.Invalidate()
	}
}

// BoundTo returns the identity of the curve a track is bound to, or
// curve3d.NilID.
func (tr *Track[T]) BoundTo() curve3d.ID {
	return tr.curve
}

func (tr *Track[T]) check(c *bezier.Curve) error {
	if tr.curve != curve3d.NilID && tr.curve != c.ID() {
		return fmt.Errorf("%w: track %q", curve3d.ErrForeignCurve, tr.label)
	}
	return nil
}

// bind binds an unbound track and checks the binding otherwise.
func (tr *Track[T]) bind(c *bezier.Curve) error {
	if tr.curve == curve3d.NilID {
		tr.Bind(c)
	}
	return tr.check(c)
}

// Len is the number of keyframes, visible or not.
func (tr *Track[T]) Len() int {
	return len(tr.keyframes)
}

// Keyframes returns all keyframes in anchor order.
func (tr *Track[T]) Keyframes() []*Keyframe[T] {
	return slices.Clone(tr.keyframes)
}

// Keyframe finds a keyframe by identity.
func (tr *Track[T]) Keyframe(id curve3d.ID) (*Keyframe[T], bool) {
	for _, k := range tr.keyframes {
		if k.id == id {
			return k, true
		}
	}
	return nil, false
}

// Visible returns the keyframes visible on c, in anchor order.
func (tr *Track[T]) Visible(c *bezier.Curve) []*Keyframe[T] {
	idx := tr.visibleIndices(c)
	r := make([]*Keyframe[T], len(idx))
	for i, j := range idx {
		r[i] = tr.keyframes[j]
	}
	return r
}

// KeyframeDistance is the live distance of keyframe k on c.
func (tr *Track[T]) KeyframeDistance(c *bezier.Curve, k *Keyframe[T]) (float64, error) {
	if err := tr.check(c); err != nil {
		return 0, err
	}
	return c.DistanceAtSegmentTime(k.seg, k.time)
}

// === Queries ===============================================================

// ValueAtDistance evaluates a track at distance d along c. Tracks not using
// keyframes, or without keyframes visible on c, return the constant value.
//
// Returned values may be shared with keyframes and must not be modified.
func (tr *Track[T]) ValueAtDistance(c *bezier.Curve, d float64) (T, error) {
	b, err := tr.bracketAt(c, d)
	if err != nil || b.lower == nil {
		return tr.constant, err
	}
	if b.upper == nil {
		return b.lower.Value, nil
	}
	return tr.alg.Lerp(b.lower.Value, b.upper.Value, b.frac), nil
}

// bracketAt locates d between visible keyframes. A zero bracket means the
// constant value applies.
func (tr *Track[T]) bracketAt(c *bezier.Curve, d float64) (bracket[T], error) {
	if err := tr.check(c); err != nil {
		return bracket[T]{}, err
	}
	if math.IsNaN(d) {
		return bracket[T]{}, fmt.Errorf("%w: distance is NaN", curve3d.ErrOutOfRange)
	}
	if !tr.useKeyframes {
		return bracket[T]{}, nil
	}
	pts, err := tr.points(c)
	if err != nil || len(pts) == 0 {
		return bracket[T]{}, err
	}
	return locate(pts, c.NormalizeDistance(d), c.Length(), c.IsClosed()), nil
}

// points returns the visible keyframes with their live distances.
func (tr *Track[T]) points(c *bezier.Curve) ([]point[T], error) {
	idx := tr.visibleIndices(c)
	if len(idx) == 0 {
		return nil, nil
	}
	pts := make([]point[T], 0, len(idx))
	for _, i := range idx {
		k := tr.keyframes[i]
		d, err := c.DistanceAtSegmentTime(k.seg, k.time)
		if err != nil {
			return nil, err
		}
		pts = append(pts, point[T]{kf: k, dist: d})
	}
	return pts, nil
}

// visibleIndices returns the cached view if it matches the topology of c,
// and computes a fresh one otherwise, without storing it.
func (tr *Track[T]) visibleIndices(c *bezier.Curve) []int {
	if tr.view.valid && tr.view.key == keyFor(c) {
		return tr.view.indices
	}
	return tr.project(c)
}

func (tr *Track[T]) project(c *bezier.Curve) []int {
	n := c.SegmentCount()
	var idx []int
	for i, k := range tr.keyframes {
		if k.seg < n {
			idx = append(idx, i)
		}
	}
	return idx
}

// Invalidate drops the cached view of visible keyframes.
func (tr *Track[T]) Invalidate() {
	tr.view.valid = false
}

// RefreshView rebuilds the cached view of visible keyframes for c.
func (tr *Track[T]) RefreshView(c *bezier.Curve) {
	tr.view = view{valid: true, key: keyFor(c), indices: tr.project(c)}
}

// === Edits =================================================================

// AddKeyframe inserts a keyframe at an explicit anchor. It does not switch
// the track to keyframe mode.
func (tr *Track[T]) AddKeyframe(c *bezier.Curve, seg int, t float64, value T, mode Mode) (*Keyframe[T], error) {
	if err := tr.bind(c); err != nil {
		return nil, err
	}
	if _, err := c.DistanceAtSegmentTime(seg, t); err != nil {
		return nil, err
	}
	k := &Keyframe[T]{
		id:    curve3d.NewID(),
		seg:   seg,
		time:  curve3d.Clamp(t, 0, 1),
		Value: clamp(tr.alg, value),
		Mode:  mode,
	}
	tr.keyframes = append(tr.keyframes, k)
	return k, tr.Sort(c)
}

// InsertAtDistance inserts a keyframe at distance d along c, holding the
// value the track has at d. The new keyframe inherits the mode of the
// keyframe governing d. Distances outside the curve are normalized (clamped
// for open curves, wrapped for closed ones). InsertAtDistance returns the
// index of the new keyframe.
func (tr *Track[T]) InsertAtDistance(c *bezier.Curve, d float64) (int, error) {
	if err := tr.bind(c); err != nil {
		return -1, err
	}
	d = c.NormalizeDistance(d)
	seg, t, err := c.SegmentTimeAtDistance(d)
	if err != nil {
		return -1, err
	}
	pts, err := tr.points(c)
	if err != nil {
		return -1, err
	}
	var value T
	if tr.seed != nil {
		value, err = tr.seed(c, d)
	} else {
		value, err = tr.ValueAtDistance(c, d)
		value = tr.alg.Clone(value)
	}
	if err != nil {
		return -1, err
	}
	mode := Linear
	if len(pts) > 0 && tr.useKeyframes {
		mode = below(pts, d, c.IsClosed()).Mode
	}
	k := &Keyframe[T]{
		id:    curve3d.NewID(),
		seg:   seg,
		time:  t,
		Value: clamp(tr.alg, value),
		Mode:  mode,
	}
	tr.keyframes = append(tr.keyframes, k)
	if err := tr.Sort(c); err != nil {
		return -1, err
	}
	tracer().Infof("track %q: inserted keyframe at %d/%.4f (d=%.4f)", tr.label, seg, t, d)
	return slices.Index(tr.keyframes, k), nil
}

// Sort orders keyframes by anchor, keeping the relative order of keyframes
// with equal anchors, and rebuilds the view of visible keyframes.
func (tr *Track[T]) Sort(c *bezier.Curve) error {
	if err := tr.check(c); err != nil {
		return err
	}
	slices.SortStableFunc(tr.keyframes, func(a, b *Keyframe[T]) int {
		return a.compare(b)
	})
	tr.RefreshView(c)
	return nil
}

// Delete removes the keyframes with the given identities. It returns true
// if anything was removed.
func (tr *Track[T]) Delete(c *bezier.Curve, ids ...curve3d.ID) bool {
	n := len(tr.keyframes)
	tr.keyframes = slices.DeleteFunc(tr.keyframes, func(k *Keyframe[T]) bool {
		return slices.Contains(ids, k.id)
	})
	if len(tr.keyframes) == n {
		return false
	}
	if tr.check(c) == nil {
		tr.RefreshView(c)
	} else {
		tr.Invalidate()
	}
	tracer().Infof("track %q: deleted %d keyframes", tr.label, n-len(tr.keyframes))
	return true
}

// SelectAll returns the identities of all keyframes visible on c.
func (tr *Track[T]) SelectAll(c *bezier.Curve) []curve3d.ID {
	vis := tr.Visible(c)
	ids := make([]curve3d.ID, len(vis))
	for i, k := range vis {
		ids[i] = k.id
	}
	return ids
}

// Clone copies a track, including keyframe identities. Values are copied
// with the track's algebra.
func (tr *Track[T]) Clone() *Track[T] {
	t := *tr
	t.constant = tr.alg.Clone(tr.constant)
	t.keyframes = make([]*Keyframe[T], len(tr.keyframes))
	for i, k := range tr.keyframes {
		kk := *k
		kk.Value = tr.alg.Clone(k.Value)
		t.keyframes[i] = &kk
	}
	t.view.indices = slices.Clone(tr.view.indices)
	return &t
}
