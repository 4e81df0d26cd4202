package bezier

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

func mustRecalc(t *testing.T, c *Curve) *Curve {
	t.Helper()
	if err := c.Recalculate(); err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}
	return c
}

func line(t *testing.T) *Curve {
	return mustRecalc(t, NewCurve().Knot(curve3d.V(0, 0, 0)).Knot(curve3d.V(10, 0, 0)).End())
}

// curvy is an open 3D curve with four control points and free tangents.
func curvy(t *testing.T) *Curve {
	return mustRecalc(t, NewCurve().
		TangentKnot(curve3d.V(0, 0, 0), curve3d.V(0, 0, 0), curve3d.V(2, 3, 0)).
		TangentKnot(curve3d.V(6, 2, 1), curve3d.V(-2, 1, 0), curve3d.V(2, -1, 0)).
		LockedKnot(curve3d.V(10, -2, 3), curve3d.V(1, 1, 1)).
		TangentKnot(curve3d.V(14, 0, 0), curve3d.V(0, -2, 0), curve3d.V(0, 0, 0)).End())
}

func square(t *testing.T) *Curve {
	return mustRecalc(t, NewCurve().
		Knot(curve3d.V(0, 0, 0)).Knot(curve3d.V(10, 0, 0)).
		Knot(curve3d.V(10, 10, 0)).Knot(curve3d.V(0, 10, 0)).Cycle())
}

func TestStraightLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := line(t)
	assert.InDelta(t, 10.0, c.Length(), 1e-9)
	assert.Equal(t, 1, c.SegmentCount())
	p, err := c.PointAtDistance(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(curve3d.V(5, 0, 0), p.Position(), approx); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(vec3.UnitX, p.Tangent, approx); diff != "" {
		t.Errorf("tangent mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 0.5, p.Time, 1e-6)
	assert.Equal(t, 0, p.SegmentIndex)
}

func TestOpenDistancesClamp(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := line(t)
	p, err := c.PointAtDistance(-3)
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, p.Position()[0], 1e-9)
	p, err = c.PointAtDistance(42)
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, p.Position()[0], 1e-9)
	assert.InDelta(t, 7.0, c.WrappedDistanceBetween(1, 8), 1e-9)
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, c := range []*Curve{curvy(t), square(t)} {
		L := c.Length()
		for i := 0; i < 100; i++ {
			d := L * float64(i) / 100
			p, err := c.PointAtDistance(d)
			if err != nil {
				t.Fatalf("unexpected error at d=%g: %v", d, err)
			}
			back, err := c.DistanceAtSegmentTime(p.SegmentIndex, p.Time)
			if err != nil {
				t.Fatalf("unexpected error at %d/%g: %v", p.SegmentIndex, p.Time, err)
			}
			if math.Abs(back-d) > 1e-6 {
				t.Errorf("round trip of %g yields %g", d, back)
			}
		}
	}
}

func TestMonotonicity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := curvy(t)
	last := -1.0
	for seg := 0; seg < c.SegmentCount(); seg++ {
		for i := 0; i <= 20; i++ {
			d, err := c.DistanceAtSegmentTime(seg, float64(i)/20)
			assert.NoError(t, err)
			if d < last-1e-9 {
				t.Fatalf("distance decreases at %d/%d: %g < %g", seg, i, d, last)
			}
			last = d
		}
	}
	assert.InDelta(t, c.Length(), last, 1e-9)
}

func TestClosedCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := square(t)
	assert.Equal(t, 4, c.SegmentCount())
	assert.InDelta(t, 40.0, c.Length(), 1e-9)
	p, err := c.PointAtDistance(35)
	assert.NoError(t, err)
	assert.Equal(t, 3, p.SegmentIndex) // wrap segment
	if diff := cmp.Diff(curve3d.V(0, 5, 0), p.Position(), approx); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	q, err := c.PointAtDistance(35 + 40)
	assert.NoError(t, err)
	if diff := cmp.Diff(p.Position(), q.Position(), approx); diff != "" {
		t.Errorf("closed curve does not wrap (-want +got):\n%s", diff)
	}
	q, err = c.PointAtDistance(-5)
	assert.NoError(t, err)
	assert.InDelta(t, 35.0, q.Distance, 1e-9)
	for i := 0; i < c.SegmentCount(); i++ {
		start, err := c.SegmentStart(i)
		assert.NoError(t, err)
		assert.InDelta(t, 10*float64(i), start, 1e-9, "start of segment %d", i)
	}
	_, err = c.SegmentStart(4)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
	assert.NoError(t, c.SetPosition(0, curve3d.V(-1, 0, 0)))
	_, err = c.SegmentStart(0)
	assert.True(t, errors.Is(err, curve3d.ErrStale))
}

func TestWrappedDistance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := square(t)
	L := c.Length()
	assert.InDelta(t, 10.0, c.WrappedDistanceBetween(5, 35), 1e-9)
	for _, pair := range [][2]float64{{0, 39}, {3, 17}, {12, 31}, {-4, 50}} {
		w := c.WrappedDistanceBetween(pair[0], pair[1])
		if w < 0 || w > L/2+1e-9 {
			t.Errorf("wrapped distance %g for %v out of [0,L/2]", w, pair)
		}
		assert.InDelta(t, w, c.WrappedDistanceBetween(pair[1], pair[0]), 1e-9)
	}
}

func TestRangeErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := curvy(t)
	_, err := c.DistanceAtSegmentTime(-1, 0.5)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
	_, err = c.DistanceAtSegmentTime(c.SegmentCount(), 0.5)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
	_, err = c.DistanceAtSegmentTime(0, 1.5)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
	s, err := c.Segment(0)
	assert.NoError(t, err)
	_, err = s.TimeAtLength(-1)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
	_, err = s.TimeAtLength(s.Length() + 1)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
	_, err = s.LengthAtTime(2)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
	_, err = c.Point(17)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
	err = c.Recalculate(99)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
}

func TestStaleAndDegenerate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCurve().Knot(curve3d.V(1, 2, 3)).End()
	assert.NoError(t, c.Recalculate())
	_, err := c.PointAtDistance(0)
	assert.True(t, errors.Is(err, curve3d.ErrDegenerateCurve))
	_, err = c.DistanceAtSegmentTime(0, 0)
	assert.True(t, errors.Is(err, curve3d.ErrDegenerateCurve))
	//
	c = line(t)
	assert.NoError(t, c.SetPosition(1, curve3d.V(20, 0, 0)))
	assert.True(t, c.IsStale())
	_, err = c.PointAtDistance(1)
	assert.True(t, errors.Is(err, curve3d.ErrStale))
	assert.InDelta(t, 10.0, c.Length(), 1e-9, "length must not change before recalculation")
	mustRecalc(t, c)
	assert.InDelta(t, 20.0, c.Length(), 1e-9)
}

func TestTangentLock(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := curvy(t)
	assert.NoError(t, c.SetLeftTangent(2, curve3d.V(-3, 0, 1)))
	cp, _ := c.Point(2)
	if diff := cmp.Diff(curve3d.V(3, 0, -1), cp.RightTangent(), approx); diff != "" {
		t.Errorf("locked right tangent (-want +got):\n%s", diff)
	}
	assert.NoError(t, c.SetHandle(2, HandleRight, curve3d.AddV(cp.Position(), curve3d.V(0, 4, 0))))
	if diff := cmp.Diff(curve3d.V(0, -4, 0), cp.LeftTangent(), approx); diff != "" {
		t.Errorf("locked left tangent (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(curve3d.V(10, -6, 3), cp.World(HandleLeft), approx); diff != "" {
		t.Errorf("left handle in curve space (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(curve3d.V(10, 2, 3), cp.World(HandleRight), approx); diff != "" {
		t.Errorf("right handle in curve space (-want +got):\n%s", diff)
	}
	assert.Equal(t, cp.Position(), cp.World(HandlePosition))
	// unlocked: tangents move independently
	assert.NoError(t, c.SetTangentsLocked(2, false))
	assert.NoError(t, c.SetRightTangent(2, curve3d.V(1, 0, 0)))
	if diff := cmp.Diff(curve3d.V(0, -4, 0), cp.LeftTangent(), approx); diff != "" {
		t.Errorf("unlocked left tangent changed (-want +got):\n%s", diff)
	}
	// locking again mirrors left to right
	assert.NoError(t, c.SetTangentsLocked(2, true))
	if diff := cmp.Diff(curve3d.V(0, 4, 0), cp.RightTangent(), approx); diff != "" {
		t.Errorf("re-locked right tangent (-want +got):\n%s", diff)
	}
}

func TestAxisLock(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := curvy(t)
	c.SetAxisLock(curve3d.LockZ)
	for i, cp := range c.Points() {
		for _, h := range []Handle{HandlePosition, HandleLeft, HandleRight} {
			if !curve3d.Is0(cp.World(h)[2]) {
				t.Errorf("point %d, %s handle not projected: %v", i, h, cp.World(h))
			}
		}
	}
	assert.NoError(t, c.SetPosition(1, curve3d.V(5, 5, 5)))
	cp, _ := c.Point(1)
	assert.Equal(t, 0.0, cp.Position()[2])
	mustRecalc(t, c)
	for d := 0.0; d < c.Length(); d += c.Length() / 17 {
		p, err := c.PointAtDistance(d)
		assert.NoError(t, err)
		assert.InDelta(t, 0.0, p.Position()[2], 1e-9)
		// planar curves use the plane normal as reference
		if diff := cmp.Diff(vec3.UnitZ, p.Reference, approx); diff != "" {
			t.Errorf("reference at %g (-want +got):\n%s", d, diff)
		}
	}
}

func TestDirtyMarking(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := curvy(t) // open, 4 points, 3 segments
	assert.Empty(t, c.DirtySegments())
	assert.NoError(t, c.SetPosition(0, curve3d.V(0, 1, 0)))
	assert.Equal(t, []int{0}, c.DirtySegments())
	assert.NoError(t, c.MovePoint(2, curve3d.V(0, 1, 0)))
	assert.Equal(t, []int{0, 1, 2}, c.DirtySegments())
	mustRecalc(t, c)
	assert.NoError(t, c.SetLeftTangent(3, curve3d.V(0, -1, 0)))
	assert.Equal(t, []int{2}, c.DirtySegments())
	mustRecalc(t, c)
	//
	s := square(t)
	assert.NoError(t, s.SetPosition(0, curve3d.V(-1, -1, 0)))
	assert.Equal(t, []int{0, 3}, s.DirtySegments())
	mustRecalc(t, s)
	assert.Empty(t, s.DirtySegments())
	// topology changes schedule every segment
	s.SetClosedLoop(false)
	assert.Equal(t, []int{0, 1, 2}, s.DirtySegments())
}

func TestRecalculateOnlyRebuildsDirty(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := curvy(t)
	seg2, _ := c.Segment(2)
	before := seg2.Length()
	// sneak around the edit API: segment 2 must not notice
	c.points[3].position = curve3d.V(30, 0, 0)
	assert.NoError(t, c.SetPosition(0, curve3d.V(0, 1, 0)))
	mustRecalc(t, c)
	assert.Equal(t, before, seg2.Length())
	// forcing a segment rebuilds it
	assert.NoError(t, c.Recalculate(2))
	assert.NotEqual(t, before, seg2.Length())
}

func TestInsertAndRemovePoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := line(t)
	c.AppendPoint(NewControlPoint(curve3d.V(10, 10, 0), vec3.T{}, vec3.T{}, false))
	c.PrependPoint(NewControlPoint(curve3d.V(0, -5, 0), vec3.T{}, vec3.T{}, false))
	assert.Equal(t, 4, c.N())
	mustRecalc(t, c)
	assert.InDelta(t, 25.0, c.Length(), 1e-9)
	cp, err := c.RemovePoint(0)
	assert.NoError(t, err)
	assert.Equal(t, -1, c.IndexOf(cp.ID()))
	mustRecalc(t, c)
	assert.InDelta(t, 20.0, c.Length(), 1e-9)
	err = c.InsertPoint(7, cp)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
}

func TestSplitPreservesShape(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCurve().
		TangentKnot(curve3d.V(0, 0, 0), vec3.T{}, curve3d.V(3, 4, 0)).
		TangentKnot(curve3d.V(10, 0, 2), curve3d.V(-2, 5, 0), vec3.T{}).End()
	mustRecalc(t, c)
	old, _ := c.Segment(0)
	cubic := old.Cubic()
	idx, err := c.SplitSegment(0, 0.3, SplitPreserveShape)
	assert.NoError(t, err)
	assert.Equal(t, 1, idx)
	mustRecalc(t, c)
	assert.Equal(t, 2, c.SegmentCount())
	a, _ := c.Segment(0)
	b, _ := c.Segment(1)
	for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if diff := cmp.Diff(cubic.Eval(0.3*u), a.Cubic().Eval(u), approx); diff != "" {
			t.Errorf("first half at %g (-want +got):\n%s", u, diff)
		}
		if diff := cmp.Diff(cubic.Eval(0.3+0.7*u), b.Cubic().Eval(u), approx); diff != "" {
			t.Errorf("second half at %g (-want +got):\n%s", u, diff)
		}
	}
	_, err = c.SplitSegment(0, 1, SplitKeepNeighbours)
	assert.True(t, errors.Is(err, curve3d.ErrOutOfRange))
}

func TestSplitKeepNeighbours(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := square(t)
	first, _ := c.Point(3)
	right := first.RightTangent()
	idx, err := c.SplitSegment(3, 0.5, SplitKeepNeighbours) // wrap segment
	assert.NoError(t, err)
	assert.Equal(t, 4, idx)
	assert.Equal(t, right, first.RightTangent())
	mustRecalc(t, c)
	assert.Equal(t, 5, c.SegmentCount())
	cp, _ := c.Point(4)
	if diff := cmp.Diff(curve3d.V(0, 5, 0), cp.Position(), approx); diff != "" {
		t.Errorf("split point (-want +got):\n%s", diff)
	}
}

func TestRemaps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	split := SplitRemap(1, 0.25)
	s, u := split(1, 0.125)
	assert.Equal(t, 1, s)
	assert.InDelta(t, 0.5, u, 1e-9)
	s, u = split(1, 0.625)
	assert.Equal(t, 2, s)
	assert.InDelta(t, 0.5, u, 1e-9)
	s, _ = split(2, 0.1)
	assert.Equal(t, 3, s)
	//
	ins := InsertRemap(2)
	s, _ = ins(1, 0.5)
	assert.Equal(t, 1, s)
	s, _ = ins(2, 0.5)
	assert.Equal(t, 3, s)
	//
	rm := RemoveRemap(2, 5, false)
	s, u = rm(1, 0.5)
	assert.Equal(t, 1, s)
	assert.InDelta(t, 0.25, u, 1e-9)
	s, u = rm(2, 0.5)
	assert.Equal(t, 1, s)
	assert.InDelta(t, 0.75, u, 1e-9)
	s, _ = rm(3, 0.5)
	assert.Equal(t, 2, s)
	rm = RemoveRemap(0, 4, true)
	s, u = rm(3, 0.5) // old wrap segment
	assert.Equal(t, 2, s)
	assert.InDelta(t, 0.25, u, 1e-9)
	s, u = rm(0, 0.5)
	assert.Equal(t, 2, s)
	assert.InDelta(t, 0.75, u, 1e-9)
	rm = RemoveRemap(3, 4, false)
	s, u = rm(2, 0.5)
	assert.Equal(t, 1, s)
	assert.InDelta(t, 1.0, u, 1e-9)
}

func TestFrameContinuity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := curvy(t)
	var prev *PointOnCurve
	for p := range c.Along(c.Length() / 200) {
		assert.InDelta(t, 0.0, curve3d.Dot(p.Tangent, p.Reference), 1e-9)
		assert.InDelta(t, 1.0, curve3d.Len(p.Reference), 1e-9)
		if prev != nil && curve3d.Dot(prev.Reference, p.Reference) < 0.9 {
			t.Errorf("reference flips between %v and %v", prev, p)
		}
		prev = &p
	}
	if prev == nil {
		t.Fatalf("no points along curve")
	}
	assert.InDelta(t, c.Length(), prev.Distance, 1e-9)
}

func TestReferenceHint(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := line(t)
	c.SetReferenceHint(curve3d.V(1, 0, 1)) // not orthogonal to the tangent
	mustRecalc(t, c)
	p, _ := c.PointAtDistance(0)
	if diff := cmp.Diff(vec3.UnitZ, p.Reference, approx); diff != "" {
		t.Errorf("hinted reference (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(vec3.UnitZ, c.EndReference(), approx); diff != "" {
		t.Errorf("end reference (-want +got):\n%s", diff)
	}
	c.SetReferenceHint(vec3.T{})
	_, ok := c.ReferenceHint()
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := curvy(t)
	same := c.Clone(false)
	fresh := c.Clone(true)
	assert.Equal(t, c.ID(), same.ID())
	assert.NotEqual(t, c.ID(), fresh.ID())
	for i, cp := range c.Points() {
		assert.Equal(t, cp.ID(), same.Points()[i].ID())
		assert.NotEqual(t, cp.ID(), fresh.Points()[i].ID())
	}
	assert.InDelta(t, c.Length(), fresh.Length(), 1e-12)
	p, err := fresh.PointAtDistance(3)
	assert.NoError(t, err)
	q, _ := c.PointAtDistance(3)
	if diff := cmp.Diff(q.Position(), p.Position(), approx); diff != "" {
		t.Errorf("clone query (-want +got):\n%s", diff)
	}
	assert.NoError(t, fresh.SetPosition(0, curve3d.V(-5, 0, 0)))
	mustRecalc(t, fresh)
	assert.False(t, c.IsStale())
	cp, _ := c.Point(0)
	assert.Equal(t, curve3d.V(0, 0, 0), cp.Position())
}

func TestSmooth(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCurve().Lock(curve3d.LockZ).
		Knot(curve3d.V(1, 1, 0)).Knot(curve3d.V(2, 2, 0)).
		Knot(curve3d.V(3, 1, 0)).Knot(curve3d.V(2, 0, 0)).Cycle()
	assert.NoError(t, c.Smooth())
	mustRecalc(t, c)
	cp, _ := c.Point(0)
	assert.InDelta(t, 1.0, cp.WorldRight()[0], 0.0002)
	assert.InDelta(t, 1.5523, cp.WorldRight()[1], 0.0002)
	// a circle of radius 1
	assert.InDelta(t, 2*math.Pi, c.Length(), 0.02)
	//
	free := curvy(t)
	assert.True(t, errors.Is(free.Smooth(), curve3d.ErrNotPlanar))
}

func TestAlongClosed(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := square(t)
	n := 0
	for p := range c.Along(5) {
		assert.InDelta(t, float64(n)*5, p.Distance, 1e-9)
		n++
	}
	assert.Equal(t, 8, n)
}
