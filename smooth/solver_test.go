package smooth

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func circle() []curve3d.Pair {
	return []curve3d.Pair{curve3d.P(1, 1), curve3d.P(2, 2), curve3d.P(3, 1), curve3d.P(2, 0)}
}

func TestControlsDeterministicSnapshot(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pre, post, err := Controls(circle(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(post[0].X()-1.0000) > 0.0002 || math.Abs(post[0].Y()-1.5523) > 0.0002 {
		t.Fatalf("unexpected post control[0]: %v", post[0])
	}
	if math.Abs(pre[1].X()-1.4477) > 0.0002 || math.Abs(pre[1].Y()-2.0000) > 0.0002 {
		t.Fatalf("unexpected pre control[1]: %v", pre[1])
	}
	if math.Abs(post[2].X()-3.0000) > 0.0002 || math.Abs(post[2].Y()-0.4477) > 0.0002 {
		t.Fatalf("unexpected post control[2]: %v", post[2])
	}
}

func TestCycleIsSymmetric(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	knots := circle()
	pre, post := MustControls(knots, true)
	for i, z := range knots {
		// handles of a circle are tangential and of equal length
		in, out := pre[i]-z, post[i]-z
		assert.InDelta(t, in.Abs(), out.Abs(), 1e-6, "handle lengths at knot %d", i)
		assert.InDelta(t, 0, (in + out).Abs(), 1e-6, "handles at knot %d not opposite", i)
	}
}

func TestOpenTwoKnotsIsStraight(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	knots := []curve3d.Pair{curve3d.P(0, 0), curve3d.P(3, 0)}
	pre, post, err := Controls(knots, false)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, post[0].X(), 1e-9)
	assert.InDelta(t, 0.0, post[0].Y(), 1e-9)
	assert.InDelta(t, 2.0, pre[1].X(), 1e-9)
	assert.InDelta(t, 0.0, pre[1].Y(), 1e-9)
	if pre[0] != knots[0] || post[1] != knots[1] {
		t.Errorf("terminal controls should equal terminal knots, are %v and %v", pre[0], post[1])
	}
}

func TestOpenPathPassesThroughInterior(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	knots := []curve3d.Pair{curve3d.P(0, 0), curve3d.P(2, 3), curve3d.P(5, 3), curve3d.P(3, -1)}
	pre, post, err := Controls(knots, false)
	assert.NoError(t, err)
	for i := 1; i < len(knots)-1; i++ { // interior knots are smooth
		in, out := knots[i]-pre[i], post[i]-knots[i]
		cross := in.X()*out.Y() - in.Y()*out.X()
		dot := in.X()*out.X() + in.Y()*out.Y()
		assert.InDelta(t, 0, cross, 1e-6, "knot %d has a corner", i)
		assert.Greater(t, dot, 0.0, "knot %d reverses direction", i)
	}
}

func TestTension(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, post1, err := Solve(circle(), true, 1, 1)
	assert.NoError(t, err)
	_, post2, err := Solve(circle(), true, 2, 1)
	assert.NoError(t, err)
	knot := circle()[0]
	if (post2[0] - knot).Abs() >= (post1[0] - knot).Abs() {
		t.Errorf("higher tension should shorten handles: %v vs %v", post2[0], post1[0])
	}
	_, _, err = Solve(circle(), true, 0.5, 1)
	assert.True(t, errors.Is(err, ErrInvalidTension))
}

func TestRejectsInvalidKnots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, _, err := Controls([]curve3d.Pair{curve3d.P(0, 0)}, false)
	assert.True(t, errors.Is(err, ErrTooFewKnots))
	_, _, err = Controls([]curve3d.Pair{curve3d.P(0, 0), curve3d.P(1, 1)}, true)
	assert.True(t, errors.Is(err, ErrTooFewKnots))
	_, _, err = Controls([]curve3d.Pair{curve3d.P(0, 0), curve3d.P(0, 0), curve3d.P(1, 1)}, false)
	assert.True(t, errors.Is(err, ErrDegenerateSegment))
	_, _, err = Controls([]curve3d.Pair{curve3d.P(0, 0), curve3d.P(math.NaN(), 1)}, false)
	assert.True(t, errors.Is(err, ErrInvalidKnot))
}

func TestMustControlsPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for invalid knots")
		}
	}()
	MustControls(nil, false)
}
