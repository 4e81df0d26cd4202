package shape

import (
	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
	"github.com/ungerik/go3d/float64/vec3"
)

// Edits in this file hold the write lock. Structural edits re-anchor every
// track; none of them recalculates, call Recalculate when done editing.

// SetPosition moves control point i to position.
func (s *Shape) SetPosition(i int, position vec3.T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve.SetPosition(i, position)
}

// SetHandle moves handle h of control point i to a world position.
func (s *Shape) SetHandle(i int, h bezier.Handle, world vec3.T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve.SetHandle(i, h, world)
}

// SetTangentsLocked locks or unlocks the tangents of control point i.
func (s *Shape) SetTangentsLocked(i int, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve.SetTangentsLocked(i, locked)
}

// SplitSegment inserts a control point at time t of segment seg and
// returns its index. Keyframes on the split segment move to the half they
// lie on.
func (s *Shape) SplitSegment(seg int, t float64, policy bezier.SplitPolicy) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.curve.SplitSegment(seg, t, policy)
	if err != nil {
		return 0, err
	}
	return i, s.reanchor(bezier.SplitRemap(seg, t))
}

// InsertPoint inserts cp at index i.
func (s *Shape) InsertPoint(i int, cp *bezier.ControlPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPoint(i, cp)
}

// AppendPoint adds cp at the end of the curve.
func (s *Shape) AppendPoint(cp *bezier.ControlPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPoint(s.curve.N(), cp)
}

func (s *Shape) insertPoint(i int, cp *bezier.ControlPoint) error {
	if err := s.curve.InsertPoint(i, cp); err != nil {
		return err
	}
	return s.reanchor(bezier.InsertRemap(i))
}

// RemovePoint deletes control point i. Keyframes on the two segments
// meeting at the point end up on the merged segment.
func (s *Shape) RemovePoint(i int) (*bezier.ControlPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, closed := s.curve.N(), s.curve.IsClosed()
	cp, err := s.curve.RemovePoint(i)
	if err != nil {
		return nil, err
	}
	return cp, s.reanchor(bezier.RemoveRemap(i, n, closed))
}

// SetClosedLoop opens or closes the curve. Keyframes on the wrap segment
// are hidden while the curve is open.
func (s *Shape) SetClosedLoop(closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curve.SetClosedLoop(closed)
	s.settings.ClosedLoop = closed
	s.invalidate()
}

// SetAxisLock locks the curve to a plane.
func (s *Shape) SetAxisLock(lock curve3d.AxisLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curve.SetAxisLock(lock)
	s.settings.AxisLock = lock
	s.invalidate()
}

// SetSamplesPerSegment sets the resolution of the curve's arc-length tables.
func (s *Shape) SetSamplesPerSegment(k int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.curve.SetSamplesPerSegment(k); err != nil {
		return err
	}
	s.settings.SamplesPerSegment = k
	return nil
}

// Smooth replaces all tangents by the ones of a smooth spline through the
// control points. The curve has to be locked to a plane.
func (s *Shape) Smooth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve.Smooth()
}

func (s *Shape) reanchor(remap bezier.Remap) error {
	return s.each(func(tr trackOps) error {
		if err := tr.Reanchor(s.curve, remap); err != nil {
			tracer().Errorf("re-anchoring track %q: %v", tr.Label(), err)
			return err
		}
		return nil
	})
}

func (s *Shape) invalidate() {
	_ = s.each(func(tr trackOps) error {
		tr.Invalidate()
		return nil
	})
}
