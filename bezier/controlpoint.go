package bezier

import (
	"fmt"

	"github.com/npillmayer/curve3d"
	"github.com/ungerik/go3d/float64/vec3"
)

// Handle selects one of the three editable positions of a control point.
type Handle int

// Handles of a control point.
const (
	HandlePosition Handle = iota
	HandleLeft
	HandleRight
)

func (h Handle) String() string {
	switch h {
	case HandlePosition:
		return "position"
	case HandleLeft:
		return "left"
	case HandleRight:
		return "right"
	}
	return fmt.Sprintf("Handle(%d)", int(h))
}

// ControlPoint is an anchor on a curve together with its two tangent
// handles. Tangents are stored relative to the position.
//
// Control points are owned by a Curve and can only be changed through it,
// as every change has to invalidate the adjacent segments.
type ControlPoint struct {
	id       curve3d.ID
	position vec3.T
	left     vec3.T
	right    vec3.T
	locked   bool // right = -left
}

// NewControlPoint creates a free-standing control point, ready to be inserted
// into a curve. If locked is set, the right tangent is derived from the left
// one.
func NewControlPoint(position, left, right vec3.T, locked bool) *ControlPoint {
	cp := &ControlPoint{
		id:       curve3d.NewID(),
		position: position,
		left:     left,
		right:    right,
	}
	cp.setLocked(locked)
	return cp
}

// ID is the identity token of a control point.
func (cp *ControlPoint) ID() curve3d.ID {
	return cp.id
}

// Position is the anchor position.
func (cp *ControlPoint) Position() vec3.T {
	return cp.position
}

// LeftTangent is the incoming tangent handle, relative to the position.
func (cp *ControlPoint) LeftTangent() vec3.T {
	return cp.left
}

// RightTangent is the outgoing tangent handle, relative to the position.
func (cp *ControlPoint) RightTangent() vec3.T {
	return cp.right
}

// TangentsLocked is a predicate: are the tangents mirrored at the position?
func (cp *ControlPoint) TangentsLocked() bool {
	return cp.locked
}

// WorldLeft is the left handle in curve space.
func (cp *ControlPoint) WorldLeft() vec3.T {
	return curve3d.AddV(cp.position, cp.left)
}

// WorldRight is the right handle in curve space.
func (cp *ControlPoint) WorldRight() vec3.T {
	return curve3d.AddV(cp.position, cp.right)
}

// World returns the curve-space position of a handle.
func (cp *ControlPoint) World(h Handle) vec3.T {
	switch h {
	case HandleLeft:
		return cp.WorldLeft()
	case HandleRight:
		return cp.WorldRight()
	}
	return cp.position
}

// Clone copies a control point. With freshID set, the copy gets a new
// identity, otherwise it shares the identity of cp.
func (cp *ControlPoint) Clone(freshID bool) *ControlPoint {
	c := *cp
	if freshID {
		c.id = curve3d.NewID()
	}
	return &c
}

func (cp *ControlPoint) String() string {
	return fmt.Sprintf("%s [%s|%s]", curve3d.VString(cp.position),
		curve3d.VString(cp.left), curve3d.VString(cp.right))
}

// --- Mutators, used by Curve -----------------------------------------------

func (cp *ControlPoint) setLocked(locked bool) {
	cp.locked = locked
	if locked {
		cp.right = curve3d.NegV(cp.left)
	}
}

func (cp *ControlPoint) setLeft(v vec3.T) {
	cp.left = v
	if cp.locked {
		cp.right = curve3d.NegV(v)
	}
}

func (cp *ControlPoint) setRight(v vec3.T) {
	cp.right = v
	if cp.locked {
		cp.left = curve3d.NegV(v)
	}
}

// setWorld writes a handle given in curve space, projected by lock.
func (cp *ControlPoint) setWorld(h Handle, v vec3.T, lock curve3d.AxisLock) {
	v = lock.Project(v)
	switch h {
	case HandlePosition:
		cp.position = v
	case HandleLeft:
		cp.setLeft(curve3d.SubV(v, cp.position))
	case HandleRight:
		cp.setRight(curve3d.SubV(v, cp.position))
	}
}

// project re-applies an axis lock to all three handles.
func (cp *ControlPoint) project(lock curve3d.AxisLock) {
	wl, wr := cp.WorldLeft(), cp.WorldRight()
	cp.setWorld(HandlePosition, cp.position, lock)
	cp.setWorld(HandleLeft, wl, lock)
	cp.setWorld(HandleRight, wr, lock)
}
