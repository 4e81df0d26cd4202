package track

import (
	"fmt"

	"github.com/npillmayer/curve3d"
)

// Mode is the interpolation mode of a keyframe, governing the gap to the
// next keyframe.
type Mode int

// Interpolation modes.
const (
	Linear Mode = iota // interpolate towards the next keyframe
	Flat               // hold the value until the next keyframe
)

func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Flat:
		return "flat"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Keyframe is a value anchored at a position on a curve.
type Keyframe[T any] struct {
	id    curve3d.ID
	seg   int     // segment index
	time  float64 // parameter within segment
	Value T
	Mode  Mode
}

// ID is the identity token of a keyframe.
func (k *Keyframe[T]) ID() curve3d.ID {
	return k.id
}

// Anchor returns the segment index and time the keyframe sits at.
func (k *Keyframe[T]) Anchor() (int, float64) {
	return k.seg, k.time
}

func (k *Keyframe[T]) String() string {
	return fmt.Sprintf("<key %d/%.4f %v %s>", k.seg, k.time, k.Value, k.Mode)
}

// compare orders keyframes by anchor.
func (k *Keyframe[T]) compare(other *Keyframe[T]) int {
	switch {
	case k.seg < other.seg:
		return -1
	case k.seg > other.seg:
		return 1
	case k.time < other.time:
		return -1
	case k.time > other.time:
		return 1
	}
	return 0
}
